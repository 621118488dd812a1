package billing

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/notebase/billing-server/models"
)

const maxBodyBytes = int64(65536)

// Webhook is the Stripe event intake. Signature failures are the only 400;
// once an event is verified the endpoint always acknowledges with 200 so
// Stripe stops re-delivering, even when reconciliation fails. Failures are
// logged server-side only.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	// A truncated body fails signature verification below, which keeps 400
	// reserved for the signature path.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.Printf("[webhook] body read failed: %v", err)
	}

	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		log.Printf("[webhook] no signature header present")
		respondError(w, http.StatusBadRequest, "no signature header present")
		return
	}

	event, err := webhook.ConstructEventWithOptions(body, sig, h.cfg.Stripe.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Printf("[webhook] signature verification failed: %v", err)
		respondError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	result := h.reconciler.Reconcile(event)
	if !result.Success {
		log.Printf("[webhook] %s not applied: %s (%s)", event.Type, result.Message, result.Error)
	}

	if event.Type == "invoice.payment_failed" && result.Success && h.notifier != nil {
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err == nil && inv.Customer != nil {
			h.notifier.PaymentFailed(r.Context(), inv.Customer.ID)
		}
	}

	respondJSON(w, http.StatusOK, models.WebhookAck{Received: true, Success: result.Success})
}
