package billing

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	stripe "github.com/stripe/stripe-go/v79"

	"github.com/notebase/billing-server/models"
)

// CreateCheckoutSession starts a subscription-mode Checkout Session for the
// requested cadence. The local user id rides along in the session metadata
// so the webhook can link the row once checkout completes.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	priceID := h.cfg.Stripe.MonthlyPriceID
	if req.PlanType == "yearly" {
		priceID = h.cfg.Stripe.YearlyPriceID
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(h.cfg.FrontendURL() + "/success"),
		CancelURL:  stripe.String(h.cfg.FrontendURL() + "/cancel"),
	}
	params.AddMetadata("userId", strconv.FormatInt(req.UserID, 10))

	sess, err := h.stripe.NewCheckoutSession(params)
	if err != nil {
		log.Printf("checkout session failed user=%d err=%v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, models.CheckoutResponse{URL: sess.URL})
}
