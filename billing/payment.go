package billing

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	stripe "github.com/stripe/stripe-go/v79"

	"github.com/notebase/billing-server/models"
)

// CreatePaymentIntent creates a one-off USD PaymentIntent and hands the
// client secret back for frontend confirmation.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("userId", strconv.FormatInt(req.UserID, 10))

	intent, err := h.stripe.NewPaymentIntent(params)
	if err != nil {
		log.Printf("payment intent failed user=%d err=%v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, models.PaymentIntentResponse{ClientSecret: intent.ClientSecret})
}
