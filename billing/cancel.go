package billing

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	stripe "github.com/stripe/stripe-go/v79"

	notebaseDB "github.com/notebase/billing-server/db"
	"github.com/notebase/billing-server/models"
)

// CancelSubscription asks Stripe to cancel the user's subscription at the
// end of the billing period and records the pending "canceling" state
// locally. The row flips to its final canceled state when the provider's
// customer.subscription.deleted event arrives.
func (h *Handler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	var req models.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var subID sql.NullString
	err := notebaseDB.LogAndQueryRow(h.db, "SELECT subscription_id FROM users WHERE id = $1", req.UserID).Scan(&subID)
	switch {
	case err == sql.ErrNoRows:
		respondError(w, http.StatusNotFound, "No active subscription found")
		return
	case err != nil:
		log.Printf("cancel lookup failed user=%d err=%v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	case !subID.Valid || subID.String == "":
		respondError(w, http.StatusNotFound, "No active subscription found")
		return
	}

	sub, err := h.stripe.UpdateSubscription(subID.String, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		log.Printf("stripe cancellation failed user=%d sub=%s err=%v", req.UserID, subID.String, err)
		respondJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to cancel subscription",
			Message: err.Error(),
		})
		return
	}

	var status string
	err = notebaseDB.LogAndQueryRow(h.db, "UPDATE users SET subscription_status = $1, canceled_at = $2 WHERE id = $3 RETURNING subscription_status",
		"canceling", h.now(), req.UserID).Scan(&status)
	if err != nil {
		log.Printf("cancel state write failed user=%d err=%v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	}

	respondJSON(w, http.StatusOK, models.CancelResponse{
		Success:            true,
		Message:            "Subscription will be canceled at the end of the billing period",
		CancelAt:           sub.CancelAt,
		SubscriptionStatus: status,
	})
}
