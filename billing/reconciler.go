package billing

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	stripe "github.com/stripe/stripe-go/v79"

	notebaseDB "github.com/notebase/billing-server/db"
	"github.com/notebase/billing-server/models"
)

// Reconciler applies verified Stripe events to the users table. Every event
// kind maps to exactly one row update; all failures come back in the
// WebhookResult so the intake can always acknowledge receipt.
type Reconciler struct {
	db  *sql.DB
	now func() time.Time
}

func NewReconciler(db *sql.DB) *Reconciler {
	return &Reconciler{
		db:  db,
		now: time.Now,
	}
}

// Reconcile dispatches on the event kind. Unknown kinds are acknowledged
// without touching the store.
func (r *Reconciler) Reconcile(event stripe.Event) models.WebhookResult {
	// A signed body without a data field leaves Data nil.
	if event.Data == nil {
		return invalidPayload(event.Type, errors.New("event has no data"))
	}

	switch event.Type {
	case "customer.created":
		var cus stripe.Customer
		if err := json.Unmarshal(event.Data.Raw, &cus); err != nil {
			return invalidPayload(event.Type, err)
		}
		return r.customerCreated(&cus)

	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return invalidPayload(event.Type, err)
		}
		return r.checkoutSessionCompleted(&sess)

	case "customer.subscription.created":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return invalidPayload(event.Type, err)
		}
		return r.subscriptionCreated(&sub)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return invalidPayload(event.Type, err)
		}
		return r.subscriptionUpdated(&sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return invalidPayload(event.Type, err)
		}
		return r.subscriptionDeleted(&sub)

	case "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return invalidPayload(event.Type, err)
		}
		return r.invoicePaymentSucceeded(&inv)

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return invalidPayload(event.Type, err)
		}
		return r.invoicePaymentFailed(&inv)

	case "invoice.payment_canceled":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return invalidPayload(event.Type, err)
		}
		return r.invoicePaymentCanceled(&inv)

	default:
		log.Printf("[webhook] unhandled event type %s", event.Type)
		return success("Unhandled event type")
	}
}

// customerCreated links a freshly created Stripe customer back to the user
// row sharing its email.
func (r *Reconciler) customerCreated(cus *stripe.Customer) models.WebhookResult {
	if cus.Email == "" {
		log.Printf("[webhook] no email found in customer %s", cus.ID)
		return failure("No email found", models.ErrMissingEmail)
	}

	res, err := notebaseDB.LogAndExec(r.db, "UPDATE users SET stripe_customer_id = $1 WHERE email = $2", cus.ID, cus.Email)
	if err != nil {
		log.Printf("[webhook] customer link failed email=%s err=%v", cus.Email, err)
		return failure("Failed to link customer", models.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Printf("[webhook] no user found for email %s", cus.Email)
		return failure("User not found", models.ErrUserNotFound)
	}

	return success("Customer linked successfully")
}

// checkoutSessionCompleted activates the pro plan for the user id carried
// in the session metadata and pins the customer id onto the row.
func (r *Reconciler) checkoutSessionCompleted(sess *stripe.CheckoutSession) models.WebhookResult {
	userID := sess.Metadata["userId"]
	if userID == "" {
		log.Printf("[webhook] no userId found in session metadata")
		return failure("No userId found", models.ErrMissingUserID)
	}

	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}

	res, err := notebaseDB.LogAndExec(r.db, "UPDATE users SET plan = $1, last_payment_status = $2, stripe_customer_id = $3 WHERE id = $4",
		models.PlanPro, "succeeded", customerID, userID)
	if err != nil {
		log.Printf("[webhook] checkout completion failed user=%s err=%v", userID, err)
		return failure("Failed to update subscription", models.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return failure("User not found", models.ErrUserNotFound)
	}

	return success("Subscription activated successfully")
}

func (r *Reconciler) subscriptionCreated(sub *stripe.Subscription) models.WebhookResult {
	userID, ok := r.userIDByStripeCustomer(customerID(sub.Customer))
	if !ok {
		return failure("User not found", models.ErrUserNotFound)
	}

	_, err := notebaseDB.LogAndExec(r.db, "UPDATE users SET plan = $1, subscription_status = $2, subscription_id = $3, canceled_at = NULL WHERE id = $4",
		models.PlanPro, string(sub.Status), sub.ID, userID)
	if err != nil {
		log.Printf("[webhook] subscription creation failed user=%d err=%v", userID, err)
		return failure("Failed to create subscription", models.ErrSubscription)
	}

	return success("Subscription created successfully")
}

// subscriptionUpdated mirrors the provider's status and recomputes the plan:
// active means pro, canceled and unpaid mean free. Any other status (e.g.
// past_due, incomplete) leaves the plan column at its prior value.
func (r *Reconciler) subscriptionUpdated(sub *stripe.Subscription) models.WebhookResult {
	userID, ok := r.userIDByStripeCustomer(customerID(sub.Customer))
	if !ok {
		return failure("User not found", models.ErrUserNotFound)
	}

	var err error
	switch sub.Status {
	case stripe.SubscriptionStatusActive:
		_, err = notebaseDB.LogAndExec(r.db, "UPDATE users SET subscription_status = $1, subscription_id = $2, plan = $3 WHERE id = $4",
			string(sub.Status), sub.ID, models.PlanPro, userID)
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid:
		_, err = notebaseDB.LogAndExec(r.db, "UPDATE users SET subscription_status = $1, subscription_id = $2, plan = $3 WHERE id = $4",
			string(sub.Status), sub.ID, models.PlanFree, userID)
	default:
		_, err = notebaseDB.LogAndExec(r.db, "UPDATE users SET subscription_status = $1, subscription_id = $2 WHERE id = $3",
			string(sub.Status), sub.ID, userID)
	}
	if err != nil {
		log.Printf("[webhook] subscription update failed user=%d err=%v", userID, err)
		return failure("Failed to update subscription", models.ErrSubscriptionUpdate)
	}

	return success("Subscription updated successfully")
}

func (r *Reconciler) subscriptionDeleted(sub *stripe.Subscription) models.WebhookResult {
	userID, ok := r.userIDByStripeCustomer(customerID(sub.Customer))
	if !ok {
		return failure("User not found", models.ErrUserNotFound)
	}

	_, err := notebaseDB.LogAndExec(r.db, "UPDATE users SET plan = $1, subscription_status = $2, subscription_id = NULL, canceled_at = $3 WHERE id = $4",
		models.PlanFree, "canceled", r.now(), userID)
	if err != nil {
		log.Printf("[webhook] subscription deletion failed user=%d err=%v", userID, err)
		return failure("Failed to cancel subscription", models.ErrCancellation)
	}

	return success("Subscription canceled successfully")
}

func (r *Reconciler) invoicePaymentSucceeded(inv *stripe.Invoice) models.WebhookResult {
	userID, ok := r.userIDByStripeCustomer(customerID(inv.Customer))
	if !ok {
		return failure("User not found", models.ErrUserNotFound)
	}

	_, err := notebaseDB.LogAndExec(r.db, "UPDATE users SET last_payment_status = $1, plan = $2 WHERE id = $3",
		"succeeded", models.PlanPro, userID)
	if err != nil {
		log.Printf("[webhook] payment success write failed user=%d err=%v", userID, err)
		return failure("Failed to update payment status", models.ErrPaymentSuccessUpdate)
	}

	return success("Payment successful and user updated")
}

func (r *Reconciler) invoicePaymentFailed(inv *stripe.Invoice) models.WebhookResult {
	userID, ok := r.userIDByStripeCustomer(customerID(inv.Customer))
	if !ok {
		return failure("User not found", models.ErrUserNotFound)
	}

	_, err := notebaseDB.LogAndExec(r.db, "UPDATE users SET last_payment_status = $1 WHERE id = $2", "failed", userID)
	if err != nil {
		log.Printf("[webhook] payment failure write failed user=%d err=%v", userID, err)
		return failure("Failed to update payment status", models.ErrPayment)
	}

	return success("Payment failure recorded")
}

func (r *Reconciler) invoicePaymentCanceled(inv *stripe.Invoice) models.WebhookResult {
	userID, ok := r.userIDByStripeCustomer(customerID(inv.Customer))
	if !ok {
		return failure("User not found", models.ErrUserNotFound)
	}

	_, err := notebaseDB.LogAndExec(r.db, "UPDATE users SET last_payment_status = $1 WHERE id = $2", "canceled", userID)
	if err != nil {
		log.Printf("[webhook] payment cancellation write failed user=%d err=%v", userID, err)
		return failure("Failed to update payment status", models.ErrPaymentCancellationWrite)
	}

	return success("Payment cancellation recorded")
}

// userIDByStripeCustomer resolves a local user id from a Stripe customer id.
// An empty input short-circuits without querying; lookup errors are logged
// and reported as absent.
func (r *Reconciler) userIDByStripeCustomer(custID string) (int64, bool) {
	if custID == "" {
		return 0, false
	}

	var id int64
	err := notebaseDB.LogAndQueryRow(r.db, "SELECT id FROM users WHERE stripe_customer_id = $1", custID).Scan(&id)
	if err == sql.ErrNoRows {
		log.Printf("[webhook] no user found for customer %s", custID)
		return 0, false
	}
	if err != nil {
		log.Printf("[webhook] customer lookup failed customer=%s err=%v", custID, err)
		return 0, false
	}

	return id, true
}

func customerID(cus *stripe.Customer) string {
	if cus == nil {
		return ""
	}
	return cus.ID
}

func invalidPayload(kind stripe.EventType, err error) models.WebhookResult {
	log.Printf("[webhook] %s payload unmarshal failed: %v", kind, err)
	return models.WebhookResult{Success: false, Message: "invalid event payload"}
}

func success(message string) models.WebhookResult {
	return models.WebhookResult{Success: true, Message: message}
}

func failure(message string, code models.WebhookError) models.WebhookResult {
	return models.WebhookResult{Success: false, Message: message, Error: code}
}
