package models

import "database/sql"

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// User carries the billing columns of the users table. The rest of the
// account schema (password, role, verification) is owned by the signup
// service and never touched here.
type User struct {
	ID                 int64          `json:"id"`
	Email              string         `json:"email"`
	Plan               string         `json:"plan"`
	StripeCustomerID   sql.NullString `json:"stripeCustomerId"`
	SubscriptionID     sql.NullString `json:"subscriptionId"`
	SubscriptionStatus sql.NullString `json:"subscriptionStatus"`
	LastPaymentStatus  sql.NullString `json:"lastPaymentStatus"`
	CanceledAt         sql.NullTime   `json:"canceledAt"`
}
