package models

// Request and response bodies for the billing endpoints. The userId in
// every request is trusted; authentication happens upstream.

type CheckoutRequest struct {
	UserID   int64  `json:"userId"`
	PlanType string `json:"planType"` // "monthly" or "yearly"
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PaymentIntentRequest struct {
	UserID int64 `json:"userId"`
	Amount int64 `json:"amount"` // cents
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type CancelRequest struct {
	UserID int64 `json:"userId"`
}

type CancelResponse struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	CancelAt           int64  `json:"cancelAt"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

type WebhookAck struct {
	Received bool `json:"received"`
	Success  bool `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
