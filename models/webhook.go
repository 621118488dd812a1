package models

// WebhookError identifies why a webhook event could not be applied.
type WebhookError string

const (
	ErrMissingEmail             WebhookError = "MISSING_EMAIL"
	ErrMissingUserID            WebhookError = "MISSING_USER_ID"
	ErrUserNotFound             WebhookError = "USER_NOT_FOUND"
	ErrDatabase                 WebhookError = "DATABASE_ERROR"
	ErrSubscription             WebhookError = "SUBSCRIPTION_ERROR"
	ErrSubscriptionUpdate       WebhookError = "SUBSCRIPTION_UPDATE_ERROR"
	ErrCancellation             WebhookError = "CANCELLATION_ERROR"
	ErrPayment                  WebhookError = "PAYMENT_ERROR"
	ErrPaymentSuccessUpdate     WebhookError = "PAYMENT_SUCCESS_ERROR"
	ErrPaymentCancellationWrite WebhookError = "PAYMENT_CANCELLATION_ERROR"
)

// WebhookResult is the structured outcome of reconciling one event.
// Reconcile never returns a Go error; everything a caller needs to know
// lives here so the intake can always acknowledge receipt.
type WebhookResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   WebhookError `json:"error,omitempty"`
}
