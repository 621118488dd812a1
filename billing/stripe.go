package billing

import (
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/subscription"
)

// StripeClient is the slice of the Stripe API the billing endpoints use.
// Handlers receive it as an explicit dependency so tests can substitute
// a fake instead of hitting the network.
type StripeClient interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	NewPaymentIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
}

type liveStripe struct{}

// NewStripeClient sets the global Stripe API key and returns the live client.
func NewStripeClient(apiKey string) StripeClient {
	stripe.Key = apiKey
	return liveStripe{}
}

func (liveStripe) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

func (liveStripe) NewPaymentIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.New(params)
}

func (liveStripe) UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return subscription.Update(id, params)
}
