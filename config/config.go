package config

import (
	"fmt"
	"os"
)

// Config is the environment-backed configuration for the billing server.
type Config struct {
	Env  string // "production" selects the prod base URL and CORS origin
	Port string

	Stripe  StripeConfig
	Mailgun MailgunConfig

	BaseURL     string
	BaseURLProd string
}

type StripeConfig struct {
	Key            string
	WebhookSecret  string
	MonthlyPriceID string
	YearlyPriceID  string
}

type MailgunConfig struct {
	Domain string
	Key    string
}

const defaultPort = "8080"

// Load reads the configuration from the environment. Callers are expected
// to have loaded .env already (main does this via godotenv).
func Load() (*Config, error) {
	cfg := &Config{
		Env:  os.Getenv("APP_ENV"),
		Port: os.Getenv("PORT"),
		Stripe: StripeConfig{
			Key:            os.Getenv("STRIPE_KEY"),
			WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
			MonthlyPriceID: os.Getenv("STRIPE_MONTHLY_PRICE_ID"),
			YearlyPriceID:  os.Getenv("STRIPE_YEARLY_PRICE_ID"),
		},
		Mailgun: MailgunConfig{
			Domain: os.Getenv("MAILGUN_DOMAIN"),
			Key:    os.Getenv("MAILGUN_KEY"),
		},
		BaseURL:     os.Getenv("BASE_URL"),
		BaseURLProd: os.Getenv("BASE_URL_PROD"),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	for _, required := range []struct{ key, value string }{
		{"STRIPE_KEY", cfg.Stripe.Key},
		{"STRIPE_WEBHOOK_SECRET", cfg.Stripe.WebhookSecret},
		{"STRIPE_MONTHLY_PRICE_ID", cfg.Stripe.MonthlyPriceID},
		{"STRIPE_YEARLY_PRICE_ID", cfg.Stripe.YearlyPriceID},
	} {
		if required.value == "" {
			return nil, fmt.Errorf("%s environment variable not set", required.key)
		}
	}

	return cfg, nil
}

// IsProd reports whether the server runs against the production frontend.
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// FrontendURL is the base URL checkout redirects and CORS are keyed on.
func (c *Config) FrontendURL() string {
	if c.IsProd() {
		return c.BaseURLProd
	}
	return c.BaseURL
}
