package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/notebase/billing-server/billing"
	"github.com/notebase/billing-server/config"
	notebaseDB "github.com/notebase/billing-server/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("File .env not found!")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := notebaseDB.Open()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	client := billing.NewStripeClient(cfg.Stripe.Key)
	notifier := billing.NewNotifier(db, cfg.Mailgun)
	handler := billing.NewHandler(db, cfg, client, notifier)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL()},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept"},
		AllowCredentials: true,
	}))

	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		// The webhook verifies its own signature against the raw body and
		// must stay outside any body-touching middleware.
		r.Post("/webhook", handler.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(billing.PlanGate(db))
			r.Post("/create-checkout-session", handler.CreateCheckoutSession)
			r.Post("/create-payment-intent", handler.CreatePaymentIntent)
			r.Post("/cancel-subscription", handler.CancelSubscription)
		})
	})

	log.Printf("billing server listening on http://localhost:%s/api", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
