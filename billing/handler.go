package billing

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/notebase/billing-server/config"
	"github.com/notebase/billing-server/models"
)

// Handler owns the billing HTTP endpoints. The database handle, Stripe
// client and notifier are injected once at startup.
type Handler struct {
	db         *sql.DB
	cfg        *config.Config
	stripe     StripeClient
	reconciler *Reconciler
	notifier   *Notifier
	now        func() time.Time
}

func NewHandler(db *sql.DB, cfg *config.Config, client StripeClient, notifier *Notifier) *Handler {
	return &Handler{
		db:         db,
		cfg:        cfg,
		stripe:     client,
		reconciler: NewReconciler(db),
		notifier:   notifier,
		now:        time.Now,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("response encode failed: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}
