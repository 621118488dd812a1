package billing

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	notebaseDB "github.com/notebase/billing-server/db"
	"github.com/notebase/billing-server/models"
)

// A private key for context that only this package can access. This is important
// to prevent collisions between different context uses
var planCtxKey = &contextKey{"plan"}

type contextKey struct {
	name string
}

// PlanGate loads the requesting user's plan into the request context, keyed
// on the trusted X-User-ID header. Requests without the header pass through
// untouched. Free-tier limit enforcement hangs off this hook.
func PlanGate(db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			var plan string
			err := notebaseDB.LogAndQueryRow(db, "SELECT plan FROM users WHERE id = $1", userID).Scan(&plan)
			if err != nil {
				log.Printf("plan lookup failed user=%s err=%v", userID, err)
				next.ServeHTTP(w, r)
				return
			}

			if plan == models.PlanFree {
				// TODO: enforce the free-tier folder quota here once the
				// quota columns land in the users table.
			}

			ctx := context.WithValue(r.Context(), planCtxKey, plan)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PlanFromContext finds the plan from the context. REQUIRES PlanGate to have run.
func PlanFromContext(ctx context.Context) string {
	plan, _ := ctx.Value(planCtxKey).(string)
	return plan
}
