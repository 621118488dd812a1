package billing

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/mailgun/mailgun-go/v3"

	"github.com/notebase/billing-server/config"
	notebaseDB "github.com/notebase/billing-server/db"
)

// Notifier sends billing emails through Mailgun. Everything it does is
// best effort; send failures are logged and dropped.
type Notifier struct {
	db     *sql.DB
	mg     *mailgun.MailgunImpl
	domain string
}

// NewNotifier returns nil when Mailgun is not configured, which disables
// billing email entirely.
func NewNotifier(db *sql.DB, cfg config.MailgunConfig) *Notifier {
	if cfg.Domain == "" || cfg.Key == "" {
		log.Println("Mailgun not configured; billing email disabled")
		return nil
	}

	return &Notifier{
		db:     db,
		mg:     mailgun.NewMailgun(cfg.Domain, cfg.Key),
		domain: cfg.Domain,
	}
}

// PaymentFailed emails the user behind the given Stripe customer about a
// failed renewal charge.
func (n *Notifier) PaymentFailed(ctx context.Context, custID string) {
	var email string
	err := notebaseDB.LogAndQueryRow(n.db, "SELECT email FROM users WHERE stripe_customer_id = $1", custID).Scan(&email)
	if err != nil {
		log.Printf("payment-failed email lookup failed customer=%s err=%v", custID, err)
		return
	}

	sender := "Notebase Billing <billing@" + n.domain + ">"
	subject := "We couldn't process your payment"
	body := `Hi there,

We tried to renew your Notebase Pro subscription but your card was declined.
Please update your payment method from the billing page to keep your Pro
features. We'll retry the charge automatically over the next few days.

Be well,
Team Notebase`

	message := n.mg.NewMessage(sender, subject, body, email)

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if _, _, err := n.mg.Send(ctx, message); err != nil {
		log.Printf("payment-failed email send failed customer=%s err=%v", custID, err)
	}
}
