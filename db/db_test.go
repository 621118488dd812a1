package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/notebase/billing-server/models"
)

func TestLogAndQueryRowShouldReturnResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(
		[]string{"id", "email", "plan", "stripe_customer_id", "subscription_id", "subscription_status", "last_payment_status", "canceled_at"},
	).AddRow(1, "testing@notebase.app", "pro", "cus_GIHI1V0ryeznB2", "sub_GIHImr4be4B275", "active", "succeeded", nil)

	mock.ExpectQuery("SELECT id, email, plan, stripe_customer_id, subscription_id, subscription_status, last_payment_status, canceled_at FROM users").WillReturnRows(rows)

	res := LogAndQueryRow(db, "SELECT id, email, plan, stripe_customer_id, subscription_id, subscription_status, last_payment_status, canceled_at FROM users")

	var user models.User
	err = res.Scan(&user.ID, &user.Email, &user.Plan, &user.StripeCustomerID, &user.SubscriptionID, &user.SubscriptionStatus, &user.LastPaymentStatus, &user.CanceledAt)

	assert.Nil(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "pro", user.Plan)
	assert.Equal(t, "cus_GIHI1V0ryeznB2", user.StripeCustomerID.String)
	assert.False(t, user.CanceledAt.Valid)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestLogAndExecShouldReturnResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET plan \\= \\$1 WHERE id \\= \\$2").
		WithArgs("pro", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := LogAndExec(db, "UPDATE users SET plan = $1 WHERE id = $2", "pro", int64(1))

	assert.Nil(t, err)
	affected, _ := res.RowsAffected()
	assert.Equal(t, int64(1), affected)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
