package queue

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/alxtravel/travel-booking-api/internal/repository"
)

func TestDeliveryRetries(t *testing.T) {
	cases := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{"no header", nil, 0},
		{"int32 header", amqp.Table{retryCountHeader: int32(2)}, 2},
		{"int64 header", amqp.Table{retryCountHeader: int64(3)}, 3},
		{"unexpected type", amqp.Table{retryCountHeader: "2"}, 0},
	}
	for _, tc := range cases {
		d := amqp.Delivery{Headers: tc.headers}
		if got := deliveryRetries(d); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func paymentCols() []string {
	return []string{"id", "booking_id", "amount", "email", "first_name", "last_name", "tx_ref", "chapa_transaction_id", "status", "created_at"}
}

func TestProcessPaymentCallback_SuccessCompletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE id = ?").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(paymentCols()).AddRow(
			uint64(11), uint64(4), "100.50", "jane@example.com", "Jane Doe", "Customer",
			"tx-abc", nil, "Pending", time.Now().UTC(),
		))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("Completed", nil, "tx-abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &Consumer{payments: repository.NewPaymentRepo(db)}
	if err := c.processPaymentCallback(context.Background(), PaymentCallbackJob{PaymentID: 11, Status: "success"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessPaymentCallback_NonSuccessFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE id = ?").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(paymentCols()).AddRow(
			uint64(11), uint64(4), "100.50", "jane@example.com", "Jane Doe", "Customer",
			"tx-abc", nil, "Pending", time.Now().UTC(),
		))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("Failed", nil, "tx-abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &Consumer{payments: repository.NewPaymentRepo(db)}
	if err := c.processPaymentCallback(context.Background(), PaymentCallbackJob{PaymentID: 11, Status: "cancelled"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessPaymentCallback_TerminalIgnored(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE id = ?").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(paymentCols()).AddRow(
			uint64(11), uint64(4), "100.50", "jane@example.com", "Jane Doe", "Customer",
			"tx-abc", "X", "Completed", time.Now().UTC(),
		))

	c := &Consumer{payments: repository.NewPaymentRepo(db)}
	if err := c.processPaymentCallback(context.Background(), PaymentCallbackJob{PaymentID: 11, Status: "failed"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// A replayed callback must not flip a decided payment.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}
