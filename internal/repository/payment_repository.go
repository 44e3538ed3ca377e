package repository

import (
	"context"
	"database/sql"

	"github.com/alxtravel/travel-booking-api/internal/model"
)

// PaymentRepo provides persistence for payment records. Rows are created at
// initialize time with status Pending and mutated exactly once by verify or
// the callback job; they are never deleted.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a new payment row. A tx_ref collision is reported as
// ErrDuplicateTxRef. On success the ID and CreatedAt fields are populated
// from the stored row.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const qInsert = `INSERT INTO payments (booking_id, amount, email, first_name, last_name, tx_ref, status) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.BookingID, p.Amount, p.Email, p.FirstName, p.LastName, p.TxRef, p.Status)
	if err != nil {
		if isMySQLErr(err, mysqlErrDuplicateEntry) {
			return ErrDuplicateTxRef
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = `SELECT created_at FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt)
}

// GetByTxRef loads a payment by its unique transaction reference. It
// returns ErrPaymentNotFound when no row exists.
func (r *PaymentRepo) GetByTxRef(ctx context.Context, txRef string) (*model.Payment, error) {
	const q = `SELECT id, booking_id, amount, email, first_name, last_name, tx_ref, chapa_transaction_id, status, created_at
	           FROM payments WHERE tx_ref = ?`
	return r.getOne(ctx, q, txRef)
}

// GetByID loads a payment by primary key. It returns ErrPaymentNotFound
// when no row exists.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, amount, email, first_name, last_name, tx_ref, chapa_transaction_id, status, created_at
	           FROM payments WHERE id = ?`
	return r.getOne(ctx, q, id)
}

func (r *PaymentRepo) getOne(ctx context.Context, q string, arg any) (*model.Payment, error) {
	var p model.Payment
	var chapaID sql.NullString
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&p.ID, &p.BookingID, &p.Amount, &p.Email, &p.FirstName, &p.LastName,
		&p.TxRef, &chapaID, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if chapaID.Valid {
		cid := chapaID.String
		p.ChapaTransactionID = &cid
	}
	return &p, nil
}

// UpdateStatus records the outcome of a verify or callback for the payment
// identified by tx_ref. chapaTxID may be nil when the gateway did not
// return a transaction id (failed or malformed responses).
func (r *PaymentRepo) UpdateStatus(ctx context.Context, txRef, status string, chapaTxID *string) error {
	const q = `UPDATE payments SET status = ?, chapa_transaction_id = ? WHERE tx_ref = ?`
	var cid any
	if chapaTxID != nil {
		cid = *chapaTxID
	}
	res, err := r.db.ExecContext(ctx, q, status, cid, txRef)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
