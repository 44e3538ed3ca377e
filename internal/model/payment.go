package model

import "time"

// Payment status values. A payment starts Pending and moves exactly once to
// Completed or Failed; terminal rows are never transitioned again.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
)

// Payment mirrors the state of a Chapa transaction for one booking. The
// tx_ref is generated locally, is globally unique, and correlates the row
// with the gateway's record. ChapaTransactionID is filled in on successful
// verification.
//
// Fields:
//  ID                 – primary key identifier.
//  BookingID          – booking being paid for.
//  Amount             – charged amount as a decimal string.
//  Email              – customer email sent to the gateway.
//  FirstName          – customer first name sent to the gateway.
//  LastName           – customer last name sent to the gateway.
//  TxRef              – unique local transaction reference.
//  ChapaTransactionID – gateway-side transaction id (nullable).
//  Status             – Pending, Completed or Failed.
//  CreatedAt          – creation timestamp.
type Payment struct {
	ID                 uint64    // payments.id
	BookingID          uint64    // payments.booking_id
	Amount             string    // payments.amount (DECIMAL(10,2))
	Email              string    // payments.email
	FirstName          string    // payments.first_name
	LastName           string    // payments.last_name
	TxRef              string    // payments.tx_ref (unique)
	ChapaTransactionID *string   // payments.chapa_transaction_id (nullable)
	Status             string    // payments.status
	CreatedAt          time.Time // payments.created_at
}

// Terminal reports whether the payment has reached a final status.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed
}
