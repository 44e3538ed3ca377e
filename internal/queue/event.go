// Package queue defines the job payloads exchanged over the message broker
// and the worker that executes them.
package queue

// Queue names. Both queues are declared durable and carry persistent
// messages so jobs survive broker restarts.
const (
	// BookingConfirmationQueue carries confirmation-email jobs published by
	// the booking API after a successful create.
	BookingConfirmationQueue = "booking.confirmation_email"
	// PaymentCallbackQueue carries gateway callback notifications that
	// reconcile payment status out of band.
	PaymentCallbackQueue = "payment.callback"
)

// retryCountHeader tracks how many times a job has been retried. It rides
// the AMQP message headers so the count survives republishing.
const retryCountHeader = "x-retry-count"

// BookingConfirmationJob asks the worker to send a booking confirmation
// email. It carries everything needed to compose the message so the worker
// does not have to query the primary database. Dates are preformatted
// YYYY-MM-DD strings.
type BookingConfirmationJob struct {
	BookingID     uint64 `json:"booking_id"`
	CustomerEmail string `json:"email"`
	CustomerName  string `json:"name"`
	ListingTitle  string `json:"listing_title"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
}

// PaymentCallbackJob asks the worker to reconcile a payment row with a
// status reported by the gateway ("success" completes the payment, anything
// else fails it).
type PaymentCallbackJob struct {
	PaymentID uint64 `json:"payment_id"`
	Status    string `json:"status"`
}
