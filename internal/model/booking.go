package model

import "time"

// Booking records a customer's reservation of a listing for a date range.
// A booking is immutable after creation and is removed when its listing is
// deleted (database cascade).
//
// Fields:
//  ID            – primary key identifier.
//  ListingID     – listing being booked.
//  CustomerName  – name supplied by the customer.
//  CustomerEmail – address the confirmation email is sent to.
//  CheckIn       – first night of the stay (date only).
//  CheckOut      – departure date (date only).
//  TotalPrice    – total for the stay as a decimal string. The value is
//                  taken from the request as-is; it is not recomputed from
//                  nights × price_per_night.
//  BookedAt      – creation timestamp.
type Booking struct {
	ID            uint64    // bookings.id
	ListingID     uint64    // bookings.listing_id
	CustomerName  string    // bookings.customer_name
	CustomerEmail string    // bookings.customer_email
	CheckIn       time.Time // bookings.check_in (DATE)
	CheckOut      time.Time // bookings.check_out (DATE)
	TotalPrice    string    // bookings.total_price (DECIMAL(10,2))
	BookedAt      time.Time // bookings.booked_at
}

// DateFormat is how check-in/check-out dates appear in request payloads,
// responses and email bodies.
const DateFormat = "2006-01-02"
