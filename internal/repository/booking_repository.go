package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/alxtravel/travel-booking-api/internal/model"
)

// BookingRepo provides persistence for bookings. Bookings are written once
// at creation time and only read afterwards; cleanup and reminder scans run
// from the background worker.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is the API representation of a booking, including the title
// of the listing it belongs to. Dates are rendered as YYYY-MM-DD strings.
type BookingDetail struct {
	ID            uint64 `json:"id"`
	Listing       uint64 `json:"listing"`
	ListingTitle  string `json:"listing_title"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	TotalPrice    string `json:"total_price"`
	BookedAt      string `json:"booked_at"`
}

// Create inserts a new booking and populates the generated ID and the
// BookedAt timestamp from the stored row. The caller is responsible for
// having validated that the listing exists; the foreign key is the last
// line of defense.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const qInsert = `INSERT INTO bookings (listing_id, customer_name, customer_email, check_in, check_out, total_price) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		b.ListingID, b.CustomerName, b.CustomerEmail,
		b.CheckIn.Format(model.DateFormat), b.CheckOut.Format(model.DateFormat), b.TotalPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = `SELECT booked_at FROM bookings WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, b.ID).Scan(&b.BookedAt)
}

// GetByID returns a single booking with its listing title. It returns
// ErrBookingNotFound when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*BookingDetail, error) {
	const q = `SELECT b.id, b.listing_id, l.title, b.customer_name, b.customer_email,
	                  b.check_in, b.check_out, b.total_price, b.booked_at
	           FROM bookings b
	           JOIN listings l ON l.id = b.listing_id
	           WHERE b.id = ?`
	det, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return det, nil
}

// List returns all bookings ordered by booking time descending (newest
// first). When no bookings exist an empty slice is returned.
func (r *BookingRepo) List(ctx context.Context) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.listing_id, l.title, b.customer_name, b.customer_email,
	                  b.check_in, b.check_out, b.total_price, b.booked_at
	           FROM bookings b
	           JOIN listings l ON l.id = b.listing_id
	           ORDER BY b.booked_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	for rows.Next() {
		det, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *det)
	}
	return details, rows.Err()
}

// CountOlderThan returns how many bookings were booked before the cutoff.
// The cleanup job is report-only: rows are counted, never deleted.
func (r *BookingRepo) CountOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE booked_at < ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, cutoff.UTC()).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListByCheckIn returns the bookings whose check-in falls on exactly the
// given calendar date. Used by the reminder job with tomorrow's date.
func (r *BookingRepo) ListByCheckIn(ctx context.Context, day time.Time) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.listing_id, l.title, b.customer_name, b.customer_email,
	                  b.check_in, b.check_out, b.total_price, b.booked_at
	           FROM bookings b
	           JOIN listings l ON l.id = b.listing_id
	           WHERE b.check_in = ?`
	rows, err := r.db.QueryContext(ctx, q, day.Format(model.DateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	for rows.Next() {
		det, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *det)
	}
	return details, rows.Err()
}

func scanBooking(s rowScanner) (*BookingDetail, error) {
	var det BookingDetail
	var checkIn, checkOut, bookedAt time.Time
	if err := s.Scan(&det.ID, &det.Listing, &det.ListingTitle, &det.CustomerName, &det.CustomerEmail,
		&checkIn, &checkOut, &det.TotalPrice, &bookedAt); err != nil {
		return nil, err
	}
	det.CheckIn = checkIn.Format(model.DateFormat)
	det.CheckOut = checkOut.Format(model.DateFormat)
	det.BookedAt = bookedAt.UTC().Format(time.RFC3339)
	return &det, nil
}
