package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/alxtravel/travel-booking-api/internal/model"
)

// ListingRepo encapsulates all database queries related to listings. It
// depends on a sql.DB connection which is configured at startup.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo constructs a ListingRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span repositories.
func (r *ListingRepo) DB() *sql.DB { return r.db }

// ListingDetail is the API representation of a listing. It embeds the
// bookings and reviews of the listing the way the public API exposes them.
type ListingDetail struct {
	ID            uint64          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	PricePerNight string          `json:"price_per_night"`
	Available     bool            `json:"available"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
	Bookings      []BookingDetail `json:"bookings"`
	Reviews       []ReviewDetail  `json:"reviews"`
}

// Create inserts a new listing. On success the listing's ID, CreatedAt and
// UpdatedAt fields are populated from the stored row.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	const qInsert = `INSERT INTO listings (title, description, location, price_per_night, available) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, l.Title, l.Description, l.Location, l.PricePerNight, l.Available)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)

	// Query back the stored row to populate default timestamp fields.
	const qSelect = `SELECT title, description, location, price_per_night, available, created_at, updated_at FROM listings WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, l.ID).Scan(
		&l.Title, &l.Description, &l.Location, &l.PricePerNight, &l.Available, &l.CreatedAt, &l.UpdatedAt,
	)
}

// GetByID loads a single listing with its bookings and reviews. It returns
// ErrListingNotFound when no row exists.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (*ListingDetail, error) {
	const q = `SELECT id, title, description, location, price_per_night, available, created_at, updated_at
	           FROM listings WHERE id = ?`
	det, err := scanListing(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if err := r.attachChildren(ctx, []*ListingDetail{det}); err != nil {
		return nil, err
	}
	return det, nil
}

// List returns all listings ordered by creation time descending (newest
// first), each with its bookings and reviews attached. When no listings
// exist an empty slice is returned.
func (r *ListingRepo) List(ctx context.Context) ([]*ListingDetail, error) {
	const q = `SELECT id, title, description, location, price_per_night, available, created_at, updated_at
	           FROM listings ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*ListingDetail, 0)
	for rows.Next() {
		det, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

// Update rewrites the mutable fields of a listing. It returns
// ErrListingNotFound when the listing does not exist.
func (r *ListingRepo) Update(ctx context.Context, l *model.Listing) error {
	const q = `UPDATE listings SET title = ?, description = ?, location = ?, price_per_night = ?, available = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, l.Title, l.Description, l.Location, l.PricePerNight, l.Available, l.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The UPDATE also reports zero rows when the values are unchanged,
		// so confirm the row is really absent before reporting not-found.
		if ok, err := r.Exists(ctx, l.ID); err != nil {
			return err
		} else if !ok {
			return ErrListingNotFound
		}
	}
	const qSelect = `SELECT created_at, updated_at FROM listings WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, l.ID).Scan(&l.CreatedAt, &l.UpdatedAt)
}

// Delete removes a listing; bookings and reviews cascade in the database.
// It returns ErrListingNotFound when no row was deleted.
func (r *ListingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrListingNotFound
	}
	return nil
}

// Title returns the title of a listing, or ErrListingNotFound. The booking
// flow uses it both as the foreign-key existence check and for the
// confirmation email.
func (r *ListingRepo) Title(ctx context.Context, id uint64) (string, error) {
	var title string
	err := r.db.QueryRowContext(ctx, `SELECT title FROM listings WHERE id = ?`, id).Scan(&title)
	if err == sql.ErrNoRows {
		return "", ErrListingNotFound
	}
	if err != nil {
		return "", err
	}
	return title, nil
}

// Exists reports whether a listing with the given ID is present.
func (r *ListingRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM listings WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanListing(s rowScanner) (*ListingDetail, error) {
	var det ListingDetail
	var createdAt, updatedAt time.Time
	if err := s.Scan(&det.ID, &det.Title, &det.Description, &det.Location,
		&det.PricePerNight, &det.Available, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	det.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	det.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	det.Bookings = []BookingDetail{}
	det.Reviews = []ReviewDetail{}
	return &det, nil
}

// attachChildren populates the Bookings and Reviews collections for all the
// given listings using one IN query per child table.
func (r *ListingRepo) attachChildren(ctx context.Context, details []*ListingDetail) error {
	if len(details) == 0 {
		return nil
	}
	ids := make([]any, 0, len(details))
	placeholders := make([]string, 0, len(details))
	index := make(map[uint64]*ListingDetail, len(details))
	titles := make(map[uint64]string, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
		index[d.ID] = d
		titles[d.ID] = d.Title
	}
	in := strings.Join(placeholders, ",")

	bookingQ := `SELECT id, listing_id, customer_name, customer_email, check_in, check_out, total_price, booked_at
	             FROM bookings WHERE listing_id IN (` + in + `) ORDER BY booked_at DESC`
	rows, err := r.db.QueryContext(ctx, bookingQ, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var b BookingDetail
		var checkIn, checkOut, bookedAt time.Time
		if err := rows.Scan(&b.ID, &b.Listing, &b.CustomerName, &b.CustomerEmail,
			&checkIn, &checkOut, &b.TotalPrice, &bookedAt); err != nil {
			return err
		}
		b.CheckIn = checkIn.Format(model.DateFormat)
		b.CheckOut = checkOut.Format(model.DateFormat)
		b.BookedAt = bookedAt.UTC().Format(time.RFC3339)
		if d, ok := index[b.Listing]; ok {
			b.ListingTitle = titles[b.Listing]
			d.Bookings = append(d.Bookings, b)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	reviewQ := `SELECT id, listing_id, reviewer_name, rating, comment, created_at
	            FROM reviews WHERE listing_id IN (` + in + `) ORDER BY created_at DESC`
	rrows, err := r.db.QueryContext(ctx, reviewQ, ids...)
	if err != nil {
		return err
	}
	defer rrows.Close()
	for rrows.Next() {
		var rv ReviewDetail
		var listingID uint64
		var comment sql.NullString
		var createdAt time.Time
		if err := rrows.Scan(&rv.ID, &listingID, &rv.ReviewerName, &rv.Rating, &comment, &createdAt); err != nil {
			return err
		}
		if comment.Valid {
			c := comment.String
			rv.Comment = &c
		}
		rv.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		if d, ok := index[listingID]; ok {
			d.Reviews = append(d.Reviews, rv)
		}
	}
	return rrows.Err()
}
