package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/alxtravel/travel-booking-api/internal/model"
)

// ReviewRepo provides persistence for listing reviews.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewDetail is the API representation of a review.
type ReviewDetail struct {
	ID           uint64  `json:"id"`
	ReviewerName string  `json:"reviewer_name"`
	Rating       uint32  `json:"rating"`
	Comment      *string `json:"comment"`
	CreatedAt    string  `json:"created_at"`
}

// Create inserts a new review. A rating outside 1..5 trips the database
// CHECK constraint and is reported as ErrRatingOutOfRange, matching the
// handler-side validation. On success the ID and CreatedAt fields are
// populated from the stored row.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	const qInsert = `INSERT INTO reviews (listing_id, reviewer_name, rating, comment) VALUES (?, ?, ?, ?)`
	var comment any
	if rv.Comment != nil {
		comment = *rv.Comment
	}
	res, err := r.db.ExecContext(ctx, qInsert, rv.ListingID, rv.ReviewerName, rv.Rating, comment)
	if err != nil {
		if isMySQLErr(err, mysqlErrCheckViolated) {
			return ErrRatingOutOfRange
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)

	const qSelect = `SELECT created_at FROM reviews WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, rv.ID).Scan(&rv.CreatedAt)
}

// ListByListing returns all reviews of a listing ordered by creation time
// descending. When none exist an empty slice is returned.
func (r *ReviewRepo) ListByListing(ctx context.Context, listingID uint64) ([]ReviewDetail, error) {
	const q = `SELECT id, reviewer_name, rating, comment, created_at
	           FROM reviews WHERE listing_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReviewDetail, 0)
	for rows.Next() {
		var det ReviewDetail
		var comment sql.NullString
		var createdAt time.Time
		if err := rows.Scan(&det.ID, &det.ReviewerName, &det.Rating, &comment, &createdAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			c := comment.String
			det.Comment = &c
		}
		det.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		details = append(details, det)
	}
	return details, rows.Err()
}
