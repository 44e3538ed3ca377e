package model

import "time"

// Review is a customer rating of a listing. Ratings are integers between 1
// and 5 inclusive; the range is enforced both in the handler and by a
// database CHECK constraint. Reviews cascade when their listing is deleted.
type Review struct {
	ID           uint64    // reviews.id
	ListingID    uint64    // reviews.listing_id
	ReviewerName string    // reviews.reviewer_name
	Rating       uint32    // reviews.rating (1..5)
	Comment      *string   // reviews.comment (nullable)
	CreatedAt    time.Time // reviews.created_at
}
