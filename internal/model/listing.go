package model

import "time"

// Listing represents a property that customers can book for a stay.
// Prices are carried as decimal strings (e.g. "120.00") so that no
// precision is lost between the database and the JSON layer.
//
// Fields:
//  ID            – primary key identifier.
//  Title         – short display name of the property.
//  Description   – free-form description.
//  Location      – city or area of the property.
//  PricePerNight – nightly price as a decimal string, never negative.
//  Available     – whether the listing can currently be booked.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Listing struct {
	ID            uint64    // listings.id
	Title         string    // listings.title
	Description   string    // listings.description
	Location      string    // listings.location
	PricePerNight string    // listings.price_per_night (DECIMAL(10,2))
	Available     bool      // listings.available
	CreatedAt     time.Time // listings.created_at
	UpdatedAt     time.Time // listings.updated_at
}
