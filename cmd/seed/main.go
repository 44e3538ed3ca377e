package main // seeds the database with sample listings, bookings and reviews

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/alxtravel/travel-booking-api/internal/config"
	"github.com/alxtravel/travel-booking-api/internal/database"
	"github.com/alxtravel/travel-booking-api/internal/model"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

type seedListing struct {
	title, description, location string
	pricePerNight                float64
}

var sampleListings = []seedListing{
	{"Beachfront Paradise", "A stunning beachside villa.", "Mombasa", 120.00},
	{"Mountain Retreat", "Peaceful cabin in the hills.", "Nanyuki", 90.00},
	{"City Lights Apartment", "Modern apartment in Nairobi CBD.", "Nairobi", 75.00},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	log.Println("Seeding data...")

	// Clear existing data; listings cascade into bookings and reviews.
	if _, err := db.ExecContext(ctx, `DELETE FROM listings`); err != nil {
		log.Fatalf("clear listings: %v", err)
	}

	listingRepo := repository.NewListingRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	reviewRepo := repository.NewReviewRepo(db)

	for _, s := range sampleListings {
		listing := &model.Listing{
			Title:         s.title,
			Description:   s.description,
			Location:      s.location,
			PricePerNight: strconv.FormatFloat(s.pricePerNight, 'f', 2, 64),
			Available:     true,
		}
		if err := listingRepo.Create(ctx, listing); err != nil {
			log.Fatalf("create listing %q: %v", s.title, err)
		}

		for i := 0; i < 2; i++ {
			checkIn := time.Now().UTC().AddDate(0, 0, 1+rand.Intn(10)).Truncate(24 * time.Hour)
			checkOut := checkIn.AddDate(0, 0, 2+rand.Intn(4))
			nights := int(checkOut.Sub(checkIn).Hours() / 24)
			total := float64(nights) * s.pricePerNight
			booking := &model.Booking{
				ListingID:     listing.ID,
				CustomerName:  fmt.Sprintf("Customer %d", i+1),
				CustomerEmail: fmt.Sprintf("customer%d@example.com", i+1),
				CheckIn:       checkIn,
				CheckOut:      checkOut,
				TotalPrice:    strconv.FormatFloat(total, 'f', 2, 64),
			}
			if err := bookingRepo.Create(ctx, booking); err != nil {
				log.Fatalf("create booking for %q: %v", s.title, err)
			}
		}

		for j := 0; j < 3; j++ {
			comment := fmt.Sprintf("This is review %d for %s.", j+1, s.title)
			review := &model.Review{
				ListingID:    listing.ID,
				ReviewerName: fmt.Sprintf("Reviewer %d", j+1),
				Rating:       uint32(3 + rand.Intn(3)),
				Comment:      &comment,
			}
			if err := reviewRepo.Create(ctx, review); err != nil {
				log.Fatalf("create review for %q: %v", s.title, err)
			}
		}
	}

	log.Println("Database seeded successfully!")
}
