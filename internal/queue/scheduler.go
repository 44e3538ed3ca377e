package queue

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alxtravel/travel-booking-api/internal/mailer"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

// NewScheduler wires the periodic jobs onto a UTC cron:
//   - cleanup_old_bookings  daily at 02:00
//   - send_booking_reminders hourly at :00
//
// The caller starts and stops the returned cron.
func NewScheduler(bookings *repository.BookingRepo, m mailer.Mailer) *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc("0 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := CleanupOldBookings(ctx, bookings, time.Now()); err != nil {
			log.Printf("cleanup: %v", err)
		}
	}); err != nil {
		log.Fatalf("scheduler: register cleanup job: %v", err)
	}

	if _, err := c.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := SendBookingReminders(ctx, bookings, m, time.Now()); err != nil {
			log.Printf("reminders: %v", err)
		}
	}); err != nil {
		log.Fatalf("scheduler: register reminder job: %v", err)
	}

	return c
}
