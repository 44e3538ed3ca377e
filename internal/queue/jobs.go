package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alxtravel/travel-booking-api/internal/mailer"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

// Retry policy for confirmation emails: the first delivery attempt plus up
// to maxEmailRetries retries, delayed 60s, 120s, 240s. A job that exhausts
// its retries is abandoned.
const maxEmailRetries = 3

// maxCallbackRetries bounds retries of payment-callback jobs (flat 60s delay).
const maxCallbackRetries = 2

// retryDelay returns the backoff before retry number `retries` (0-based):
// 60s, 120s, 240s.
func retryDelay(retries int) time.Duration {
	return (60 * time.Second) << retries
}

// confirmationEmail composes the booking confirmation message.
func confirmationEmail(job BookingConfirmationJob) (subject, body string) {
	subject = fmt.Sprintf("Booking Confirmation for %s", job.ListingTitle)
	body = fmt.Sprintf(
		"Hello %s,\n\nYour booking for %s from %s to %s has been confirmed.\n\nThank you for booking with us!",
		job.CustomerName, job.ListingTitle, job.CheckIn, job.CheckOut,
	)
	return subject, body
}

// reminderEmail composes the day-before-check-in reminder message.
func reminderEmail(b repository.BookingDetail) (subject, body string) {
	subject = fmt.Sprintf("Reminder: Your booking for %s is tomorrow!", b.ListingTitle)
	body = fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder that your booking for %s starts tomorrow (%s).\n\n"+
			"Check-in time: 3:00 PM\nPlease ensure you have all necessary documents ready.\n\nThank you!",
		b.CustomerName, b.ListingTitle, b.CheckIn,
	)
	return subject, body
}

// CleanupOldBookings counts bookings booked more than a year before now and
// reports the count. Rows are not deleted; this job only surfaces how much
// history has accumulated.
func CleanupOldBookings(ctx context.Context, bookings *repository.BookingRepo, now time.Time) (int, error) {
	cutoff := now.Add(-365 * 24 * time.Hour)
	n, err := bookings.CountOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Printf("cleanup: found %d bookings older than 1 year", n)
	return n, nil
}

// SendBookingReminders emails every customer whose check-in is tomorrow
// (calendar date equality in UTC, not a 24-hour window). Individual send
// failures are logged and skipped; the returned count is the number of
// reminders actually delivered.
func SendBookingReminders(ctx context.Context, bookings *repository.BookingRepo, m mailer.Mailer, now time.Time) (int, error) {
	tomorrow := now.UTC().AddDate(0, 0, 1)
	upcoming, err := bookings.ListByCheckIn(ctx, tomorrow)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, b := range upcoming {
		subject, body := reminderEmail(b)
		if err := m.Send(b.CustomerEmail, subject, body); err != nil {
			log.Printf("reminders: failed to send reminder for booking %d: %v", b.ID, err)
			continue
		}
		count++
	}
	log.Printf("reminders: sent %d booking reminders", count)
	return count, nil
}
