package main // background worker entry point: queue consumer + periodic jobs

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/alxtravel/travel-booking-api/internal/config"
	"github.com/alxtravel/travel-booking-api/internal/database"
	"github.com/alxtravel/travel-booking-api/internal/mailer"
	"github.com/alxtravel/travel-booking-api/internal/queue"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	m := mailer.FromConfig(cfg)
	bookingRepo := repository.NewBookingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	// Periodic jobs: cleanup report daily at 02:00 UTC, reminders hourly.
	sched := queue.NewScheduler(bookingRepo, m)
	sched.Start()
	defer sched.Stop()

	log.Printf("worker started (env=%s)", cfg.Env)

	// Blocks forever, reconnecting to the broker as needed.
	if err := queue.NewConsumer(cfg.BrokerURL, m, paymentRepo).Start(); err != nil {
		log.Fatalf("consumer: %v", err)
	}
}
