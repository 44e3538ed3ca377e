package main // API server entry point

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/alxtravel/travel-booking-api/internal/config"
	"github.com/alxtravel/travel-booking-api/internal/database"
	"github.com/alxtravel/travel-booking-api/internal/gateway"
	"github.com/alxtravel/travel-booking-api/internal/handler"
	"github.com/alxtravel/travel-booking-api/internal/middleware"
	"github.com/alxtravel/travel-booking-api/internal/queue"
	"github.com/alxtravel/travel-booking-api/internal/repository"
	"github.com/alxtravel/travel-booking-api/internal/router"
)

func main() {
	_ = godotenv.Load() // pick up a local .env when present
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	cancel()

	listingRepo := repository.NewListingRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	publisher := queue.NewPublisher(cfg.BrokerURL)
	chapa := gateway.NewClient(cfg.ChapaBaseURL, cfg.ChapaSecretKey)

	e := echo.New()
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), config.NewRedisClient(cfg))
	router.RegisterRoutes(e, router.Handlers{
		ServiceName: cfg.ServiceName,
		Listings:    handler.NewListingHandler(listingRepo),
		Bookings:    handler.NewBookingHandler(bookingRepo, listingRepo, publisher),
		Reviews:     handler.NewReviewHandler(reviewRepo, listingRepo),
		Payments:    handler.NewPaymentHandler(paymentRepo, bookingRepo, chapa, cfg.CallbackURL),
	}, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
