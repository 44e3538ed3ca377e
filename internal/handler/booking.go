package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alxtravel/travel-booking-api/internal/model"
	"github.com/alxtravel/travel-booking-api/internal/queue"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

// ConfirmationPublisher enqueues the confirmation-email job after a booking
// is created. The concrete implementation is the RabbitMQ publisher; tests
// substitute a recording fake.
type ConfirmationPublisher interface {
	PublishBookingConfirmation(ctx context.Context, job queue.BookingConfirmationJob) error
}

// BookingHandler exposes the booking endpoints. Creating a booking persists
// the row first and then enqueues the confirmation email; the enqueue is
// best-effort and never fails the request.
type BookingHandler struct {
	Bookings  *repository.BookingRepo
	Listings  *repository.ListingRepo
	Publisher ConfirmationPublisher
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *repository.BookingRepo, listings *repository.ListingRepo, pub ConfirmationPublisher) *BookingHandler {
	if bookings == nil || listings == nil || pub == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Listings: listings, Publisher: pub}
}

// Create handles POST /api/bookings/. The body must reference an existing
// listing and carry well-formed fields; check_out > check_in and the
// total_price arithmetic are intentionally NOT checked, matching the
// documented behavior of the system.
func (h *BookingHandler) Create(c echo.Context) error {
	var body struct {
		Listing       uint64  `json:"listing"`
		CustomerName  string  `json:"customer_name"`
		CustomerEmail string  `json:"customer_email"`
		CheckIn       string  `json:"check_in"`
		CheckOut      string  `json:"check_out"`
		TotalPrice    decimal `json:"total_price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.CustomerName = strings.TrimSpace(body.CustomerName)
	if body.Listing == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing is required"})
	}
	if body.CustomerName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name is required"})
	}
	if !validEmail(body.CustomerEmail) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_email is not a valid email address"})
	}
	checkIn, err := time.Parse(model.DateFormat, body.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be a YYYY-MM-DD date"})
	}
	checkOut, err := time.Parse(model.DateFormat, body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be a YYYY-MM-DD date"})
	}
	if body.TotalPrice == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_price is required"})
	}

	ctx := c.Request().Context()
	title, err := h.Listings.Title(ctx, body.Listing)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	booking := &model.Booking{
		ListingID:     body.Listing,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		TotalPrice:    string(body.TotalPrice),
	}
	if err := h.Bookings.Create(ctx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}

	job := queue.BookingConfirmationJob{
		BookingID:     booking.ID,
		CustomerEmail: booking.CustomerEmail,
		CustomerName:  booking.CustomerName,
		ListingTitle:  title,
		CheckIn:       checkIn.Format(model.DateFormat),
		CheckOut:      checkOut.Format(model.DateFormat),
	}
	if err := h.Publisher.PublishBookingConfirmation(ctx, job); err != nil {
		// The booking row is already committed. Notification is best-effort:
		// a broken queue must not fail the create, so the error is dropped
		// here after logging.
		log.Printf("booking %d created but confirmation enqueue failed: %v", booking.ID, err)
	}

	return c.JSON(http.StatusCreated, repository.BookingDetail{
		ID:            booking.ID,
		Listing:       booking.ListingID,
		ListingTitle:  title,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CheckIn:       checkIn.Format(model.DateFormat),
		CheckOut:      checkOut.Format(model.DateFormat),
		TotalPrice:    booking.TotalPrice,
		BookedAt:      booking.BookedAt.UTC().Format(time.RFC3339),
	})
}

// List handles GET /api/bookings/. Bookings are ordered by booking time
// descending.
func (h *BookingHandler) List(c echo.Context) error {
	items, err := h.Bookings.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/bookings/:id/.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	det, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, det)
}
