package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alxtravel/travel-booking-api/internal/model"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

// ListingHandler exposes CRUD endpoints for property listings. Listings are
// returned with their bookings and reviews embedded.
type ListingHandler struct {
	Listings *repository.ListingRepo
}

// NewListingHandler constructs a ListingHandler.
func NewListingHandler(listings *repository.ListingRepo) *ListingHandler {
	if listings == nil {
		panic("nil repository passed to NewListingHandler")
	}
	return &ListingHandler{Listings: listings}
}

// listingRequest is the JSON body for create and update.
type listingRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	PricePerNight decimal `json:"price_per_night"`
	Available     *bool   `json:"available"`
}

// validate trims and checks required fields, returning a user-facing error
// message or "".
func (b *listingRequest) validate() string {
	b.Title = strings.TrimSpace(b.Title)
	b.Location = strings.TrimSpace(b.Location)
	if b.Title == "" {
		return "title is required"
	}
	if b.Location == "" {
		return "location is required"
	}
	if b.PricePerNight == "" {
		return "price_per_night is required"
	}
	if b.PricePerNight.Float() < 0 {
		return "price_per_night must not be negative"
	}
	return ""
}

// Create handles POST /api/listings/.
func (h *ListingHandler) Create(c echo.Context) error {
	var body listingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	available := true
	if body.Available != nil {
		available = *body.Available
	}
	listing := &model.Listing{
		Title:         body.Title,
		Description:   body.Description,
		Location:      body.Location,
		PricePerNight: string(body.PricePerNight),
		Available:     available,
	}
	if err := h.Listings.Create(c.Request().Context(), listing); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create listing"})
	}
	det, err := h.Listings.GetByID(c.Request().Context(), listing.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, det)
}

// List handles GET /api/listings/. Listings are ordered by creation time
// descending.
func (h *ListingHandler) List(c echo.Context) error {
	items, err := h.Listings.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/listings/:id/.
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	det, err := h.Listings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, det)
}

// Update handles PUT /api/listings/:id/.
func (h *ListingHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body listingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	available := true
	if body.Available != nil {
		available = *body.Available
	}
	listing := &model.Listing{
		ID:            id,
		Title:         body.Title,
		Description:   body.Description,
		Location:      body.Location,
		PricePerNight: string(body.PricePerNight),
		Available:     available,
	}
	if err := h.Listings.Update(c.Request().Context(), listing); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	det, err := h.Listings.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, det)
}

// Delete handles DELETE /api/listings/:id/. Bookings and reviews of the
// listing cascade in the database.
func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Listings.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
