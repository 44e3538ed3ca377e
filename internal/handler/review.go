package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alxtravel/travel-booking-api/internal/model"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

// ReviewHandler exposes review endpoints nested under a listing.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Listings *repository.ListingRepo
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(reviews *repository.ReviewRepo, listings *repository.ListingRepo) *ReviewHandler {
	if reviews == nil || listings == nil {
		panic("nil dependency passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Listings: listings}
}

// Create handles POST /api/listings/:id/reviews/. The rating must be an
// integer between 1 and 5; the database CHECK constraint backs up this
// validation and maps to the same 400 response.
func (h *ReviewHandler) Create(c echo.Context) error {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || listingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		ReviewerName string  `json:"reviewer_name"`
		Rating       int     `json:"rating"`
		Comment      *string `json:"comment"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.ReviewerName = strings.TrimSpace(body.ReviewerName)
	if body.ReviewerName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reviewer_name is required"})
	}
	if body.Rating < 1 || body.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	if ok, err := h.Listings.Exists(ctx, listingID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}

	review := &model.Review{
		ListingID:    listingID,
		ReviewerName: body.ReviewerName,
		Rating:       uint32(body.Rating),
		Comment:      body.Comment,
	}
	if err := h.Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrRatingOutOfRange) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create review"})
	}

	det := repository.ReviewDetail{
		ID:           review.ID,
		ReviewerName: review.ReviewerName,
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt.UTC().Format(time.RFC3339),
	}
	return c.JSON(http.StatusCreated, det)
}

// List handles GET /api/listings/:id/reviews/.
func (h *ReviewHandler) List(c echo.Context) error {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || listingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if ok, err := h.Listings.Exists(ctx, listingID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}
	items, err := h.Reviews.ListByListing(ctx, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}
