package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/alxtravel/travel-booking-api/internal/gateway"
	"github.com/alxtravel/travel-booking-api/internal/model"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

// PaymentGateway is the slice of the Chapa client the payment endpoints
// consume. Tests back it with an httptest server or a stub.
type PaymentGateway interface {
	Initialize(ctx context.Context, req gateway.InitializeRequest) (json.RawMessage, error)
	Verify(ctx context.Context, txRef string) (json.RawMessage, gateway.VerifyOutcome, error)
}

// PaymentHandler drives the initialize/verify round trip against the
// gateway and mirrors its state into local payment rows. It is the
// reconciliation boundary between this system and the gateway's records:
// local status only ever moves Pending -> Completed or Pending -> Failed,
// and terminal rows are never transitioned again.
type PaymentHandler struct {
	Payments    *repository.PaymentRepo
	Bookings    *repository.BookingRepo
	Gateway     PaymentGateway
	CallbackURL string
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *repository.PaymentRepo, bookings *repository.BookingRepo, gw PaymentGateway, callbackURL string) *PaymentHandler {
	if payments == nil || bookings == nil || gw == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments, Bookings: bookings, Gateway: gw, CallbackURL: callbackURL}
}

// Initialize handles POST /api/payments/initialize/. It creates a gateway
// transaction for the referenced booking and records a Pending payment row.
// The row is written regardless of what the gateway response says — only a
// transport-level failure aborts before persisting (surfaced as 502). The
// raw gateway response is returned to the caller, checkout link included.
func (h *PaymentHandler) Initialize(c echo.Context) error {
	var body struct {
		BookingID uint64 `json:"booking_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}

	ctx := c.Request().Context()
	booking, err := h.Bookings.GetByID(ctx, body.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	txRef := uuid.NewString()
	raw, err := h.Gateway.Initialize(ctx, gateway.InitializeRequest{
		Amount:      decimal(booking.TotalPrice).Float(),
		Currency:    "ETB",
		Email:       booking.CustomerEmail,
		FirstName:   booking.CustomerName,
		LastName:    "Customer",
		TxRef:       txRef,
		CallbackURL: h.CallbackURL,
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway unreachable"})
	}

	payment := &model.Payment{
		BookingID: booking.ID,
		Amount:    booking.TotalPrice,
		Email:     booking.CustomerEmail,
		FirstName: booking.CustomerName,
		LastName:  "Customer",
		TxRef:     txRef,
		Status:    model.PaymentPending,
	}
	if err := h.Payments.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicateTxRef) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "transaction reference already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record payment"})
	}

	return c.JSONBlob(http.StatusOK, raw)
}

// Verify handles GET /api/payments/verify/?tx_ref=... . A payment that has
// already reached a terminal status is not re-verified; the stored state is
// returned as-is. Otherwise the gateway is asked and the decoded outcome
// drives the one permitted transition: success -> Completed (recording the
// gateway transaction id), anything else -> Failed.
func (h *PaymentHandler) Verify(c echo.Context) error {
	txRef := c.QueryParam("tx_ref")
	if txRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tx_ref is required"})
	}

	ctx := c.Request().Context()
	payment, err := h.Payments.GetByTxRef(ctx, txRef)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if payment.Terminal() {
		return c.JSON(http.StatusOK, echo.Map{
			"tx_ref":               payment.TxRef,
			"status":               payment.Status,
			"chapa_transaction_id": payment.ChapaTransactionID,
		})
	}

	raw, outcome, err := h.Gateway.Verify(ctx, txRef)
	if err != nil {
		// No transition on transport failure: the payment stays Pending and
		// a later verify decides it.
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway unreachable"})
	}

	if outcome.State == gateway.VerifySuccess {
		var chapaID *string
		if outcome.TransactionID != "" {
			chapaID = &outcome.TransactionID
		}
		if err := h.Payments.UpdateStatus(ctx, txRef, model.PaymentCompleted, chapaID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update payment"})
		}
	} else {
		if err := h.Payments.UpdateStatus(ctx, txRef, model.PaymentFailed, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update payment"})
		}
	}

	return c.JSONBlob(http.StatusOK, raw)
}
