package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/alxtravel/travel-booking-api/internal/queue"
	"github.com/alxtravel/travel-booking-api/internal/repository"
)

// fakePublisher records enqueued jobs instead of talking to the broker.
type fakePublisher struct {
	jobs []queue.BookingConfirmationJob
	err  error
}

func (f *fakePublisher) PublishBookingConfirmation(_ context.Context, job queue.BookingConfirmationJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func bookingHandler(db *sql.DB, pub ConfirmationPublisher) *BookingHandler {
	return NewBookingHandler(repository.NewBookingRepo(db), repository.NewListingRepo(db), pub)
}

func TestBookingCreate_PersistsAndEnqueues(t *testing.T) {
	db, mock := newMockDB(t)
	pub := &fakePublisher{}
	h := bookingHandler(db, pub)

	mock.ExpectQuery("SELECT title FROM listings WHERE id = ?").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Beachfront Paradise"))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(1), "Jane Doe", "jane@example.com", "2026-09-10", "2026-09-12", "240.00").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT booked_at FROM bookings WHERE id = ?").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"booked_at"}).
			AddRow(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)))

	body := `{"listing":1,"customer_name":"Jane Doe","customer_email":"jane@example.com","check_in":"2026-09-10","check_out":"2026-09-12","total_price":240.00}`
	c, rec := newJSONContext(http.MethodPost, "/api/bookings/", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var got repository.BookingDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if got.ID != 7 || got.ListingTitle != "Beachfront Paradise" || got.TotalPrice != "240.00" {
		t.Fatalf("unexpected response: %+v", got)
	}
	if got.CheckIn != "2026-09-10" || got.CheckOut != "2026-09-12" {
		t.Fatalf("dates not formatted: %q / %q", got.CheckIn, got.CheckOut)
	}

	if len(pub.jobs) != 1 {
		t.Fatalf("expected 1 enqueued job, got %d", len(pub.jobs))
	}
	job := pub.jobs[0]
	if job.BookingID != 7 || job.CustomerEmail != "jane@example.com" || job.ListingTitle != "Beachfront Paradise" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.CheckIn != "2026-09-10" || job.CheckOut != "2026-09-12" {
		t.Fatalf("job dates not formatted: %q / %q", job.CheckIn, job.CheckOut)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingCreate_EnqueueFailureDoesNotFailRequest(t *testing.T) {
	db, mock := newMockDB(t)
	pub := &fakePublisher{err: errors.New("broker down")}
	h := bookingHandler(db, pub)

	mock.ExpectQuery("SELECT title FROM listings WHERE id = ?").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Beachfront Paradise"))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery("SELECT booked_at FROM bookings WHERE id = ?").
		WillReturnRows(sqlmock.NewRows([]string{"booked_at"}).AddRow(time.Now().UTC()))

	body := `{"listing":1,"customer_name":"Jane Doe","customer_email":"jane@example.com","check_in":"2026-09-10","check_out":"2026-09-12","total_price":"240.00"}`
	c, rec := newJSONContext(http.MethodPost, "/api/bookings/", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 despite enqueue failure, got %d", rec.Code)
	}
}

func TestBookingCreate_UnknownListing(t *testing.T) {
	db, mock := newMockDB(t)
	h := bookingHandler(db, &fakePublisher{})

	mock.ExpectQuery("SELECT title FROM listings WHERE id = ?").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}))

	body := `{"listing":42,"customer_name":"Jane Doe","customer_email":"jane@example.com","check_in":"2026-09-10","check_out":"2026-09-12","total_price":"240.00"}`
	c, rec := newJSONContext(http.MethodPost, "/api/bookings/", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	// Nothing may be inserted for a booking against a missing listing.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestBookingCreate_RejectsMalformedFields(t *testing.T) {
	db, _ := newMockDB(t)
	h := bookingHandler(db, &fakePublisher{})

	cases := []struct {
		name string
		body string
	}{
		{"missing listing", `{"customer_name":"Jane","customer_email":"jane@example.com","check_in":"2026-09-10","check_out":"2026-09-12","total_price":"240.00"}`},
		{"blank name", `{"listing":1,"customer_name":"  ","customer_email":"jane@example.com","check_in":"2026-09-10","check_out":"2026-09-12","total_price":"240.00"}`},
		{"bad email", `{"listing":1,"customer_name":"Jane","customer_email":"not-an-email","check_in":"2026-09-10","check_out":"2026-09-12","total_price":"240.00"}`},
		{"bad check_in", `{"listing":1,"customer_name":"Jane","customer_email":"jane@example.com","check_in":"10/09/2026","check_out":"2026-09-12","total_price":"240.00"}`},
		{"missing total_price", `{"listing":1,"customer_name":"Jane","customer_email":"jane@example.com","check_in":"2026-09-10","check_out":"2026-09-12"}`},
	}
	for _, tc := range cases {
		c, rec := newJSONContext(http.MethodPost, "/api/bookings/", tc.body)
		if err := h.Create(c); err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestBookingCreate_AcceptsMismatchedTotal(t *testing.T) {
	// The total is stored as sent; nights-times-price arithmetic is not
	// enforced server side.
	db, mock := newMockDB(t)
	h := bookingHandler(db, &fakePublisher{})

	mock.ExpectQuery("SELECT title FROM listings WHERE id = ?").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Beachfront Paradise"))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(1), "Jane Doe", "jane@example.com", "2026-09-10", "2026-09-12", "999.99").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("SELECT booked_at FROM bookings WHERE id = ?").
		WillReturnRows(sqlmock.NewRows([]string{"booked_at"}).AddRow(time.Now().UTC()))

	body := `{"listing":1,"customer_name":"Jane Doe","customer_email":"jane@example.com","check_in":"2026-09-10","check_out":"2026-09-12","total_price":999.99}`
	c, rec := newJSONContext(http.MethodPost, "/api/bookings/", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingGet_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	h := bookingHandler(db, &fakePublisher{})

	mock.ExpectQuery("FROM bookings b").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newJSONContext(http.MethodGet, "/api/bookings/99/", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	if err := h.Get(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
