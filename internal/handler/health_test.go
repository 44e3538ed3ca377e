package handler

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/health/", "")
	if err := Health("ALX Travel App API")(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if got["status"] != "healthy" || got["service"] != "ALX Travel App API" {
		t.Fatalf("unexpected payload: %v", got)
	}
}
