package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitialize_SendsAuthorizedPayload(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://checkout.example/abc"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk-test")
	raw, err := client.Initialize(context.Background(), InitializeRequest{
		Amount:      240.00,
		Currency:    "ETB",
		Email:       "jane@example.com",
		FirstName:   "Jane Doe",
		LastName:    "Customer",
		TxRef:       "tx-abc",
		CallbackURL: "https://yourdomain.com/api/payments/verify/",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("missing bearer auth, got %q", gotAuth)
	}
	if gotPath != "/v1/transaction/initialize" {
		t.Fatalf("wrong path %q", gotPath)
	}
	if gotBody["tx_ref"] != "tx-abc" || gotBody["currency"] != "ETB" {
		t.Fatalf("payload fields missing: %v", gotBody)
	}
	if gotBody["amount"] != 240.00 {
		t.Fatalf("amount not forwarded: %v", gotBody["amount"])
	}
	// Raw body is preserved for the API to pass through.
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("raw body not JSON: %v", err)
	}
	if envelope["status"] != "success" {
		t.Fatalf("raw body mangled: %v", envelope)
	}
}

func TestInitialize_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "sk-test")
	if _, err := client.Initialize(context.Background(), InitializeRequest{TxRef: "tx"}); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestVerify_RequestsTxRefPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data":{"status":"success","id":"X"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk-test")
	_, outcome, err := client.Verify(context.Background(), "tx-abc")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotPath != "/v1/transaction/verify/tx-abc" {
		t.Fatalf("wrong path %q", gotPath)
	}
	if outcome.State != VerifySuccess || outcome.TransactionID != "X" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestDecodeVerify(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		state VerifyState
		txID  string
	}{
		{"success with string id", `{"data":{"status":"success","id":"X"}}`, VerifySuccess, "X"},
		{"success with numeric id", `{"data":{"status":"success","id":12345}}`, VerifySuccess, "12345"},
		{"success without id", `{"data":{"status":"success"}}`, VerifySuccess, ""},
		{"failed", `{"data":{"status":"failed"}}`, VerifyFailure, ""},
		{"pending counts as failure", `{"data":{"status":"pending"}}`, VerifyFailure, ""},
		{"missing data", `{"message":"not found"}`, VerifyMalformed, ""},
		{"null data", `{"data":null}`, VerifyMalformed, ""},
		{"not json", `<html>boom</html>`, VerifyMalformed, ""},
		{"empty body", ``, VerifyMalformed, ""},
	}
	for _, tc := range cases {
		out := decodeVerify([]byte(tc.body))
		if out.State != tc.state {
			t.Fatalf("%s: expected state %v, got %v", tc.name, tc.state, out.State)
		}
		if out.TransactionID != tc.txID {
			t.Fatalf("%s: expected tx id %q, got %q", tc.name, tc.txID, out.TransactionID)
		}
	}
}
