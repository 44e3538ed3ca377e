// Package gateway implements the HTTP client for the Chapa payment
// processor. Responses are decoded into a tagged outcome exactly once at
// this boundary; the raw body is preserved so the API can pass it through
// to callers unchanged.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Chapa endpoint.
const DefaultBaseURL = "https://api.chapa.co"

// Client calls the Chapa transaction API. Calls are synchronous, blocking
// network I/O; the embedded http.Client timeout bounds how long a request
// thread can stall on the gateway.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient constructs a Client. An empty baseURL selects the production
// endpoint; tests point it at a local server.
func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// InitializeRequest is the payload for POST /v1/transaction/initialize.
type InitializeRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	TxRef       string  `json:"tx_ref"`
	CallbackURL string  `json:"callback_url"`
}

// VerifyOutcome is the typed result of a verify call. Exactly one of the
// three states holds:
//   - Success: the gateway reported data.status == "success"; TransactionID
//     carries data.id when present.
//   - Failure: the gateway reported any other status value.
//   - Malformed: the body was not the expected envelope (missing data,
//     non-JSON, wrong shape). Treated the same as Failure by callers.
type VerifyOutcome struct {
	State         VerifyState
	TransactionID string
}

// VerifyState enumerates the decode results of a verify response.
type VerifyState int

const (
	VerifyMalformed VerifyState = iota
	VerifyFailure
	VerifySuccess
)

// Initialize starts a transaction with the gateway and returns the raw
// response body. A transport-level failure is wrapped and returned; the
// caller surfaces it as a gateway error. Non-2xx bodies are returned as-is,
// mirroring how the API forwards whatever the gateway said.
func (c *Client) Initialize(ctx context.Context, reqBody InitializeRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/v1/transaction/initialize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chapa initialize: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("chapa initialize: read body: %w", err)
	}
	return json.RawMessage(body), nil
}

// Verify checks the state of a transaction by tx_ref. It returns the raw
// response body together with the decoded outcome. Only transport-level
// failures produce an error; an unexpected body decodes to Malformed.
func (c *Client) Verify(ctx context.Context, txRef string) (json.RawMessage, VerifyOutcome, error) {
	url := c.baseURL + "/v1/transaction/verify/" + txRef
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, VerifyOutcome{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, VerifyOutcome{}, fmt.Errorf("chapa verify: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, VerifyOutcome{}, fmt.Errorf("chapa verify: read body: %w", err)
	}
	return json.RawMessage(body), decodeVerify(body), nil
}

// decodeVerify classifies a verify response body. data.id may arrive as a
// string or a number; both are accepted.
func decodeVerify(body []byte) VerifyOutcome {
	var envelope struct {
		Data *struct {
			Status string          `json:"status"`
			ID     json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Data == nil {
		return VerifyOutcome{State: VerifyMalformed}
	}
	if envelope.Data.Status != "success" {
		return VerifyOutcome{State: VerifyFailure}
	}
	out := VerifyOutcome{State: VerifySuccess}
	if len(envelope.Data.ID) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Data.ID, &s); err == nil {
			out.TransactionID = s
		} else {
			var n json.Number
			if err := json.Unmarshal(envelope.Data.ID, &n); err == nil {
				out.TransactionID = n.String()
			}
		}
	}
	return out
}
