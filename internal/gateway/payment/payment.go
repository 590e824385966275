// Package payment talks to the payment provider's REST API.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ecodeli/internal/apperr"
)

// Intent is the provider-side view of a payment.
type Intent struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// StatusError is a non-2xx provider answer.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("payment provider: status %d: %s", e.Code, e.Message)
}

// Unwrap classifies the answer.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusNotFound:
		return apperr.ErrNotFound
	case e.Code == http.StatusTooManyRequests, e.Code >= 500,
		e.Code == http.StatusUnauthorized, e.Code == http.StatusForbidden:
		return apperr.ErrUnavailable
	default:
		return apperr.ErrConflict
	}
}

type transportError struct{ err error }

func (e *transportError) Error() string   { return "payment provider: " + e.err.Error() }
func (e *transportError) Unwrap() []error { return []error{apperr.ErrUnavailable, e.err} }

// HTTPGateway is a payment gateway for a Stripe-compatible API.
type HTTPGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewHTTPGateway creates a gateway. A nil client gets a traced client with a 10s timeout.
func NewHTTPGateway(baseURL, secretKey string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    client,
	}
}

// GetIntent fetches a payment intent.
func (g *HTTPGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	return g.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id))
}

// Capture captures held funds.
func (g *HTTPGateway) Capture(ctx context.Context, id string) (*Intent, error) {
	return g.do(ctx, http.MethodPost, "/v1/payment_intents/"+url.PathEscape(id)+"/capture")
}

// Cancel releases held funds back to the payer.
func (g *HTTPGateway) Cancel(ctx context.Context, id string) (*Intent, error) {
	return g.do(ctx, http.MethodPost, "/v1/payment_intents/"+url.PathEscape(id)+"/cancel")
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *HTTPGateway) do(ctx context.Context, method, path string) (*Intent, error) {
	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &transportError{err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var pe providerError
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(raw, &pe) == nil && pe.Error.Message != "" {
			msg = pe.Error.Message
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: msg}
	}

	var in Intent
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("payment gateway: decode intent: %w", err)
	}
	if in.ID == "" {
		return nil, errors.New("payment gateway: intent without id")
	}
	return &in, nil
}
