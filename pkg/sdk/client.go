// Package sdk is an HTTP client for the companion API.
//
// *SDK implements companionform.Endpoint, so a form workflow can submit
// straight to a remote server:
//
//	client, _ := sdk.New(&sdk.ClientOptions{Endpoint: "http://localhost:6060"})
//	w := companionform.New(companionform.Config{Endpoint: client})
package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/curaious/companion/pkg/companionform"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type SDK struct {
	endpoint   string
	httpClient *http.Client
}

type ClientOptions struct {
	// Endpoint is the base URL of the companion server, e.g. "http://localhost:6060".
	Endpoint string

	// HTTPClient is used as is when set. Timeout is ignored in that case.
	HTTPClient *http.Client

	Timeout time.Duration
}

var _ companionform.Endpoint = (*SDK)(nil)

func New(opts *ClientOptions) (*SDK, error) {
	if opts == nil || opts.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}

	if _, err := url.ParseRequestURI(opts.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &SDK{
		endpoint:   strings.TrimSuffix(opts.Endpoint, "/"),
		httpClient: httpClient,
	}, nil
}

// Response mirrors the server's JSON envelope.
type Response[T any] struct {
	Error        bool   `json:"error"`
	Message      string `json:"message"`
	Data         T      `json:"data"`
	Status       int    `json:"status"`
	ErrorDetails struct {
		Err    string            `json:"error"`
		Fields map[string]string `json:"fields,omitempty"`
	} `json:"errorDetails"`
}

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	StatusCode int
	Message    string
	Detail     string
	// Fields holds per-field validation messages when the server rejected the draft.
	Fields map[string]string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("companion api error (status %d)", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Create posts a new companion.
func (c *SDK) Create(ctx context.Context, draft companionform.Draft) error {
	_, err := call[companionform.Record](ctx, c, http.MethodPost, "/api/companion", draft)
	return err
}

// Update replaces the companion identified by id.
func (c *SDK) Update(ctx context.Context, id string, draft companionform.Draft) error {
	_, err := call[companionform.Record](ctx, c, http.MethodPatch, "/api/companion/"+url.PathEscape(id), draft)
	return err
}

// ListCategories returns the categories a draft may select.
func (c *SDK) ListCategories(ctx context.Context) ([]companionform.Category, error) {
	return call[[]companionform.Category](ctx, c, http.MethodGet, "/api/categories", nil)
}

// GetCompanion fetches a stored companion for editing.
func (c *SDK) GetCompanion(ctx context.Context, id string) (*companionform.Record, error) {
	rec, err := call[companionform.Record](ctx, c, http.MethodGet, "/api/companion/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// call sends body as JSON and decodes the data field of the envelope into T.
func call[T any](ctx context.Context, c *SDK, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var envelope Response[any]
		if sonic.Unmarshal(raw, &envelope) == nil {
			statusErr.Message = envelope.Message
			statusErr.Detail = envelope.ErrorDetails.Err
			statusErr.Fields = envelope.ErrorDetails.Fields
		}
		return zero, statusErr
	}

	var envelope Response[T]
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}

	return envelope.Data, nil
}
