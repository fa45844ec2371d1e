// Package transport executes HTTP requests against the FinTrack backend.
// It owns the base address, attaches the current session credential to
// every outgoing request, and classifies failures into the AppError
// taxonomy. It never reacts to a 401/403 itself; the caller decides.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// CredentialSource supplies the current session credential, if any.
// Absence of a credential is not an error at this layer; authorization
// is enforced by the backend.
type CredentialSource interface {
	Token() (string, bool)
}

// Client is an HTTP client bound to a FinTrack backend base URL.
type Client struct {
	baseURL    string
	creds      CredentialSource
	httpClient *http.Client
}

// New creates a transport client. creds may be nil for unauthenticated use.
func New(baseURL string, creds CredentialSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: httpClient,
	}
}

// Do executes a JSON request against the backend. body may be nil; when out
// is non-nil the response body is decoded into it. Failures are returned as
// *apperrors.AppError: NETWORK_ERROR when no response was received, otherwise
// an error matching the HTTP status class.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Get().Debugw("http request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Download streams an opaque response body, e.g. a report export. The caller
// owns the returned ReadCloser. The second return value is the filename from
// the Content-Disposition header, empty when the backend did not set one.
func (c *Client) Download(ctx context.Context, path string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, "", statusError(resp)
	}

	var filename string
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}
	return resp.Body, filename, nil
}

// decorate attaches the session credential and a request correlation ID.
func (c *Client) decorate(req *http.Request) {
	if c.creds != nil {
		if token, ok := c.creds.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// errorBody is the machine-readable error payload the backend may return.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// statusError maps a non-2xx response to an AppError. The backend message is
// carried verbatim when present; field-level reasons survive on 400s.
func statusError(resp *http.Response) *apperrors.AppError {
	var payload errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, &payload)

	var sentinel *apperrors.AppError
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		sentinel = apperrors.ErrValidation
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		sentinel = apperrors.ErrAuth
	case resp.StatusCode == http.StatusNotFound:
		sentinel = apperrors.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		sentinel = apperrors.ErrConflict
	case resp.StatusCode >= 500:
		sentinel = apperrors.ErrServer
	default:
		sentinel = apperrors.ErrValidation
	}

	appErr := &apperrors.AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: resp.StatusCode,
		Fields:     payload.Errors,
	}
	if payload.Message != "" {
		appErr.Message = payload.Message
	}
	return appErr
}
