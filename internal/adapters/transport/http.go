package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"sceneforge/internal/ports"
)

// maxDocumentSize bounds how much of a response body is read
const maxDocumentSize = 64 << 20

// StatusError reports a non-2xx HTTP response
type StatusError struct {
	Method string
	URI    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URI, e.Status, http.StatusText(e.Status))
}

// HTTP fetches scenes with GET and saves them with PUT
type HTTP struct {
	client *http.Client
}

var _ ports.Transport = (*HTTP)(nil)

// NewHTTP creates an HTTP transport. A zero timeout means no timeout.
func NewHTTP(timeout time.Duration) *HTTP {
	return &HTTP{client: &http.Client{Timeout: timeout}}
}

// Fetch GETs the document at uri
func (h *HTTP) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, */*")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: http.MethodGet, URI: uri, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", uri, err)
	}
	return data, nil
}

// Write PUTs data at uri
func (h *HTTP) Write(ctx context.Context, uri string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uri, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: http.MethodPut, URI: uri, Status: resp.StatusCode}
	}
	return nil
}
