package netutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Data states reported in HealthStatus.DataStatus.
const (
	DataLoading = "loading"
	DataReady   = "ready"
	DataError   = "error"
)

// DefaultHealthTimeout bounds one health request.
const DefaultHealthTimeout = 2 * time.Second

// maxHealthBody caps how much of a health response is read.
const maxHealthBody = 64 << 10

// HealthStatus is the backend's health document. Every field is optional;
// an empty 2xx body decodes to the zero value.
type HealthStatus struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	DataStatus string `json:"dataStatus"`
	DataError  string `json:"dataError"`
}

// Loading reports whether the backend is up but still loading its data.
func (s HealthStatus) Loading() bool { return strings.EqualFold(s.DataStatus, DataLoading) }

// Failed reports whether the backend gave up loading its data.
func (s HealthStatus) Failed() bool { return strings.EqualFold(s.DataStatus, DataError) }

// StatusError is returned by HealthChecker.Check for a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("health endpoint returned HTTP %d", e.Code)
}

// HealthChecker fetches a backend health endpoint over loopback HTTP.
type HealthChecker struct {
	url    string
	client *http.Client
}

// HealthURL returns the loopback URL of path on port.
func HealthURL(port int, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + LoopbackAddr(port) + path
}

// NewHealthChecker returns a checker for path on the loopback port. A
// non-positive timeout uses DefaultHealthTimeout.
func NewHealthChecker(port int, path string, timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return &HealthChecker{
		url: HealthURL(port, path),
		client: &http.Client{
			// Each poll opens a fresh connection so failed early attempts
			// leave no idle connections behind.
			Transport: &http.Transport{DisableKeepAlives: true},
			Timeout:   timeout,
		},
	}
}

// URL returns the endpoint being checked.
func (h *HealthChecker) URL() string { return h.url }

// Check performs one GET. Transport failures, non-2xx responses (as
// *StatusError) and undecodable bodies are returned as errors; the caller
// decides which of them are worth retrying.
func (h *HealthChecker) Check(ctx context.Context) (HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, http.NoBody)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("create health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return HealthStatus{}, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return HealthStatus{}, &StatusError{Code: resp.StatusCode}
	}

	var st HealthStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxHealthBody)).Decode(&st); err != nil && !errors.Is(err, io.EOF) {
		return HealthStatus{}, fmt.Errorf("decode health response: %w", err)
	}
	return st, nil
}

// Close releases idle connections held by the checker.
func (h *HealthChecker) Close() {
	h.client.CloseIdleConnections()
}
