package netutil

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// serverPort returns the loopback port an httptest.Server listens on.
func serverPort(t *testing.T, srv *httptest.Server) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return port
}

func TestHealthURL(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/api/health": "http://127.0.0.1:8080/api/health",
		"api/health":  "http://127.0.0.1:8080/api/health",
	}
	for path, want := range tests {
		if got := HealthURL(8080, path); got != want {
			t.Errorf("HealthURL(8080, %q) = %q, want %q", path, got, want)
		}
	}
}

func TestHealthChecker_Check(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status      int
		body        string
		wantErr     bool
		wantCode    int
		wantLoading bool
		wantFailed  bool
		wantVersion string
	}{
		"ready": {
			status:      http.StatusOK,
			body:        `{"status":"ok","version":"0.1.0","dataStatus":"ready","dataError":null}`,
			wantVersion: "0.1.0",
		},
		"loading": {
			status:      http.StatusOK,
			body:        `{"status":"ok","dataStatus":"loading"}`,
			wantLoading: true,
		},
		"data error": {
			status:     http.StatusOK,
			body:       `{"status":"ok","dataStatus":"error","dataError":"game directory not found"}`,
			wantFailed: true,
		},
		"empty body": {
			status: http.StatusNoContent,
		},
		"server error": {
			status:   http.StatusServiceUnavailable,
			body:     `{"status":"down"}`,
			wantErr:  true,
			wantCode: http.StatusServiceUnavailable,
		},
		"not json": {
			status:  http.StatusOK,
			body:    "<html>",
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/health" {
					http.NotFound(w, r)
					return
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			h := NewHealthChecker(serverPort(t, srv), "/api/health", 0)
			defer h.Close()

			st, err := h.Check(context.Background())
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var se *StatusError
				if tc.wantCode != 0 && (!errors.As(err, &se) || se.Code != tc.wantCode) {
					t.Errorf("error = %v, want StatusError %d", err, tc.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Check() error: %v", err)
			}
			if st.Loading() != tc.wantLoading || st.Failed() != tc.wantFailed {
				t.Errorf("Loading/Failed = %v/%v, want %v/%v", st.Loading(), st.Failed(), tc.wantLoading, tc.wantFailed)
			}
			if st.Version != tc.wantVersion {
				t.Errorf("Version = %q, want %q", st.Version, tc.wantVersion)
			}
		})
	}
}

func TestHealthChecker_Unreachable(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()

	h := NewHealthChecker(port, "/api/health", 0)
	defer h.Close()
	if _, err := h.Check(context.Background()); err == nil {
		t.Fatal("expected error for a closed port")
	}
}
