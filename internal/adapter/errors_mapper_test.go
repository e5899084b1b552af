package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapHTTPError_StatusToSentinel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		// 401 is exercised separately: the dispatcher consumes it to drive
		// session renewal rather than returning it as-is.
		{name: "bad request", status: http.StatusBadRequest, want: ErrBadRequest},
		{name: "forbidden", status: http.StatusForbidden, want: ErrForbidden},
		{name: "not found", status: http.StatusNotFound, want: ErrNotFound},
		{name: "conflict", status: http.StatusConflict, want: ErrConflict},
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrRateLimited},
		{name: "internal error", status: http.StatusInternalServerError, want: ErrServerUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, want: ErrServerUnavailable},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, want: ErrServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &stubSessions{current: activeSession("token-1")}

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			d := newTestDispatcher(t, srv.URL, sessions)
			_, err := d.Send(context.Background(), Request{Method: http.MethodGet, Path: "/v2/catalogs"})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapHTTPError_DecodesServiceEnvelope(t *testing.T) {
	sessions := &stubSessions{current: activeSession("token-1")}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":1501,"message":"list not found","details":"l1 is gone"}`))
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv.URL, sessions)
	_, err := d.Send(context.Background(), Request{Method: http.MethodGet, Path: "/v2/shoppinglists/l1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "list not found (code 1501): l1 is gone")
}

func TestMapHTTPError_FallsBackToRawBody(t *testing.T) {
	sessions := &stubSessions{current: activeSession("token-1")}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("modified timestamp behind server copy"))
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv.URL, sessions)
	_, err := d.Send(context.Background(), Request{Method: http.MethodPut, Path: "/v2/shoppinglists/l1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "modified timestamp behind server copy")
}
