package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/room-booking/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("attaches a request-scoped logger to the context", func(t *testing.T) {
		t.Parallel()
		var sawLogger bool
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawLogger = logging.FromContext(r.Context()) != nil
			w.WriteHeader(http.StatusOK)
		})

		handler := RequestLogger(base)(inner)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))

		if !sawLogger {
			t.Fatal("expected a logger in the request context")
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("tolerates a nil base logger", func(t *testing.T) {
		t.Parallel()
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		handler := RequestLogger(nil)(inner)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
