package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	h := RequestID()(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if seen == "" {
		t.Fatal("handler saw no request ID in context")
	}
	if got := w.Header().Get("X-Request-Id"); got != seen {
		t.Errorf("response header = %q, want %q (same as context)", got, seen)
	}

	// Each request gets a fresh ID.
	first := seen
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == first {
		t.Error("second request reused the first request's ID")
	}
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := FromContext(req.Context()); got != "" {
		t.Errorf("FromContext() = %q, want empty", got)
	}
}
