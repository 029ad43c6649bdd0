package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func applyStack(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- { // outermost first
		h = stack[i](h)
	}
	return h
}

func TestCommonStack_HealthEndpoint(t *testing.T) {
	root := applyStack(http.NotFoundHandler(), CommonStack(time.Second))

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected /health to be 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCommonStack_RequestReachesHandler(t *testing.T) {
	hit := 0
	var delivery string
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit++
		delivery = r.Header.Get("X-GitHub-Delivery")
		w.WriteHeader(http.StatusNoContent)
	})
	root := applyStack(final, CommonStack(0))

	req := httptest.NewRequest(http.MethodPost, "/moderation/events", nil)
	req.Header.Set("X-GitHub-Delivery", "d-1")
	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, req)

	if hit != 1 {
		t.Fatalf("expected final handler to be called once, got %d", hit)
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 from final handler, got %d", rr.Code)
	}
	if delivery != "d-1" {
		t.Fatalf("delivery header lost, got %q", delivery)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("expected no-cache headers, got %v", rr.Header())
	}
}

func TestCommonStack_RecoversPanics(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") })
	root := applyStack(boom, CommonStack(time.Second))

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rr.Code)
	}
}
