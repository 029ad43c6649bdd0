package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "toxicbot/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mounted(enabled bool) http.Handler {
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), enabled)
	return mux
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestMount_DisabledServesNothing(t *testing.T) {
	h := mounted(false)
	assert.Equal(t, http.StatusNotFound, get(h, "/api/docs/doc.json").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/api/docs/index.html").Code)
}

func TestMount_RedirectsBareRoot(t *testing.T) {
	rr := get(mounted(true), "/api/docs")
	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "/api/docs/", rr.Header().Get("Location"))
}

func TestMount_ServesDocument(t *testing.T) {
	rr := get(mounted(true), "/api/docs/doc.json")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var spec map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &spec), rr.Body.String())
	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.Contains(t, spec["info"].(map[string]any)["title"], "toxicbot")
	assert.NotEmpty(t, spec["servers"])
}

func TestMount_ServesUI(t *testing.T) {
	rr := get(mounted(true), "/api/docs/index.html")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/docs/doc.json")
}
