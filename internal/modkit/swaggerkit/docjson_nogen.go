//go:build !swag

package swaggerkit

import (
	"fmt"
	"net/http"

	"toxicbot/internal/core/version"
)

// docReader builds the skeleton served when the binary is built without the generated docs
var docReader = func() string {
	return fmt.Sprintf(`{"openapi":"3.0.3","info":{"title":"toxicbot webhook API","version":%q},"servers":[{"url":"/api/v1"}],"paths":{}}`,
		version.Info("").Version)
}

// serveDocJSON (no-swag build) serves the skeleton so the UI can still load
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}
