// Package swaggerkit mounts the Swagger UI and the JSON document it reads
package swaggerkit

import (
	"net/http"

	phttp "toxicbot/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Root is where the UI lives; the document is served at Root+"/doc.json"
const Root = "/api/docs"

// Mount the Swagger UI and JSON spec if enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Handle(Root, http.RedirectHandler(Root+"/", http.StatusPermanentRedirect))
	r.Handle(Root+"/doc.json", serveDocJSON())
	r.Handle(Root+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL(Root+"/doc.json"),
	))
}
