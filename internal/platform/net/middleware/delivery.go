package middleware

import (
	"net/http"

	"toxicbot/internal/platform/logger"
	pnet "toxicbot/internal/platform/net"
)

// Delivery lifts X-GitHub-Delivery onto the context and echoes it back
// the logger request id prefers the delivery id so log lines join with GitHub's delivery log
func Delivery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := pnet.RequestID(ctx)
		del := r.Header.Get(pnet.DeliveryHeader)

		ctx = pnet.WithRequest(ctx, reqID, del)
		logID := reqID
		if del != "" {
			logID = del
			w.Header().Set(pnet.DeliveryHeader, del)
		}
		ctx = logger.WithRequest(ctx, logID, "")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
