// Package middleware holds adapters and in house middlewares
package middleware

import (
	"net/http"
	"time"

	"toxicbot/internal/platform/logger"
	pnet "toxicbot/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests taking at least this long at warn; 0 disables it
	Slow time.Duration
}

// AccessLogZerolog writes one line per request on the request scoped logger.
// 5xx logs at error, slow requests at warn, the rest at info. Webhook
// deliveries also carry the event name and delivery id
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			took := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && took >= opt.Slow:
				evt = log.Warn()
			}
			if ev := r.Header.Get(pnet.EventHeader); ev != "" {
				evt = evt.Str("event", ev)
			}
			if id := pnet.DeliveryID(r.Context()); id != "" {
				evt = evt.Str("delivery", id)
			}
			evt.Int("status", status).
				Dur("took", took).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
