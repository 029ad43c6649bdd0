package httpkit

import (
	"net/http"
	"time"

	"toxicbot/internal/platform/net/middleware"
)

// slowRequest marks access log lines as warn once a request takes this long
const slowRequest = 2 * time.Second

// CommonStack returns the baseline middleware slice for a mounted API
// timeout <= 0 falls back to the platform default
func CommonStack(timeout time.Duration) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		middleware.Heartbeat("/health"),
	}
	stack = append(stack, middleware.Defaults(timeout)...)
	return append(stack,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: slowRequest}),
	)
}
