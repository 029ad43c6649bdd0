package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"
	pnet "toxicbot/internal/platform/net"
	phttp "toxicbot/internal/platform/net/http"
)

// RecoverJSON converts panics into the standard JSON envelope with a 500
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered")

			if id := pnet.RequestID(r.Context()); id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			phttp.RespondError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
