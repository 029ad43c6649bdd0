// Package httpclient builds retrying HTTP clients for outbound collaborator calls
// and classifies their failures into perr codes
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Options configures New
type Options struct {
	// Name tags the client's log lines
	Name         string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

func (o *Options) defaults() {
	if o.Name == "" {
		o.Name = "http"
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryWaitMin <= 0 {
		o.RetryWaitMin = 500 * time.Millisecond
	}
	if o.RetryWaitMax <= 0 {
		o.RetryWaitMax = 5 * time.Second
	}
}

// New returns a stdlib *http.Client that retries connection errors, 429 and
// 5xx (except 501). When retries run out the last response is handed back
// so callers can still read its status
func New(o Options) *http.Client {
	o.defaults()
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.RetryMax = o.MaxRetries
	rc.RetryWaitMin = o.RetryWaitMin
	rc.RetryWaitMax = o.RetryWaitMax
	rc.Logger = retryablehttp.LeveledLogger(leveled{log: logger.Named(o.Name)})
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := rc.StandardClient()
	c.Timeout = o.Timeout
	return c
}

// leveled adapts zerolog to retryablehttp; request errors are logged as
// warnings because the client retries them
type leveled struct{ log *logger.Logger }

func (l leveled) Error(msg string, kv ...any) { l.log.Warn().Fields(kv).Msg(msg) }
func (l leveled) Warn(msg string, kv ...any)  { l.log.Warn().Fields(kv).Msg(msg) }
func (l leveled) Info(msg string, kv ...any)  { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveled) Debug(msg string, kv ...any) { l.log.Debug().Fields(kv).Msg(msg) }

// StatusError is a non-2xx answer from a collaborator
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

// HTTPStatus returns the collaborator status
func (e *StatusError) HTTPStatus() int { return e.Status }

// Check turns a round trip result into nil or a classified error and closes
// the body on failure. Transport errors and 5xx are Unavailable, 429 is
// TooManyRequests, 401/403 are Unauthorized, other 4xx are Rejected
func Check(resp *http.Response, err error, what string) error {
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s timed out", what)
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s unreachable", what)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	_ = resp.Body.Close()
	se := &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}

	switch {
	case resp.StatusCode >= 500:
		return perr.Wrapf(se, perr.ErrorCodeUnavailable, "%s unavailable", what)
	case resp.StatusCode == http.StatusTooManyRequests:
		return perr.Wrapf(se, perr.ErrorCodeTooManyRequests, "%s rate limited", what)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return perr.Wrapf(se, perr.ErrorCodeUnauthorized, "%s refused credentials", what)
	default:
		return perr.Wrapf(se, perr.ErrorCodeRejected, "%s rejected request", what)
	}
}

// StatusOf returns the collaborator status carried by err, or 0
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
