// Package github posts intervention comments through the GitHub REST v3 API
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"
	str "toxicbot/internal/platform/strings"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	baseURLDefault   = "https://api.github.com"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "toxicbot"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxWait          = 30 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Token is sent as "Authorization: token <Token>"; empty means anonymous
	Token string

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal GitHub REST client with retries and rate limit handling
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = o.Timeout
	return &Client{
		http:  hc,
		opts:  o,
		log:   *logger.Named("github"),
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Do issues a JSON request with auth headers, retries, and rate limit handling.
// in is marshalled as the body when non-nil; out receives the decoded 2xx body when non-nil.
// POST is only repeated when GitHub cannot have acted on it: a failed dial or a
// rate limit answer. Timeouts and 5xx may hide a created comment and end the call
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "github encode body")
		}
		payload = b
	}

	url := c.opts.BaseURL + path
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "github request cancelled")
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "github new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/vnd.github+json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "token "+c.opts.Token)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempt) || ctx.Err() != nil || !(idempotent(method) || neverSent(err)) {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "github %s %s failed", method, path)
			}
			back := c.backoff(attempt)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempt).Msg("github transport error retrying")
			if err := c.sleep(ctx, back); err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnavailable, "github retry cancelled")
			}
			continue
		}

		q := readQuota(resp.Header)
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("latency", lat).
			Int("rate_remaining", q.remaining).
			Time("rate_reset", q.reset).
			Dur("retry_after", q.retryAfter).
			Msg("github http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return decodeAndClose(resp.Body, out)

		case q.throttled(resp.StatusCode):
			if !c.shouldRetry(attempt) {
				return perr.Wrap(statusError(resp), perr.ErrorCodeTooManyRequests, "github rate limited")
			}
			wait := q.wait(c.now())
			if wait <= 0 {
				wait = c.backoff(attempt)
			}
			if wait > maxWait {
				return perr.Wrapf(statusError(resp), perr.ErrorCodeTooManyRequests, "github rate limited for %s", wait.Round(time.Second))
			}
			_ = drainAndClose(resp.Body)
			c.log.Warn().Dur("sleep", wait).Msg("github rate limited backing off")
			if err := c.sleep(ctx, wait); err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnavailable, "github retry cancelled")
			}

		case resp.StatusCode >= 500:
			if !c.shouldRetry(attempt) || !idempotent(method) {
				return perr.Wrap(statusError(resp), perr.ErrorCodeUnavailable, "github server error")
			}
			back := c.backoff(attempt)
			_ = drainAndClose(resp.Body)
			c.log.Warn().Int("status", resp.StatusCode).Dur("retry_in", back).Int("attempt", attempt).Msg("github transient error retrying")
			if err := c.sleep(ctx, back); err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnavailable, "github retry cancelled")
			}

		default:
			return perr.Wrap(statusError(resp), perr.ErrorCodeRejected, "github rejected request")
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > maxWait {
		return maxWait
	}
	return d
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// neverSent reports transport failures that happen before a request is written
func neverSent(err error) bool {
	var dns *net.DNSError
	if errors.As(err, &dns) {
		return true
	}
	var op *net.OpError
	return errors.As(err, &op) && op.Op == "dial"
}

func decodeAndClose(rc io.ReadCloser, out any) error {
	defer rc.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
		return nil
	}
	if err := json.NewDecoder(rc).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return perr.Wrap(err, perr.ErrorCodeJSON, "github decode response")
	}
	return nil
}

// statusError reads a small tail of the body for diagnostics and closes it
func statusError(resp *http.Response) *GHStatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	_ = resp.Body.Close()
	var msg struct {
		Message string `json:"message"`
	}
	text := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
		text = msg.Message
	}
	return &GHStatusError{
		Status: resp.StatusCode,
		Body:   string(body),
		Err:    fmt.Errorf("github status %d: %s", resp.StatusCode, str.Clip(text, 200)),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
