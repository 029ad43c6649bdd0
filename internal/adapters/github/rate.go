package github

import (
	"net/http"
	"strconv"
	"time"
)

// quota is what GitHub says about our rate limit on one response
type quota struct {
	remaining  int // -1 when the header is absent
	reset      time.Time
	retryAfter time.Duration
}

func readQuota(h http.Header) quota {
	q := quota{remaining: -1}
	if n, err := strconv.Atoi(h.Get("X-RateLimit-Remaining")); err == nil {
		q.remaining = n
	}
	if sec, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil && sec > 0 {
		q.reset = time.Unix(sec, 0).UTC()
	}
	if sec, err := strconv.Atoi(h.Get("Retry-After")); err == nil && sec > 0 {
		q.retryAfter = time.Duration(sec) * time.Second
	}
	return q
}

// throttled separates a secondary or primary rate limit from a plain 403
func (q quota) throttled(status int) bool {
	switch status {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return q.retryAfter > 0 || q.remaining == 0
	}
	return false
}

// wait is how long GitHub asked us to hold off, 0 when it did not say
func (q quota) wait(now time.Time) time.Duration {
	if q.retryAfter > 0 {
		return q.retryAfter
	}
	if q.remaining == 0 && q.reset.After(now) {
		return q.reset.Sub(now)
	}
	return 0
}
