package github

import (
	"errors"
	"io"
	"net/http"
)

// GHStatusError is a non-2xx GitHub response
type GHStatusError struct {
	Status int
	Body   string
	Err    error
}

func (e *GHStatusError) Error() string { return e.Err.Error() }

func (e *GHStatusError) Unwrap() error { return e.Err }

// HTTPStatus returns the GitHub response status
func (e *GHStatusError) HTTPStatus() int { return e.Status }

// IsRateLimited reports whether err carries a 429 or 403 GitHub response
func IsRateLimited(err error) bool {
	switch StatusOf(err) {
	case http.StatusTooManyRequests, http.StatusForbidden:
		return true
	}
	return false
}

// StatusOf returns the GitHub HTTP status carried by err, or 0
func StatusOf(err error) int {
	var gse *GHStatusError
	if errors.As(err, &gse) {
		return gse.Status
	}
	return 0
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
