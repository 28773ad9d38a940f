package modeladapter

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrEmptyResponse is returned by adapters when the API answered successfully
// but the reply carried no usable text.
var ErrEmptyResponse = errors.New("empty response")

// StatusError is returned when the API responds with a non-2xx status other
// than 429.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// IsAuth reports whether the status signals a rejected or missing credential.
func (e *StatusError) IsAuth() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// RateLimitError is returned when the API responds with HTTP 429 (Too Many Requests).
// It carries an optional RetryAfter duration parsed from the Retry-After header.
// Nothing in this module waits or retries on it; it exists so callers can tell
// the user.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("rate limited: %s", e.Body)
}

// IsAuth reports whether err, or any error it wraps, is an authentication
// rejection.
func IsAuth(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.IsAuth()
}

// IsQuota reports whether err, or any error it wraps, is a quota or rate
// limit rejection.
func IsQuota(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// ParseRetryAfter parses the Retry-After header value as either seconds (integer)
// or an HTTP-date (RFC 7231). Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
