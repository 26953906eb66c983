package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Error is a backend response with a non-2xx status. The delete rollback
// policy only needs failures split into "unreachable" vs "other"; an Error
// is always "other" - the backend was reached and answered.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// IsUnreachable reports whether the error means the backend could not be
// reached at all (connection refused, DNS failure, timeout), as opposed to
// the backend answering with a failure.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
