// Package netutil holds transport-level helpers for Bot API calls.
package netutil

import (
	"errors"
	"net"
	"net/url"
	"syscall"
)

// ShouldRetry reports whether a transport error is transient: timeouts, failed
// dials and connections reset before a response arrived. HTTP status errors
// are never retried here.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() || opErr.Op == "dial" {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
		return ShouldRetry(urlErr.Err)
	}

	return false
}
