package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusCode extracts an HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}

// IsRateLimitBody reports whether an error body carries a quota status.
// Some gateways answer quota exhaustion with 403 or 503 instead of 429.
func IsRateLimitBody(body string) bool {
	b := strings.ToLower(body)
	return strings.Contains(b, "resource_exhausted") ||
		strings.Contains(b, "quota exceeded") ||
		strings.Contains(b, "exceeded your current quota")
}

func IsRateLimited(status int, body string) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if status >= 200 && status < 300 {
		return false
	}
	return IsRateLimitBody(body)
}

func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
