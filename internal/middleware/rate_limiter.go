package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitedTransport is an http.RoundTripper that takes a token from a
// shared limiter before handing each request to the wrapped transport.
// Requests wait for a token; they are never rejected or retried.
type RateLimitedTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

// NewRateLimitedTransport wraps next (http.DefaultTransport when nil) with a
// token bucket of the given rate per second and burst.
func NewRateLimitedTransport(next http.RoundTripper, perSecond float64, burst int) *RateLimitedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedTransport{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		next:    next,
	}
}

// RoundTrip blocks until the limiter allows the request or the request's
// context is done.
func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

// Limiter exposes the underlying token bucket.
func (t *RateLimitedTransport) Limiter() *rate.Limiter {
	return t.limiter
}
