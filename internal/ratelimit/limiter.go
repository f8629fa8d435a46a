// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outbound requests, typically per host, so paginated
// gallery walks do not hammer the source site.
type RateLimiter interface {
	// Wait blocks until a request to urlStr may proceed, or the context
	// is cancelled.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request to urlStr may proceed right now.
	Allow(urlStr string) bool
}

// HostLimiter keeps one token bucket per host.
type HostLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	refill  rate.Limit
	burst   int
}

// NewHostLimiter builds a limiter allowing requestsPerSecond per host
// with the given burst. Non-positive arguments get gentle defaults.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if burst <= 0 {
		burst = 4
	}

	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		refill:  rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// NewIntervalLimiter expresses "at most one request per interval per host"
// as a token bucket with burst 1.
func NewIntervalLimiter(interval time.Duration) *HostLimiter {
	if interval <= 0 {
		return NewHostLimiter(0, 0)
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		refill:  rate.Every(interval),
		burst:   1,
	}
}

// Wait blocks until a request to urlStr's host may proceed. URLs without
// a parseable host pass through; they fail properly at request time.
func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	host := hostOf(urlStr)
	if host == "" {
		return nil
	}
	return hl.bucketFor(host).Wait(ctx)
}

// Allow reports whether a request to urlStr's host may proceed right now.
func (hl *HostLimiter) Allow(urlStr string) bool {
	host := hostOf(urlStr)
	if host == "" {
		return true
	}
	return hl.bucketFor(host).Allow()
}

// bucketFor returns the bucket for host, creating it on first sight.
func (hl *HostLimiter) bucketFor(host string) *rate.Limiter {
	hl.mu.RLock()
	b := hl.buckets[host]
	hl.mu.RUnlock()
	if b != nil {
		return b
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()
	if b := hl.buckets[host]; b != nil {
		return b
	}
	b = rate.NewLimiter(hl.refill, hl.burst)
	hl.buckets[host] = b
	return b
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
