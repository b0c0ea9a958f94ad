// Package ratelimit paces outbound navigations per remote host so a
// multi-page scrape does not hammer the gallery site.
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// DomainLimiter applies a token-bucket rate limit per remote host.
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter allowing requestsPerSecond per host
// with the given burst capacity.
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1.0
	}
	if burst <= 0 {
		burst = 1
	}

	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until a request to urlStr may proceed, or ctx is done.
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	host := hostOf(urlStr)
	if host == "" {
		// Invalid URL, let it proceed and fail at navigation.
		return nil
	}
	return dl.getLimiter(host).Wait(ctx)
}

// Allow reports whether a request to urlStr may proceed right now.
func (dl *DomainLimiter) Allow(urlStr string) bool {
	host := hostOf(urlStr)
	if host == "" {
		return true
	}
	return dl.getLimiter(host).Allow()
}

// SetLimit overrides the rate for one host.
func (dl *DomainLimiter) SetLimit(host string, requestsPerSecond float64, burst int) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if limiter, exists := dl.limiters[host]; exists {
		limiter.SetLimit(rate.Limit(requestsPerSecond))
		limiter.SetBurst(burst)
	} else {
		dl.limiters[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

func (dl *DomainLimiter) getLimiter(host string) *rate.Limiter {
	dl.mu.RLock()
	limiter, exists := dl.limiters[host]
	dl.mu.RUnlock()

	if exists {
		return limiter
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	if limiter, exists := dl.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(dl.perHost, dl.burst)
	dl.limiters[host] = limiter
	return limiter
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
