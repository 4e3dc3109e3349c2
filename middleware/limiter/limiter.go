package limiter

import (
	"sync"

	"github.com/sweetpotato0/uidraft/middleware"
)

// ErrRateLimitExceeded indicates too many requests are in flight
var ErrRateLimitExceeded = middleware.ErrRateLimitExceeded

// RateLimiter rejects requests while maxInFlight requests are already
// running. Rejected requests are not queued or retried.
type RateLimiter struct {
	mu          sync.Mutex
	maxInFlight int
	inFlight    int
	counter     int
}

// NewRateLimiter creates a rate limiting middleware
func NewRateLimiter(maxInFlight int) *RateLimiter {
	return &RateLimiter{maxInFlight: maxInFlight}
}

// Name returns the middleware name
func (m *RateLimiter) Name() string {
	return "RateLimiter"
}

// Execute checks rate limit
func (m *RateLimiter) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if !m.acquire() {
		return ErrRateLimitExceeded
	}
	defer m.release()
	return next(ctx)
}

func (m *RateLimiter) acquire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight >= m.maxInFlight {
		return false
	}
	m.inFlight++
	m.counter++
	return true
}

func (m *RateLimiter) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
}

// InFlight returns the number of requests currently running
func (m *RateLimiter) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// Reset resets the accepted request counter
func (m *RateLimiter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter = 0
}

// GetCounter returns the number of requests accepted since the last reset
func (m *RateLimiter) GetCounter() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter
}
