package util

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter behind the one call the catalog needs: a
// non-blocking check that gates progress logging.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a token bucket limiter emitting r tokens per second
// with burst size b.
func NewLimiter(r float64, b int) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(r), b),
	}
}

// Allow reports whether one event may happen now. Catalog progress logging
// calls this per model and only logs when a token is available.
func (l *Limiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}
