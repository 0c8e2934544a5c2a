package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Rrens/coworking-reservation/internal/api/response"
	"github.com/rs/zerolog/log"
)

// Limiter counts requests per key within a window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	Limit() int
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	rateLimiter Limiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting based on client IP
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			// Fail open so a Redis outage does not take the API down
			log.Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.rateLimiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(resetTime).Seconds())+1))
			response.Error(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP relies on chi's RealIP having rewritten RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
