package middleware

import (
	"net"
	"net/http"
	"sync"

	"ticketbooth/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

// RateLimit applies a per-client-IP token bucket.
func RateLimit(config utils.RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	burst := config.Burst
	if burst <= 0 {
		burst = 5
	}
	limiter := &rateLimiter{
		rps:   rate.Limit(config.RPS),
		burst: burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.getLimiter(ip).Allow() {
				logger.Warn("Rate limit exceeded",
					zap.String("ip", ip),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseTooManyRequests(w, "Too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
