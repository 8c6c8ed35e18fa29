package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"dayTracker/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rateLimitWindow = time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mtx       sync.Mutex
	clients   map[string]*client
	rpm       int
	lastSweep time.Time
}

// allow takes one token for ip and reports the tokens left afterwards.
func (s *limiterStore) allow(ip string, now time.Time) (bool, int, time.Duration) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	// Idle clients are dropped once per window.
	if now.Sub(s.lastSweep) > rateLimitWindow {
		for key, c := range s.clients {
			if now.Sub(c.lastSeen) > rateLimitWindow {
				delete(s.clients, key)
			}
		}
		s.lastSweep = now
	}

	c, ok := s.clients[ip]
	if !ok {
		c = &client{
			limiter: rate.NewLimiter(rate.Every(rateLimitWindow/time.Duration(s.rpm)), s.rpm),
		}
		s.clients[ip] = c
	}
	c.lastSeen = now

	reservation := c.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, 0, delay
	}

	remaining := int(math.Floor(c.limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, 0
}

// RateLimit allows each client ip rpm requests per minute as a token bucket
// refilled evenly over the minute. rpm <= 0 disables the limit.
func RateLimit(rpm int) func(http.Handler) http.Handler {
	store := &limiterStore{
		clients: make(map[string]*client),
		rpm:     rpm,
	}

	return func(next http.Handler) http.Handler {
		if rpm <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIp(r)
			now := time.Now()

			allowed, remaining, retryAfter := store.allow(ip, now)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(retryAfter).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))

				logger.Warn("HTTP: Rate limit exceeded",
					zap.String("client_ip", ip),
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Int("retry_after", seconds))

				writeError(w, r, http.StatusTooManyRequests,
					"Too many requests. Please try again later.",
					map[string]any{"code": "RATE_LIMIT_EXCEEDED", "retryAfter": seconds})
				return
			}

			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(rateLimitWindow).Unix(), 10))
			next.ServeHTTP(w, r)
		})
	}
}
