// Package ratelimit provides per-client request limiting for the API.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"financas/internal/cache"
)

// Config holds rate limiter configuration.
type Config struct {
	// RequestsPerMinute caps mutating requests per client IP.
	RequestsPerMinute int
	// MaxClients bounds how many client IPs are tracked at once.
	MaxClients int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		MaxClients:        1024,
	}
}

// Limiter counts requests per client IP in fixed one-minute windows.
// Client state lives in an LRU cache, so idle clients age out on
// their own.
type Limiter struct {
	clients           *cache.LRUCache[*window]
	requestsPerMinute int
}

type window struct {
	mu       sync.Mutex
	start    time.Time
	requests int
}

func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.MaxClients <= 0 {
		config.MaxClients = DefaultConfig().MaxClients
	}
	return &Limiter{
		clients:           cache.NewLRUCache[*window](config.MaxClients, 10*time.Minute),
		requestsPerMinute: config.RequestsPerMinute,
	}
}

// Allow reports whether a request from clientIP fits the current
// window.
func (l *Limiter) Allow(clientIP string) bool {
	w, ok := l.clients.Get(clientIP)
	if !ok {
		w = &window{start: time.Now()}
		l.clients.Set(clientIP, w)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.Sub(w.start) > time.Minute {
		w.start = now
		w.requests = 0
	}
	w.requests++
	return w.requests <= l.requestsPerMinute
}

// ActiveClients returns how many client IPs are currently tracked.
func (l *Limiter) ActiveClients() int {
	return l.clients.Size()
}

// CleanExpired lets a cache.Manager expire idle client windows.
func (l *Limiter) CleanExpired() int {
	return l.clients.CleanExpired()
}

// Middleware limits requests, reading the client IP with extractIP.
// onLimit handles rejected requests; when nil a plain 429 with
// Retry-After is written.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(extractIP(r)) {
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
