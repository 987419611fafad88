package middleware

import (
	"net/http"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

type limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	per     time.Duration
	now     func() time.Time
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		// Expired entries for other keys pile up between requests, so
		// sweep them when the map grows past the active set.
		if len(l.windows) > 1024 {
			for k, old := range l.windows {
				if now.After(old.resetAt) {
					delete(l.windows, k)
				}
			}
		}
		w = &window{resetAt: now.Add(l.per)}
		l.windows[key] = w
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// RateLimit caps requests per client IP to limit per window. Admission and
// processing sit behind it, so a misbehaving client burns its window before
// it burns provider quota.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	l := &limiter{windows: make(map[string]*window), limit: limit, per: per, now: time.Now}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(ClientIP(r)) {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
