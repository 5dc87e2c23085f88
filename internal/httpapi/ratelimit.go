package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter keeps a token bucket per client IP. Entries idle for longer
// than idleEvict are dropped on the next sweep so the map cannot grow
// unbounded behind a gateway that rotates source ports.
type clientLimiter struct {
	mu      sync.Mutex
	perSec  rate.Limit
	burst   int
	clients map[string]*clientEntry
	swept   time.Time
}

type clientEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

const (
	idleEvict     = 10 * time.Minute
	sweepInterval = time.Minute
)

func newClientLimiter(perSec float64, burst int) *clientLimiter {
	return &clientLimiter{
		perSec:  rate.Limit(perSec),
		burst:   burst,
		clients: make(map[string]*clientEntry),
		swept:   time.Now(),
	}
}

func (cl *clientLimiter) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	if now.Sub(cl.swept) > sweepInterval {
		for k, e := range cl.clients {
			if now.Sub(e.seen) > idleEvict {
				delete(cl.clients, k)
			}
		}
		cl.swept = now
	}

	e, ok := cl.clients[key]
	if !ok {
		e = &clientEntry{lim: rate.NewLimiter(cl.perSec, cl.burst)}
		cl.clients[key] = e
	}
	e.seen = now
	return e.lim.Allow()
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func RateLimit(perSec float64, burst int) Middleware {
	cl := newClientLimiter(perSec, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.allow(clientKey(r)) {
				WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
