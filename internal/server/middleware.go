// internal/server/middleware.go
package server

import (
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	apperrors "promptprofit-audit/internal/common/errors"

	"golang.org/x/time/rate"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				s.logger.Error("panic serving request", map[string]interface{}{
					"panic": p,
					"path":  r.URL.Path,
					"stack": string(debug.Stack()),
				})
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": apperrors.MessageServerError})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if r.URL.Path == "/health" {
			return
		}
		s.logger.Debug("request served", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"bytes":      rec.bytes,
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

// rateLimit applies the per-client limiter to API routes only.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") && !s.limiter.allow(r) {
			s.errors.HandleHTTPError(w, r, apperrors.NewThrottledError("rate limit exceeded for client"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu         sync.Mutex
	clients    map[string]*limiterEntry
	rps        rate.Limit
	burst      int
	trustProxy bool
	lastSweep  time.Time
}

func newIPLimiter(rps float64, burst int, trustProxy bool) *ipLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ipLimiter{
		clients:    make(map[string]*limiterEntry),
		rps:        rate.Limit(rps),
		burst:      burst,
		trustProxy: trustProxy,
		lastSweep:  time.Now(),
	}
}

func (l *ipLimiter) allow(r *http.Request) bool {
	ip := clientIP(r, l.trustProxy)
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, e := range l.clients {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.clients[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
