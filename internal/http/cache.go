package http

import (
	"bytes"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"financas/internal/log"
)

// cachedResponse is one stored report payload.
type cachedResponse struct {
	contentType string
	body        []byte
}

// cacheReports serves report GETs from the response cache. Only 200
// responses are stored; the cache is purged whenever a mutating API
// request succeeds, so reads after a write always recompute.
func (s *Server) cacheReports(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if resp, ok := s.reportsCache.Get(key); ok {
			w.Header().Set("Content-Type", resp.contentType)
			w.WriteHeader(http.StatusOK)
			w.Write(resp.body)
			return
		}

		var buf bytes.Buffer
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&buf)
		next.ServeHTTP(ww, r)

		if ww.Status() == http.StatusOK {
			s.reportsCache.Set(key, cachedResponse{
				contentType: ww.Header().Get("Content-Type"),
				body:        buf.Bytes(),
			})
		}
	})
}

// invalidateReportsOnWrite purges the report cache after a successful
// mutating request.
func (s *Server) invalidateReportsOnWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if ww.Status() < 400 {
			s.reportsCache.Purge()
		}
	})
}

// rateLimitWrites applies the per-client limiter to mutating requests.
// Reads stay unthrottled.
func (s *Server) rateLimitWrites(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(
		clientAddr,
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.FromContext(r.Context())
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, r.RemoteAddr,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
			)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		},
	)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

// clientAddr returns the client IP without the ephemeral port, so all
// connections from one host share a limiter window.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
