package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"

	domainerrors "github.com/bookconnect/bookconnect-server/internal/errors"
	"github.com/bookconnect/bookconnect-server/internal/metrics"
)

// rateLimit is a huma operation middleware that limits requests by client IP.
// Responds 429 Too Many Requests when the limit is exceeded.
func (s *Server) rateLimit(ctx huma.Context, next func(huma.Context)) {
	limiter := s.services.Limiter
	if limiter == nil {
		next(ctx)
		return
	}

	r, _ := humachi.Unwrap(ctx)
	key := getClientIP(r)

	if !limiter.Allow(key) {
		metrics.RateLimited.Inc()
		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"path", r.URL.Path,
		)
		err := domainerrors.RateLimited("too many searches, please slow down")
		if werr := huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, err.Message, err); werr != nil {
			s.logger.Error("failed to write rate limit response", "error", werr)
		}
		return
	}

	next(ctx)
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For (may contain multiple IPs, first is client).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
