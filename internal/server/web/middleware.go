package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dsmirnov/authkeeper/internal/server/models"
)

// Authenticate verifies an access token and puts its claims into the
// request context. The token comes from the Authorization bearer header,
// falling back to the accessToken cookie. This check is pure CPU work: no
// store round-trip happens here, which is the point of the stateless
// access-token design.
func (s *Server) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r.Header.Get("Authorization"))
		if raw == "" {
			if c, err := r.Cookie(accessTokenCookie); err == nil {
				raw = c.Value
			}
		}
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		claims, err := s.tokens.VerifyAccessToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), accessClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidateRefreshToken verifies the refresh token from its dedicated cookie
// and then checks that the backing session record still exists. A store
// failure counts as revoked; this path fails closed.
func (s *Server) ValidateRefreshToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(refreshTokenCookie)
		if err != nil || c.Value == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		claims, err := s.tokens.VerifyRefreshToken(c.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		if err := s.sessions.CheckRefreshSession(r.Context(), claims); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), refreshClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CanAccess allows the request through only when the verified claims carry
// one of the given roles. Role mismatch is an authorization failure (403),
// distinct from the authentication failures above (401).
func (s *Server) CanAccess(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := AccessClaimsFromCtx(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
				return
			}

			role, err := models.ParseRole(claims.Role)
			if err != nil {
				writeError(w, http.StatusForbidden, "forbidden", "forbidden")
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests emits one structured record per handled request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

func extractBearer(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
