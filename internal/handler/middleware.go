package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arthurnavah/account-api/shared/auth"
)

type sessionClaimsKey struct{}

// sessionFromContext returns the session claims attached by requireSignIn.
func sessionFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey{}).(*auth.SessionClaims)
	return claims, ok
}

// requireSignIn rejects any request that does not carry a valid session
// token in the Authorization header. On success the decoded claims are
// attached to the request context. The check is stateless; it never touches
// the database.
func (h *Handler) requireSignIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.respondMessage(w, http.StatusUnauthorized, "no token provided")
			return
		}

		// Accept both "Bearer <token>" and a bare token.
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := h.jwtAuth.ValidateSessionToken(tokenStr, h.cfg.JWTSecret)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				h.respondMessage(w, http.StatusUnauthorized, "token has expired")
			case errors.Is(err, jwt.ErrTokenMalformed),
				errors.Is(err, jwt.ErrTokenSignatureInvalid):
				h.respondMessage(w, http.StatusUnauthorized, "invalid token")
			default:
				h.respondMessage(w, http.StatusUnauthorized, "authentication failed")
			}
			return
		}

		ctx := context.WithValue(r.Context(), sessionClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const requestIDHeader = "X-Request-ID"

// withRequestID attaches a request ID to the response and a request-scoped
// logger carrying it to the context.
func (h *Handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		logger := h.logger.With().Str("request_id", requestID).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

// withLogging logs one line per request with method, path, status and
// duration.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.Ctx(r.Context())

		start := time.Now()

		lw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r)

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Send()
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
