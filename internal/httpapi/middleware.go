package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/agenda-generator/internal/logging"
)

// RequireServiceToken guards POST /agendas/generate with a bearer token
// checked against the argon2id hash configured via
// AGENDA_SERVICE_TOKEN_HASH (§6).
func RequireServiceToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	base := defaultLogger(logger)
	respond := newResponder(base)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(extractBearerToken(r))
			if token == "" {
				respond.loggerFor(r.Context()).ErrorContext(r.Context(), "service token missing")
				respond.writeError(r.Context(), w, http.StatusUnauthorized, "認証トークンを指定してください。")
				return
			}

			if err := VerifyServiceToken(tokenHash, token); err != nil {
				respond.loggerFor(r.Context()).ErrorContext(r.Context(), "service token invalid", "error", err)
				respond.writeError(r.Context(), w, http.StatusUnauthorized, "認証トークンが無効です。")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

// RequestLogger attaches a request scoped logger via internal/logging's
// shared context key, so request-scoped fields reach agenda.Service's own
// logging (internal/agenda/logging.go reads from the same package).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			requestLogger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := logging.ContextWithLogger(r.Context(), requestLogger)
			start := time.Now()
			requestLogger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			requestLogger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
