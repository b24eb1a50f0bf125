package middleware

import (
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"budget/internal/app/logger"
)

// Log attaches a request scoped logger with a request id and writes an access log line
func Log(l logger.Logger) func(next http.Handler) http.Handler {
	chain := alice.New(
		hlog.NewHandler(l.Logger),
		hlog.RequestIDHandler("request_id", "X-Request-Id"),
		hlog.RemoteAddrHandler("remote_addr"),
		hlog.MethodHandler("method"),
		hlog.URLHandler("url"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			level := zerolog.InfoLevel
			if status >= http.StatusInternalServerError {
				level = zerolog.ErrorLevel
			}
			hlog.FromRequest(r).WithLevel(level).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("Request served")
		}),
	)

	return chain.Then
}
