package middleware

import (
	"context"
	"net/http"
	"strings"

	"budget/internal/app/apperr"
	"budget/internal/app/handler"
	"budget/internal/app/logger"
	"budget/internal/app/session"
)

// Auth puts the user of a valid bearer token into the request context
func Auth(sessions session.Reader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.Get(r.Context(), "Middleware.Auth")

			reqHeader := r.Header.Get("Authorization")
			token := strings.TrimPrefix(reqHeader, "Bearer ")
			if token == "" || token == reqHeader {
				log.Debug().Msg("Missing bearer token")
				handler.WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
				return
			}

			u, err := sessions.Read(r.Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				handler.WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
				return
			}

			log.Debug().Int64("user_id", u.ID).Msg("User authorized")
			r = r.WithContext(context.WithValue(r.Context(), handler.ContextKeyUser{}, u))
			next.ServeHTTP(w, r)
		})
	}
}
