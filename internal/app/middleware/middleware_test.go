package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"budget/internal/app/handler"
	"budget/internal/app/logger"
	"budget/internal/app/model"
	"budget/internal/app/session"
)

type stubSessions map[string]*model.User

func (s stubSessions) Read(_ context.Context, token string) (*model.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, session.ErrInvalidToken
}

func TestAuth(t *testing.T) {
	sessions := stubSessions{"good": {ID: 3, Name: "alice"}}

	var seen *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = handler.ReadContextUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Auth(sessions)(next)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest(http.MethodGet, "/user/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, int64(3), seen.ID)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestLog_AccessLine(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, false, false)

	h := Log(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cl := logger.Get(r.Context(), "Test")
		cl.Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	out := buf.String()
	assert.Contains(t, out, `"request_id"`)
	assert.Contains(t, out, `"component":"Test"`)
	assert.Contains(t, out, `"status":418`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
