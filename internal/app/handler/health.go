package handler

import (
	"context"
	"net/http"
)

// Pinger checks a backing service
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler with named dependencies, nil ones are skipped
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	h := &HealthHandler{deps: make(map[string]Pinger)}
	for name, p := range deps {
		if p != nil {
			h.deps[name] = p
		}
	}
	return h
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	out := map[string]string{"status": "ok"}

	for name, p := range h.deps {
		if err := p.PingContext(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			out["status"] = "degraded"
			out[name] = err.Error()
			continue
		}
		out[name] = "ok"
	}

	WriteResponse(w, out, status)
}

// PingFunc adapts a plain function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}
