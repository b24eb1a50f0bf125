package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"budget/internal/app/handler"
	mw "budget/internal/app/middleware"
)

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(mw.Log(a.logger))

	auth := mw.Auth(a.session)

	uh := handler.NewUserHandler(a.userService, a.gate, a.session)
	hh := handler.NewHealthHandler(a.healthDeps())

	r.Get("/health", hh.Health)

	r.Route("/user", func(r chi.Router) {
		r.Get("/", uh.All)
		r.Post("/register", uh.Register)
		r.Post("/login", uh.Login)
		r.With(auth).Get("/me", uh.Me)
		r.Get("/{id}", uh.Read)
		r.Put("/{id}", uh.Update)
		r.Delete("/{id}", uh.Delete)
	})

	r.Route("/expense", ledgerRoutes(handler.NewLedgerHandler(a.expenseService, a.gate)))
	r.Route("/revenue", ledgerRoutes(handler.NewLedgerHandler(a.revenueService, a.gate)))

	return r
}

func ledgerRoutes(h *handler.LedgerHandler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.All)
		r.Post("/", h.Create)
		r.Get("/user/{userID}", h.AllByUserID)
		r.Get("/{id}", h.Read)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	}
}
