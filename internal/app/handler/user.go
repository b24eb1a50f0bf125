package handler

import (
	"fmt"
	"net/http"

	"budget/internal/app/apperr"
	"budget/internal/app/logger"
	"budget/internal/app/model"
	"budget/internal/app/session"
)

type UserHandler struct {
	users   UserService
	gate    UserGate
	session session.Creator
}

func NewUserHandler(users UserService, gate UserGate, sm session.Creator) *UserHandler {
	return &UserHandler{
		users:   users,
		gate:    gate,
		session: sm,
	}
}

type userRequest struct {
	ID       int64  `json:"id" validate:"gte=0"`
	Name     string `json:"user_name" validate:"required,max=64"`
	Password string `json:"password" validate:"max=72"`
	Email    string `json:"email" validate:"required,max=255"`
	Address  string `json:"address" validate:"max=255"`
	Phone    string `json:"phone" validate:"required"`
}

func (in userRequest) user() *model.User {
	return &model.User{
		ID:      in.ID,
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
		Phone:   in.Phone,
	}
}

func (h *UserHandler) All(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.All(r.Context())
	if err != nil {
		writeServiceError(w, r, "Handler.User.All", err)
		return
	}
	if len(users) == 0 {
		writeServiceError(w, r, "Handler.User.All", fmt.Errorf("no users: %w", apperr.ErrNotFound))
		return
	}

	WriteResponse(w, users, http.StatusOK)
}

func (h *UserHandler) Read(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	u, err := h.users.Read(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "Handler.User.Read", err)
		return
	}

	WriteResponse(w, u, http.StatusOK)
}

// Me returns the user of the session token
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := ReadContextUser(r.Context())
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	WriteResponse(w, u, http.StatusOK)
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.Get(r.Context(), "Handler.User.Register")

	in := userRequest{}
	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	u := in.user()
	if err := h.gate.Registration(r.Context(), u, in.Password); err != nil {
		writeServiceError(w, r, "Handler.User.Register", err)
		return
	}

	u, err := h.users.Create(r.Context(), u, in.Password)
	if err != nil {
		writeServiceError(w, r, "Handler.User.Register", err)
		return
	}

	log.Info().Int64("user_id", u.ID).Msg("User registered")

	WriteResponse(w, u, http.StatusCreated)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	in := struct {
		Name     string `json:"user_name" validate:"required"`
		Password string `json:"password" validate:"required"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	u, err := h.users.Authenticate(r.Context(), in.Name, in.Password)
	if err != nil {
		writeServiceError(w, r, "Handler.User.Login", err)
		return
	}

	token, err := h.session.Create(r.Context(), u)
	if err != nil {
		writeServiceError(w, r, "Handler.User.Login", err)
		return
	}

	out := struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}{token, u}

	w.Header().Add("Authorization", "Bearer "+token)

	WriteResponse(w, out, http.StatusOK)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	in := userRequest{}
	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	u := in.user()
	if err := h.gate.ProfileUpdate(r.Context(), id, u, in.Password); err != nil {
		writeServiceError(w, r, "Handler.User.Update", err)
		return
	}

	u, err = h.users.Update(r.Context(), id, u, in.Password)
	if err != nil {
		writeServiceError(w, r, "Handler.User.Update", err)
		return
	}

	WriteResponse(w, u, http.StatusOK)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "Handler.User.Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
