package handler

import (
	"context"
	"errors"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
	"github.com/ivanpodgorny/campusdelivery/internal/validator"
	"net/http"
)

type Admin struct {
	authenticator Authenticator
	provider      AdminProvider
	validator     Validator
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (token string, err error)
}

func NewAdmin(a Authenticator, p AdminProvider, v Validator) *Admin {
	return &Admin{
		authenticator: a,
		provider:      p,
		validator:     v,
	}
}

// Login проверяет учетные данные администратора и возвращает токен.
// При неверных данных возвращает ответ с кодом 401.
func (h *Admin) Login(w http.ResponseWriter, r *http.Request) {
	req := LoginRequest{}
	if err := readJSONBody(w, r, &req); err != nil {
		validationFailed(w, map[string]string{"body": "Invalid JSON body"})

		return
	}

	if err := h.validator.Struct(r.Context(), &req); err != nil {
		validationFailed(w, validator.Messages(err))

		return
	}

	token, err := h.authenticator.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, inerr.ErrInvalidCredentials) {
		unauthorized(w, "Invalid credentials")

		return
	}

	if err != nil {
		serverError(w, "Failed to login")

		return
	}

	success(w, response{Message: "Admin login successful", Token: token}, http.StatusOK)
}

// Profile возвращает данные аутентифицированного администратора.
func (h *Admin) Profile(w http.ResponseWriter, r *http.Request) {
	admin, err := h.provider.Admin(r)
	if err != nil {
		unauthorized(w, "Token is not valid")

		return
	}

	success(w, response{Admin: admin}, http.StatusOK)
}
