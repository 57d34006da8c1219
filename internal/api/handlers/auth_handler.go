package handlers

import (
	"net/http"

	"github.com/taskhub/engine/internal/api/middleware"
	"github.com/taskhub/engine/internal/api/types"
	"github.com/taskhub/engine/internal/services"
	appErr "github.com/taskhub/engine/pkg/errors"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.Signup(r.Context(), services.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		middleware.RecordAuthAttempt("signup", string(appErr.CodeOf(err)))
		writeError(w, r, err)
		return
	}

	middleware.RecordAuthAttempt("signup", "success")
	writeJSON(w, http.StatusCreated, types.AuthResponse{
		Message: "User registered successfully",
		Token:   res.Token,
		User:    types.NewUserView(res.User),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), services.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		middleware.RecordAuthAttempt("login", string(appErr.CodeOf(err)))
		writeError(w, r, err)
		return
	}

	middleware.RecordAuthAttempt("login", "success")
	writeJSON(w, http.StatusOK, types.AuthResponse{
		Message: "Login successful",
		Token:   res.Token,
		User:    types.NewUserView(res.User),
	})
}
