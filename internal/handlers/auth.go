package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/stockroom/internal/metrics"
	"github.com/crucial707/stockroom/internal/middleware"
	"github.com/crucial707/stockroom/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth *service.AuthService
}

// ==========================
// Signup (role must be admin or user; 7-day token)
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if !decode(w, r, &input) {
		return
	}

	res, err := h.Auth.Signup(r.Context(), input)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ==========================
// Signin (same 401 for unknown email and wrong password; 1-day token)
// ==========================
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &input) {
		return
	}

	res, err := h.Auth.Signin(r.Context(), input.Email, input.Password)
	switch {
	case err == nil:
		metrics.IncSignin("ok")
	case errors.Is(err, service.ErrInvalidCredentials):
		metrics.IncSignin("rejected")
	default:
		metrics.IncSignin("error")
	}
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ==========================
// Change Password (by email, no old password)
// ==========================
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if !decode(w, r, &input) {
		return
	}

	if err := h.Auth.ChangePassword(r.Context(), input.Email, input.NewPassword); err != nil {
		serviceError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Password updated successfully")
}

// Logout is stateless; the client drops its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	message(w, http.StatusOK, "Logged out successfully")
}

// Me returns the caller as currently stored, including the role.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.UserFrom(r.Context()).Public())
}
