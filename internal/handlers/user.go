package handlers

import (
	"net/http"

	"github.com/crucial707/stockroom/internal/service"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Auth *service.AuthService
}

// ListUsers serves both /api/auth/users and /api/employees.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Auth.ListUsers(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// DeleteUser is admin-only.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Auth.DeleteUser(r.Context(), id); err != nil {
		serviceError(w, r, err)
		return
	}
	message(w, http.StatusOK, "User deleted successfully")
}
