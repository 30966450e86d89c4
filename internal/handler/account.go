package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/habitloop/habitloop/internal/ctxkeys"
	"github.com/habitloop/habitloop/internal/service"
	"github.com/habitloop/habitloop/internal/validation"
)

type accountHandler struct {
	authService *service.AuthService
}

func NewAccountHandler(authService *service.AuthService) *accountHandler {
	return &accountHandler{
		authService: authService,
	}
}

func (h *accountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *accountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = validation.ValidatePassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.authService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCurrentPassword) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		slog.Error("failed to change password", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	slog.Info("password changed", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (h *accountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.DeleteAccount(user.ID)
	if err != nil {
		slog.Error("failed to delete account", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	h.authService.ClearJWTCookie(w)
	slog.Info("account deleted", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "account deleted"})
}
