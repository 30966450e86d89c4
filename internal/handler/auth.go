package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/service"
	"github.com/habitloop/habitloop/internal/validation"
)

type authHandler struct {
	authService *service.AuthService
	jwtExpiry   time.Duration
}

func NewAuthHandler(authService *service.AuthService, jwtExpiry time.Duration) *authHandler {
	return &authHandler{
		authService: authService,
		jwtExpiry:   jwtExpiry,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = validation.ValidateUsername(req.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = validation.ValidateEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a valid email address")
		return
	}
	err = validation.ValidatePassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Signup(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameAlreadyExists),
			errors.Is(err, service.ErrEmailAlreadyExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			slog.Error("signup failed", "error", err, "username", req.Username)
			writeError(w, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	h.logIn(w, user)
	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	h.logIn(w, user)
	slog.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *authHandler) logIn(w http.ResponseWriter, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		return
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.jwtExpiry))
}
