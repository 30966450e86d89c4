package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/habitloop/habitloop/internal/service"
	"github.com/habitloop/habitloop/internal/validation"
)

const recoveryCookieName = "recovery_state"

// recoveryHandler drives the three-step account recovery flow. The flow
// state lives in a signed short-lived cookie, so a lost or tampered cookie
// simply restarts the flow at step 1.
type recoveryHandler struct {
	recoveryService *service.RecoveryService
	jwtSecret       string
	stateExpiry     time.Duration
	isProduction    bool
}

func NewRecoveryHandler(recoveryService *service.RecoveryService, jwtSecret string, stateExpiry time.Duration, isProduction bool) *recoveryHandler {
	return &recoveryHandler{
		recoveryService: recoveryService,
		jwtSecret:       jwtSecret,
		stateExpiry:     stateExpiry,
		isProduction:    isProduction,
	}
}

// Identity is step 1: match username + email, mail out a code.
func (h *recoveryHandler) Identity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.recoveryService.VerifyIdentity(req.Username, req.Email)
	if err != nil {
		h.clearStateCookie(w)
		switch {
		case errors.Is(err, service.ErrNoMatchingAccount):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRecoveryCooldown):
			writeError(w, http.StatusTooManyRequests, err.Error())
		default:
			slog.Error("recovery identity check failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to start recovery")
		}
		return
	}

	err = h.setStateCookie(w, state)
	if err != nil {
		slog.Error("failed to sign recovery state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start recovery")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"step":    state.Step,
		"message": "A recovery code has been sent to your email",
	})
}

// Code is step 2: verify the mailed code.
func (h *recoveryHandler) Code(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.recoveryService.VerifyCode(h.stateFromCookie(r), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecoveryOutOfOrder):
			h.clearStateCookie(w)
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidRecoveryCode):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			slog.Error("recovery code check failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to verify code")
		}
		return
	}

	err = h.setStateCookie(w, state)
	if err != nil {
		slog.Error("failed to sign recovery state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to verify code")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"step":    state.Step,
		"message": "Code verified, set your new password",
	})
}

// Password is step 3: set the new password and end the flow.
func (h *recoveryHandler) Password(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = validation.ValidatePassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.recoveryService.ResetPassword(h.stateFromCookie(r), req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecoveryOutOfOrder):
			h.clearStateCookie(w)
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrPasswordMismatch):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("password reset failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to reset password")
		}
		return
	}

	h.clearStateCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset, you can now log in"})
}

// setStateCookie signs the flow state into a short-lived cookie. Expiry is
// enforced both by the cookie and by the embedded JWT claim.
func (h *recoveryHandler) setStateCookie(w http.ResponseWriter, state service.RecoveryState) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"step":     state.Step,
		"user_id":  state.UserID,
		"username": state.Username,
		"email":    state.Email,
		"exp":      time.Now().Add(h.stateExpiry).Unix(),
		"iat":      time.Now().Unix(),
	})

	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     recoveryCookieName,
		Value:    signed,
		Path:     "/auth/recover",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.stateExpiry.Seconds()),
	})
	return nil
}

// stateFromCookie recovers the flow state. Anything invalid degrades to a
// fresh step 1 state, which the service rejects as out of order.
func (h *recoveryHandler) stateFromCookie(r *http.Request) service.RecoveryState {
	cookie, err := r.Cookie(recoveryCookieName)
	if err != nil {
		return h.recoveryService.NewState()
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return h.recoveryService.NewState()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return h.recoveryService.NewState()
	}

	step, _ := claims["step"].(float64)
	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)

	return service.RecoveryState{
		Step:     int(step),
		UserID:   userID,
		Username: username,
		Email:    email,
	}
}

func (h *recoveryHandler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     recoveryCookieName,
		Value:    "",
		Path:     "/auth/recover",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
