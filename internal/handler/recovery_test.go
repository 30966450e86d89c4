package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/habitloop/habitloop/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecoveryHandler(stateExpiry time.Duration) *recoveryHandler {
	return NewRecoveryHandler(nil, "test-secret-test-secret-test-secret", stateExpiry, false)
}

func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/auth/recover/code", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestRecoveryStateCookieRoundTrip(t *testing.T) {
	h := newTestRecoveryHandler(30 * time.Minute)

	state := service.RecoveryState{
		Step:     service.StepCode,
		UserID:   "user-1",
		Username: "alice",
		Email:    "alice@example.com",
	}

	w := httptest.NewRecorder()
	require.NoError(t, h.setStateCookie(w, state))

	got := h.stateFromCookie(requestWithCookies(w))
	assert.Equal(t, state, got)
}

func TestRecoveryStateMissingCookieIsStepOne(t *testing.T) {
	h := newTestRecoveryHandler(30 * time.Minute)

	r := httptest.NewRequest(http.MethodPost, "/auth/recover/code", nil)
	got := h.stateFromCookie(r)
	assert.Equal(t, service.StepIdentity, got.Step)
	assert.Empty(t, got.UserID)
}

func TestRecoveryStateTamperedCookieIsStepOne(t *testing.T) {
	h := newTestRecoveryHandler(30 * time.Minute)

	w := httptest.NewRecorder()
	require.NoError(t, h.setStateCookie(w, service.RecoveryState{Step: service.StepPassword, UserID: "user-1"}))

	r := httptest.NewRequest(http.MethodPost, "/auth/recover/code", nil)
	for _, c := range w.Result().Cookies() {
		c.Value += "tampered"
		r.AddCookie(c)
	}

	got := h.stateFromCookie(r)
	assert.Equal(t, service.StepIdentity, got.Step)
}

func TestRecoveryStateWrongKeyIsStepOne(t *testing.T) {
	signer := newTestRecoveryHandler(30 * time.Minute)
	w := httptest.NewRecorder()
	require.NoError(t, signer.setStateCookie(w, service.RecoveryState{Step: service.StepCode, UserID: "user-1"}))

	verifier := NewRecoveryHandler(nil, "a-different-secret-entirely-here", 30*time.Minute, false)
	got := verifier.stateFromCookie(requestWithCookies(w))
	assert.Equal(t, service.StepIdentity, got.Step)
}

func TestRecoveryStateExpiredCookieIsStepOne(t *testing.T) {
	h := newTestRecoveryHandler(-time.Minute)

	w := httptest.NewRecorder()
	require.NoError(t, h.setStateCookie(w, service.RecoveryState{Step: service.StepCode, UserID: "user-1"}))

	got := h.stateFromCookie(requestWithCookies(w))
	assert.Equal(t, service.StepIdentity, got.Step)
}
