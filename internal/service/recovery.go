package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/repository"
	"github.com/habitloop/habitloop/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// Recovery flow steps. The flow only ever moves forward; any out-of-order
// request drops back to StepIdentity.
const (
	StepIdentity = 1 // waiting for username + email
	StepCode     = 2 // code issued, waiting for it
	StepPassword = 3 // code verified, waiting for the new password
)

var (
	ErrNoMatchingAccount   = errors.New("no matching account found")
	ErrInvalidRecoveryCode = errors.New("invalid or expired code")
	ErrRecoveryCooldown    = errors.New("a password reset was completed recently, please try again later")
	ErrRecoveryOutOfOrder  = errors.New("recovery flow restarted, please verify your identity again")
)

const recoveryCodeLength = 6

// RecoveryState is the explicit flow state passed between steps. Handlers
// serialize it into a signed cookie; the service itself never touches
// ambient session storage, which keeps the machine testable on its own.
type RecoveryState struct {
	Step     int    `json:"step"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RecoveryService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.TokenRepository
	emailService    *EmailService
	codeExpiry      time.Duration
	resetCooldown   time.Duration
}

func NewRecoveryService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	codeExpiry time.Duration,
	resetCooldown time.Duration,
) *RecoveryService {
	return &RecoveryService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		emailService:    emailService,
		codeExpiry:      codeExpiry,
		resetCooldown:   resetCooldown,
	}
}

// NewState starts a fresh flow at step 1.
func (s *RecoveryService) NewState() RecoveryState {
	return RecoveryState{Step: StepIdentity}
}

// VerifyIdentity is step 1: match a (username, email) pair against one
// account. The error never says which of the two fields mismatched, so the
// endpoint cannot be used to enumerate accounts. On success a single-use
// numeric code is persisted with an expiry and mailed out.
func (s *RecoveryService) VerifyIdentity(username, email string) (RecoveryState, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	email = strings.TrimSpace(strings.ToLower(email))

	state := s.NewState()

	if username == "" || validation.ValidateEmail(email) != nil {
		return state, ErrNoMatchingAccount
	}

	user, err := s.userRepository.ByUsername(username, false)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return state, ErrNoMatchingAccount
		}
		return state, fmt.Errorf("failed to look up user: %w", err)
	}

	if strings.ToLower(user.Email) != email {
		return state, ErrNoMatchingAccount
	}

	if s.resetCooldown > 0 && user.LastPasswordResetAt != nil &&
		time.Since(*user.LastPasswordResetAt) < s.resetCooldown {
		return state, ErrRecoveryCooldown
	}

	// A fresh code invalidates any outstanding one; only a single code per
	// user is live at a time.
	err = s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypeRecoveryCode)
	if err != nil {
		slog.Warn("failed to delete old recovery codes", "error", err, "user_id", user.ID)
	}

	code, err := generateRecoveryCode()
	if err != nil {
		return state, fmt.Errorf("failed to generate code: %w", err)
	}

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeRecoveryCode,
		Token:     code,
		ExpiresAt: time.Now().Add(s.codeExpiry),
	}
	err = s.tokenRepository.Create(token)
	if err != nil {
		return state, fmt.Errorf("failed to store code: %w", err)
	}

	err = s.emailService.SendRecoveryCodeEmail(user.Email, code, user.Username)
	if err != nil {
		slog.Error("failed to send recovery code email", "error", err, "user_id", user.ID)
		return state, fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("recovery code issued", "user_id", user.ID)
	return RecoveryState{
		Step:     StepCode,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// VerifyCode is step 2. Consuming the token is atomic: a correct code can be
// used once, and wrong or expired submissions produce the same generic error
// while the state stays at step 2.
func (s *RecoveryService) VerifyCode(state RecoveryState, code string) (RecoveryState, error) {
	if state.Step != StepCode || state.UserID == "" {
		return s.NewState(), ErrRecoveryOutOfOrder
	}

	code = strings.TrimSpace(code)

	_, err := s.tokenRepository.Consume(state.UserID, model.TokenTypeRecoveryCode, code)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return state, ErrInvalidRecoveryCode
		}
		return state, fmt.Errorf("failed to verify code: %w", err)
	}

	slog.Info("recovery code verified", "user_id", state.UserID)
	state.Step = StepPassword
	return state, nil
}

// ResetPassword is step 3: set the new password and finish the flow. The
// returned state is always step 1 on success (flow complete, cookie to be
// dropped) and unchanged on recoverable failure.
func (s *RecoveryService) ResetPassword(state RecoveryState, newPassword, confirmPassword string) (RecoveryState, error) {
	if state.Step != StepPassword || state.UserID == "" {
		return s.NewState(), ErrRecoveryOutOfOrder
	}

	if newPassword != confirmPassword {
		return state, ErrPasswordMismatch
	}

	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return state, err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return state, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	err = s.userRepository.UpdatePasswordHash(state.UserID, string(hashedBytes), &now)
	if err != nil {
		return state, fmt.Errorf("failed to update password: %w", err)
	}

	// Outstanding codes are dead once the password has changed.
	err = s.tokenRepository.DeleteByUserAndType(state.UserID, model.TokenTypeRecoveryCode)
	if err != nil {
		slog.Warn("failed to clear recovery codes after reset", "error", err, "user_id", state.UserID)
	}

	slog.Info("password reset completed", "user_id", state.UserID)
	return s.NewState(), nil
}

// generateRecoveryCode returns a fixed-length numeric code from crypto/rand.
func generateRecoveryCode() (string, error) {
	var b strings.Builder
	for i := 0; i < recoveryCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
