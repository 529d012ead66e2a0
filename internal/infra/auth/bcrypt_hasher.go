// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"gatekeeper/config"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/errors"
)

// forbiddenWords are never allowed inside a password, case-insensitively.
// Checked only when a password strength policy is configured.
var forbiddenWords = []string{"password", "qwerty", "123456"}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	var policy *config.PasswordStrengthConfig
	if cfg != nil {
		policy = cfg.PasswordStrength
	}

	return &bcryptHasher{
		cost:   cost,
		policy: policy,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt handles salt generation, so equal plaintexts produce distinct digests.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if err := h.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		// bcrypt refuses inputs beyond 72 bytes. That is a caller input
		// problem, not a hashing fault.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domainerrors.ErrValidationFailed.WrapMessage("password exceeds the maximum length")
		}

		return "", errors.Wrap(err, "failed to hash password")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
// bcrypt's comparison is constant-time.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks the password against the configured policy.
// Without a policy, any non-empty password passes.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if password == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("password must not be empty")
	}

	if h.policy == nil {
		return nil
	}

	if h.policy.MinLength > 0 && len(password) < h.policy.MinLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password is too short")
	}
	if h.policy.MaxLength > 0 && len(password) > h.policy.MaxLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password is too long")
	}

	lowered := strings.ToLower(password)
	for _, word := range forbiddenWords {
		if strings.Contains(lowered, word) {
			return domainerrors.ErrPasswordStrength.WrapMessage("password contains a forbidden word")
		}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if h.policy.RequireUppercase && !hasUpper {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs an uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLower {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a lowercase letter")
	}
	if h.policy.RequireNumbers && !hasNumber {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a digit")
	}
	if h.policy.RequireSpecial && !hasSpecial {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a special character")
	}

	return nil
}
