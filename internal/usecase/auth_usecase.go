// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gatekeeper/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to create a new account.
type SignupInput struct {
	Email    string
	Phone    string
	Password string
}

// VerifyInput defines the data required to confirm phone possession.
type VerifyInput struct {
	Phone string
	Code  string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// SignupOutput returns the newly created account's basic information.
type SignupOutput struct {
	User *entity.User
}

// LoginOutput returns the authenticated account and an opaque artifact.
// The token is a placeholder success indicator; real session issuance is a
// separate concern this service does not own.
type LoginOutput struct {
	Token string
	User  *entity.User
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Signup creates an unverified account and dispatches an OTP to its phone.
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)

	// Verify checks a submitted OTP and marks the account verified.
	Verify(ctx context.Context, input *VerifyInput) error

	// Login checks credentials and returns the sanitized account.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
