// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gatekeeper/internal/domain/entity"
)

// Domain-specific persistence errors. The application layer branches on these
// without depending on database-specific error types.
var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when an insert collides with the unique
	// email or phone constraint. The constraint is the final arbiter for
	// concurrent signups racing on the same identity.
	ErrDuplicateUser = errors.New("user already exists")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByPhone retrieves a single user by their phone number.
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// MarkVerified sets is_verified = true for the user. Unconditional, so
	// re-verifying an already-verified account is a no-op update.
	MarkVerified(ctx context.Context, user *entity.User) error
}
