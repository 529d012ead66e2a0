// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a single account.
// The phone number doubles as the address for OTP delivery.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email        string    // The user's login identifier. Unique, immutable after creation.
	Phone        string    // E.164 phone number, the verification channel address. Unique.
	PasswordHash string    // bcrypt digest of the password. Never leaves the service.
	IsVerified   bool      // False until a Verify call succeeds for this phone. Never reverts.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// Sanitized returns a copy safe to hand to the delivery layer.
// The password hash is stripped; everything else is public account state.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.PasswordHash = ""

	return &clone
}
