package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking

func isUniqueConstraintViolation(err error) bool {
	// GORM's translated duplicate key error covers the common path.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// Fall back to the PostgreSQL unique_violation SQLSTATE and message
	// patterns for drivers that bypass GORM's error translation.
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "23505") ||
		strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint")
}

func isNotNullConstraintViolation(err error) bool {
	// PostgreSQL not_null_violation SQLSTATE and message patterns.
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "23502") ||
		strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null")
}
