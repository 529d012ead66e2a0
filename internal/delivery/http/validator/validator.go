// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	domainerrors "gatekeeper/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// CustomValidator wraps a single validator instance for reuse across requests.
type CustomValidator struct {
	validate *playground.Validate
}

// New builds the echo validator.
func New() *CustomValidator {
	return &CustomValidator{validate: playground.New()}
}

// Validate checks the bound request struct against its `validate` tags.
// Failures surface as the domain validation error so the error middleware
// answers with the stable VALIDATION_FAILED code.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
