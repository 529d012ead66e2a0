package service

import "context"

// VerificationStatus is the provider's verdict on a submitted code.
type VerificationStatus string

const (
	// VerificationApproved means the code matched the outstanding challenge.
	VerificationApproved VerificationStatus = "approved"
	// VerificationDenied means the code did not match.
	VerificationDenied VerificationStatus = "denied"
	// VerificationExpired means the challenge is no longer checkable.
	VerificationExpired VerificationStatus = "expired"
	// VerificationUnknown covers any other provider response.
	VerificationUnknown VerificationStatus = "unknown"
)

// Approved reports whether the status allows marking the account verified.
func (s VerificationStatus) Approved() bool {
	return s == VerificationApproved
}

// VerificationService issues and checks one-time codes through an external
// provider. Every call is unreliable network I/O and can fail independently
// of storage state, so callers keep these calls outside transactions.
type VerificationService interface {
	// SendCode asks the provider to deliver a fresh OTP to the phone number.
	SendCode(ctx context.Context, phone string) error

	// CheckCode submits a code for the phone's outstanding challenge and
	// returns the provider's verdict.
	CheckCode(ctx context.Context, phone, code string) (VerificationStatus, error)
}
