// Package verification implements the VerificationService against Twilio Verify v2.
// Twilio owns OTP generation, delivery, expiry and attempt counting; this
// adapter only starts challenges and submits codes for checking.
package verification

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	verifyv2 "github.com/twilio/twilio-go/rest/verify/v2"

	"gatekeeper/config"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/errors"
)

const smsChannel = "sms"

// verifyAPI is the slice of Twilio's VerifyV2 service this adapter uses.
// *verifyv2.ApiService satisfies it; tests substitute a fake.
type verifyAPI interface {
	CreateVerification(serviceSid string, params *verifyv2.CreateVerificationParams) (*verifyv2.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verifyv2.CreateVerificationCheckParams) (*verifyv2.VerifyV2VerificationCheck, error)
}

// twilioService is a concrete implementation of service.VerificationService.
type twilioService struct {
	api        verifyAPI
	serviceSID string
	logger     *slog.Logger
}

// NewTwilioService builds the Verify adapter from configuration.
func NewTwilioService(cfg *config.Config, logger *slog.Logger) (service.VerificationService, error) {
	if cfg.Twilio == nil {
		return nil, errors.New("twilio configuration is required")
	}

	restClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.Twilio.AccountSID,
		Password: cfg.Twilio.AuthToken,
	})

	return &twilioService{
		api:        restClient.VerifyV2,
		serviceSID: cfg.Twilio.VerifyServiceSID,
		logger:     logger,
	}, nil
}

// SendCode starts a Verify challenge that delivers an OTP over SMS.
// The twilio-go REST surface carries no context; the parameter keeps the
// domain contract uniform with other outbound I/O.
func (s *twilioService) SendCode(_ context.Context, phone string) error {
	params := &verifyv2.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel(smsChannel)

	verification, err := s.api.CreateVerification(s.serviceSID, params)
	if err != nil {
		return errors.Wrap(err, "failed to create verification")
	}

	if verification.Status != nil {
		s.logger.Debug("Verification challenge created", slog.String("status", *verification.Status))
	}

	return nil
}

// CheckCode submits the code for the phone's outstanding challenge.
// Twilio reports a non-matching code as status "pending"; an expired or
// consumed challenge surfaces as HTTP 404 on the check resource.
func (s *twilioService) CheckCode(_ context.Context, phone, code string) (service.VerificationStatus, error) {
	params := &verifyv2.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	check, err := s.api.CreateVerificationCheck(s.serviceSID, params)
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) && restErr.Status == http.StatusNotFound {
			return service.VerificationExpired, nil
		}

		return service.VerificationUnknown, errors.Wrap(err, "failed to check verification code")
	}

	if check.Status == nil {
		return service.VerificationUnknown, nil
	}

	switch *check.Status {
	case "approved":
		return service.VerificationApproved, nil
	case "pending":
		return service.VerificationDenied, nil
	case "canceled", "expired":
		return service.VerificationExpired, nil
	default:
		return service.VerificationUnknown, nil
	}
}
