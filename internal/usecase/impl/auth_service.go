// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	verifier  service.VerificationService
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Verifier  service.VerificationService
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		verifier:  params.Verifier,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup creates an unverified account inside a single transaction, then
// dispatches the OTP after commit. A delivery failure never rolls the account
// back; it surfaces as ErrDeliveryFailed, distinct from storage failures.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email))

	var createdUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrDuplicateAccount, "email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check for existing account")
		}

		hashedPassword, hashErr := srv.hasher.Hash(input.Password)
		if hashErr != nil {
			return errors.Wrap(hashErr, "failed to hash password during signup")
		}

		newUser := &entity.User{
			Email:        input.Email,
			Phone:        input.Phone,
			PasswordHash: hashedPassword,
			IsVerified:   false,
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			// Concurrent signups racing on the same email or phone: the
			// unique constraint is the final arbiter.
			if errors.Is(createErr, repository.ErrDuplicateUser) {
				return errors.Wrap(domainerrors.ErrDuplicateAccount, "identity already registered")
			}

			return errors.Wrap(createErr, "failed to create user during signup")
		}

		createdUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	// OTP dispatch happens after commit so a slow or failing provider call
	// neither holds the transaction open nor undoes account creation.
	if err := srv.verifier.SendCode(ctx, createdUser.Phone); err != nil {
		srv.log(ctx).Error("OTP dispatch failed after signup",
			slog.Any("userID", createdUser.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrDeliveryFailed, err.Error())
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("userID", createdUser.ID))

	return &usecase.SignupOutput{User: createdUser}, nil
}

// Verify confirms the submitted OTP and marks the account verified inside a
// single transaction. Re-verifying an already-verified account is idempotent:
// the provider decides whether the code is approvable and the update is a
// no-op when the flag is already set.
func (srv *authService) Verify(ctx context.Context, input *usecase.VerifyInput) error {
	srv.log(ctx).Info("Starting verification", slog.String("phone", input.Phone))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, findErr := userRepo.FindByPhone(ctx, input.Phone)
		if findErr != nil {
			// Unknown phone: fail before touching the provider.
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUnknownAccount, "no account for phone")
			}

			return errors.Wrap(findErr, "failed to find user by phone")
		}

		status, checkErr := srv.verifier.CheckCode(ctx, input.Phone, input.Code)
		if checkErr != nil {
			return errors.Wrap(checkErr, "failed to check verification code")
		}
		if !status.Approved() {
			return errors.Wrapf(domainerrors.ErrInvalidCode, "verification status %s", status)
		}

		if markErr := userRepo.MarkVerified(ctx, user); markErr != nil {
			return errors.Wrap(markErr, "failed to mark user verified")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Verification failed", slog.String("phone", input.Phone), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute verification transaction")
	}

	srv.log(ctx).Debug("Verification completed", slog.String("phone", input.Phone))

	return nil
}

// Login checks credentials against the stored hash. Unknown email and wrong
// password return the same ErrInvalidCredentials so callers cannot enumerate
// accounts. The read is transaction-free.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// bcrypt comparison is constant-time and CPU-bound, hence outside any transaction.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	srv.log(ctx).Debug("User logged in", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		// Placeholder artifact: an opaque per-login value with no server-side
		// meaning. Session issuance is out of scope for this service.
		Token: uuid.NewString(),
		User:  user.Sanitized(),
	}, nil
}
