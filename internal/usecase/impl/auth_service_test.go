package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	mockRepo "gatekeeper/internal/mocks/repository"
	mockSvc "gatekeeper/internal/mocks/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service   usecase.AuthUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
	verifier  *mockSvc.MockVerificationService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	verifier := mockSvc.NewMockVerificationService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewAuthService(AuthServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Verifier:  verifier,
		Logger:    logger,
	})

	return authServiceFixtures{
		service:   svc,
		txManager: txManager,
		userRepo:  userRepo,
		hasher:    hasher,
		verifier:  verifier,
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.SignupInput{
		Email:    "test@example.com",
		Phone:    "+886912345678",
		Password: "Password123!",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrUserNotFound)

			fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					user.ID = uuid.New()
				}).
				Return(nil)

			return fn(mockFactory)
		})

	// OTP goes out only after the transaction commits.
	fx.verifier.EXPECT().SendCode(ctx, input.Phone).Return(nil)

	output, err := fx.service.Signup(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, input.Phone, output.User.Phone)
	assert.False(t, output.User.IsVerified)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.SignupInput{
		Email:    "taken@example.com",
		Phone:    "+886912345678",
		Password: "Password123!",
	}

	existing := &entity.User{ID: uuid.New(), Email: input.Email}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(existing, nil)

			return fn(mockFactory)
		})

	// No hash, no insert, and crucially no OTP dispatch.
	output, err := fx.service.Signup(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateAccount))
	fx.verifier.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything)
}

func TestAuthService_Signup_ConcurrentDuplicate(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.SignupInput{
		Email:    "race@example.com",
		Phone:    "+886912345678",
		Password: "Password123!",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			// The pre-check saw nothing, but another signup won the insert.
			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrUserNotFound)

			fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Return(repository.ErrDuplicateUser)

			return fn(mockFactory)
		})

	output, err := fx.service.Signup(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateAccount))
	fx.verifier.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything)
}

func TestAuthService_Signup_DeliveryFailed(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.SignupInput{
		Email:    "test@example.com",
		Phone:    "+886912345678",
		Password: "Password123!",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrUserNotFound)

			fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					user.ID = uuid.New()
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.verifier.EXPECT().
		SendCode(ctx, input.Phone).
		Return(errors.New("provider unreachable"))

	// The account row is already committed; the caller learns the code never
	// went out, not that signup failed.
	output, err := fx.service.Signup(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrDeliveryFailed))
	assert.False(t, errors.Is(err, domainerrors.ErrDuplicateAccount))
}

func TestAuthService_Signup_PersistenceFailed(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.SignupInput{
		Email:    "test@example.com",
		Phone:    "+886912345678",
		Password: "Password123!",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrUserNotFound)

			fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Return(domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "failed to create user"))

			return fn(mockFactory)
		})

	output, err := fx.service.Signup(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)

	// A storage failure keeps its own identity, distinct from both the
	// duplicate and the delivery outcomes.
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	assert.False(t, errors.Is(err, domainerrors.ErrDuplicateAccount))
	assert.False(t, errors.Is(err, domainerrors.ErrDeliveryFailed))
	fx.verifier.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything)
}

func TestAuthService_Verify_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.VerifyInput{
		Phone: "+886912345678",
		Code:  "123456",
	}

	user := &entity.User{ID: uuid.New(), Phone: input.Phone, IsVerified: false}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByPhone(ctx, input.Phone).
				Return(user, nil)

			fx.verifier.EXPECT().
				CheckCode(ctx, input.Phone, input.Code).
				Return(service.VerificationApproved, nil)

			mockUserRepo.EXPECT().
				MarkVerified(ctx, user).
				Return(nil)

			return fn(mockFactory)
		})

	err := fx.service.Verify(ctx, input)

	require.NoError(t, err)
}

func TestAuthService_Verify_UnknownPhone(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.VerifyInput{
		Phone: "+886900000000",
		Code:  "123456",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByPhone(ctx, input.Phone).
				Return(nil, repository.ErrUserNotFound)

			return fn(mockFactory)
		})

	err := fx.service.Verify(ctx, input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnknownAccount))
	// The provider is never consulted for a phone we do not know.
	fx.verifier.AssertNotCalled(t, "CheckCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Verify_CodeDenied(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.VerifyInput{
		Phone: "+886912345678",
		Code:  "000000",
	}

	user := &entity.User{ID: uuid.New(), Phone: input.Phone}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByPhone(ctx, input.Phone).
				Return(user, nil)

			fx.verifier.EXPECT().
				CheckCode(ctx, input.Phone, input.Code).
				Return(service.VerificationDenied, nil)

			return fn(mockFactory)
		})

	err := fx.service.Verify(ctx, input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCode))
}

func TestAuthService_Verify_CodeExpired(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.VerifyInput{
		Phone: "+886912345678",
		Code:  "123456",
	}

	user := &entity.User{ID: uuid.New(), Phone: input.Phone}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByPhone(ctx, input.Phone).
				Return(user, nil)

			fx.verifier.EXPECT().
				CheckCode(ctx, input.Phone, input.Code).
				Return(service.VerificationExpired, nil)

			return fn(mockFactory)
		})

	err := fx.service.Verify(ctx, input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCode))
}

func TestAuthService_Verify_AlreadyVerified(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.VerifyInput{
		Phone: "+886912345678",
		Code:  "123456",
	}

	// Re-verifying an already-verified account succeeds; the update is a no-op.
	user := &entity.User{ID: uuid.New(), Phone: input.Phone, IsVerified: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByPhone(ctx, input.Phone).
				Return(user, nil)

			fx.verifier.EXPECT().
				CheckCode(ctx, input.Phone, input.Code).
				Return(service.VerificationApproved, nil)

			mockUserRepo.EXPECT().
				MarkVerified(ctx, user).
				Return(nil)

			return fn(mockFactory)
		})

	err := fx.service.Verify(ctx, input)

	require.NoError(t, err)
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Phone:        "+886912345678",
		PasswordHash: "hashed_password",
		IsVerified:   true,
	}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(input.Password, user.PasswordHash).Return(true)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.NotEmpty(t, output.Token)
	assert.Equal(t, user.Email, output.User.Email)
	assert.True(t, output.User.IsVerified)
	// The hash never leaves the service.
	assert.Empty(t, output.User.PasswordHash)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "wrong",
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: "hashed_password",
	}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(input.Password, user.PasswordHash).Return(false)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "Password123!",
	}

	fx.userRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(nil, repository.ErrUserNotFound)

	// Unknown email answers with the same error as a wrong password.
	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
