package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	custommiddleware "gatekeeper/internal/delivery/http/middleware"
	"gatekeeper/internal/delivery/http/validator"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	mockUC "gatekeeper/internal/mocks/usecase"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the handler into a minimal echo instance with the same
// validator and error handler the real server uses, so status codes and
// response envelopes match production behavior.
func newTestServer(t *testing.T) (*echo.Echo, *mockUC.MockAuthUsecase) {
	t.Helper()

	authUC := mockUC.NewMockAuthUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewAuthHandler(AuthHandlerParams{
		AuthUC: authUC,
		Logger: logger,
	})

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = custommiddleware.NewErrorMiddleware(logger).HandleHTTPError

	e.GET("/health", HealthCheck)
	e.POST("/signup", h.Signup)
	e.POST("/verify", h.Verify)
	e.POST("/login", h.Login)

	return e, authUC
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e, authUC := newTestServer(t)

	authUC.EXPECT().
		Signup(mock.Anything, &usecase.SignupInput{
			Email:    "test@example.com",
			Phone:    "+886912345678",
			Password: "Password123!",
		}).
		Return(&usecase.SignupOutput{User: &entity.User{ID: uuid.New()}}, nil)

	rec := doJSON(e, http.MethodPost, "/signup",
		`{"email":"test@example.com","phone":"+886912345678","password":"Password123!"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	// Neither the password nor the created row leaks back.
	assert.NotContains(t, rec.Body.String(), "Password123!")
}

func TestAuthHandler_Signup_InvalidEmail(t *testing.T) {
	e, authUC := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/signup",
		`{"email":"not-an-email","phone":"+886912345678","password":"Password123!"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	authUC.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestAuthHandler_Signup_InvalidPhone(t *testing.T) {
	e, authUC := newTestServer(t)

	// Not E.164: validation rejects it before the usecase sees it.
	rec := doJSON(e, http.MethodPost, "/signup",
		`{"email":"test@example.com","phone":"0912345678","password":"Password123!"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	authUC.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestAuthHandler_Signup_DuplicateAccount(t *testing.T) {
	e, authUC := newTestServer(t)

	authUC.EXPECT().
		Signup(mock.Anything, mock.AnythingOfType("*usecase.SignupInput")).
		Return(nil, errors.Wrap(domainerrors.ErrDuplicateAccount, "email already registered"))

	rec := doJSON(e, http.MethodPost, "/signup",
		`{"email":"taken@example.com","phone":"+886912345678","password":"Password123!"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_ACCOUNT")
}

func TestAuthHandler_Signup_DeliveryFailed(t *testing.T) {
	e, authUC := newTestServer(t)

	authUC.EXPECT().
		Signup(mock.Anything, mock.AnythingOfType("*usecase.SignupInput")).
		Return(nil, errors.Wrap(domainerrors.ErrDeliveryFailed, "provider unreachable"))

	rec := doJSON(e, http.MethodPost, "/signup",
		`{"email":"test@example.com","phone":"+886912345678","password":"Password123!"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELIVERY_FAILED")
}

func TestAuthHandler_Signup_PersistenceFailed(t *testing.T) {
	e, authUC := newTestServer(t)

	authUC.EXPECT().
		Signup(mock.Anything, mock.AnythingOfType("*usecase.SignupInput")).
		Return(nil, domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "failed to create user"))

	rec := doJSON(e, http.MethodPost, "/signup",
		`{"email":"test@example.com","phone":"+886912345678","password":"Password123!"}`)

	// A storage failure is its own kind, not a delivery failure.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATABASE_EXECUTE_FAILED")
	assert.NotContains(t, rec.Body.String(), "DELIVERY_FAILED")
}

func TestAuthHandler_Verify_Success(t *testing.T) {
	e, authUC := newTestServer(t)

	authUC.EXPECT().
		Verify(mock.Anything, &usecase.VerifyInput{
			Phone: "+886912345678",
			Code:  "123456",
		}).
		Return(nil)

	rec := doJSON(e, http.MethodPost, "/verify",
		`{"phone":"+886912345678","code":"123456"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestAuthHandler_Verify_InvalidCode(t *testing.T) {
	e, authUC := newTestServer(t)

	authUC.EXPECT().
		Verify(mock.Anything, mock.AnythingOfType("*usecase.VerifyInput")).
		Return(errors.Wrap(domainerrors.ErrInvalidCode, "verification status denied"))

	rec := doJSON(e, http.MethodPost, "/verify",
		`{"phone":"+886912345678","code":"000000"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CODE")
}

func TestAuthHandler_Verify_UnknownAccount(t *testing.T) {
	e, authUC := newTestServer(t)

	authUC.EXPECT().
		Verify(mock.Anything, mock.AnythingOfType("*usecase.VerifyInput")).
		Return(errors.Wrap(domainerrors.ErrUnknownAccount, "no account for phone"))

	rec := doJSON(e, http.MethodPost, "/verify",
		`{"phone":"+886900000000","code":"123456"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_ACCOUNT")
}

func TestAuthHandler_Verify_MissingCode(t *testing.T) {
	e, authUC := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/verify", `{"phone":"+886912345678"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	authUC.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e, authUC := newTestServer(t)

	user := &entity.User{
		ID:         uuid.New(),
		Email:      "test@example.com",
		Phone:      "+886912345678",
		IsVerified: true,
	}

	authUC.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{
			Email:    "test@example.com",
			Password: "Password123!",
		}).
		Return(&usecase.LoginOutput{Token: "opaque-token", User: user}, nil)

	rec := doJSON(e, http.MethodPost, "/login",
		`{"email":"test@example.com","password":"Password123!"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"token":"opaque-token"`)
	assert.Contains(t, body, `"email":"test@example.com"`)
	assert.Contains(t, body, `"is_verified":true`)
	assert.NotContains(t, body, "password")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e, authUC := newTestServer(t)

	authUC.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed"))

	rec := doJSON(e, http.MethodPost, "/login",
		`{"email":"test@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	e, authUC := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/login", `{"email":"test@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	authUC.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
