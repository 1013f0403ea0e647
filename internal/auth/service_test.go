package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/apperrors"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/security"
)

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByEmailWithPassword(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepository) RecordLoginSuccess(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockAuthRepository) RecordLoginFailure(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockAuthRepository) UpdatePassword(userID int, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

func (m *MockAuthRepository) CountRecentOtps(email string, since time.Time) (int, error) {
	args := m.Called(email, since)
	return args.Int(0), args.Error(1)
}

func (m *MockAuthRepository) InvalidateUnusedOtps(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockAuthRepository) CreateOtp(otp *models.Otp) error {
	args := m.Called(otp)
	return args.Error(0)
}

func (m *MockAuthRepository) GetUnusedOtp(email, code string) (*models.Otp, error) {
	args := m.Called(email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Otp), args.Error(1)
}

func (m *MockAuthRepository) MarkOtpUsed(otpID int) error {
	args := m.Called(otpID)
	return args.Error(0)
}

func (m *MockAuthRepository) AppendLoginHistory(entry models.LoginHistory) error {
	args := m.Called(entry)
	return args.Error(0)
}

type stubOtpSender struct{}

func (stubOtpSender) SendOtp(string, string, time.Duration) {}

func newTestAuthService(repo Repository) *Service {
	return NewService(
		repo,
		security.NewTokenManager("test-secret", time.Hour),
		stubOtpSender{},
		5*time.Minute,
		3,
		zap.NewNop(),
	)
}

func verifiedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	return &models.User{
		ID:           1,
		Username:     "jordan",
		Email:        "jordan@example.com",
		PasswordHash: string(hash),
		Role:         "user",
		Verified:     true,
	}
}

func TestLogin(t *testing.T) {
	req := models.LoginRequest{Email: "Jordan@Example.com", Password: "password123"}

	t.Run("valid credentials return a signed token", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		user := verifiedUser(t, "password123")

		mockRepo.On("GetUserByEmailWithPassword", "jordan@example.com").Return(user, nil)
		mockRepo.On("RecordLoginSuccess", 1).Return(nil)
		mockRepo.On("AppendLoginHistory", mock.MatchedBy(func(e models.LoginHistory) bool {
			return e.Success && e.Email == "jordan@example.com"
		})).Return(nil)

		service := newTestAuthService(mockRepo)
		token, loggedIn, err := service.Login(req, "10.0.0.1", "test-agent")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, user.ID, loggedIn.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password bumps the failure counter", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		user := verifiedUser(t, "password123")

		mockRepo.On("GetUserByEmailWithPassword", "jordan@example.com").Return(user, nil)
		mockRepo.On("RecordLoginFailure", 1).Return(nil)
		mockRepo.On("AppendLoginHistory", mock.MatchedBy(func(e models.LoginHistory) bool {
			return !e.Success
		})).Return(nil)

		service := newTestAuthService(mockRepo)
		_, _, err := service.Login(models.LoginRequest{Email: req.Email, Password: "wrong"}, "", "")

		var validation *apperrors.ValidationError
		assert.True(t, errors.As(err, &validation))
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email reports not found but still records history", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockRepo.On("GetUserByEmailWithPassword", "ghost@example.com").Return(nil, nil)
		mockRepo.On("AppendLoginHistory", mock.MatchedBy(func(e models.LoginHistory) bool {
			return !e.Success && e.UserID == nil
		})).Return(nil)

		service := newTestAuthService(mockRepo)
		_, _, err := service.Login(models.LoginRequest{Email: "ghost@example.com", Password: "x"}, "", "")

		var notFound *apperrors.NotFoundError
		assert.True(t, errors.As(err, &notFound))
		mockRepo.AssertExpectations(t)
	})

	t.Run("unverified account is rejected", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		user := verifiedUser(t, "password123")
		user.Verified = false

		mockRepo.On("GetUserByEmailWithPassword", "jordan@example.com").Return(user, nil)
		mockRepo.On("AppendLoginHistory", mock.Anything).Return(nil)

		service := newTestAuthService(mockRepo)
		_, _, err := service.Login(req, "", "")

		var validation *apperrors.ValidationError
		assert.True(t, errors.As(err, &validation))
	})
}

func TestRequestOtp(t *testing.T) {
	t.Run("unknown email gets not found and no stored code", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockRepo.On("GetUserByEmail", "ghost@example.com").Return(nil, nil)

		service := newTestAuthService(mockRepo)
		err := service.RequestOtp("Ghost@Example.com")

		var notFound *apperrors.NotFoundError
		assert.True(t, errors.As(err, &notFound))
		mockRepo.AssertNotCalled(t, "CreateOtp", mock.Anything)
	})

	t.Run("hourly limit is enforced", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		user := verifiedUser(t, "password123")

		mockRepo.On("GetUserByEmail", "jordan@example.com").Return(user, nil)
		mockRepo.On("CountRecentOtps", "jordan@example.com", mock.Anything).Return(3, nil)

		service := newTestAuthService(mockRepo)
		err := service.RequestOtp("jordan@example.com")

		var conflict *apperrors.ConflictError
		assert.True(t, errors.As(err, &conflict))
		mockRepo.AssertNotCalled(t, "CreateOtp", mock.Anything)
	})

	t.Run("fresh request invalidates old codes and stores a six digit one", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		user := verifiedUser(t, "password123")

		mockRepo.On("GetUserByEmail", "jordan@example.com").Return(user, nil)
		mockRepo.On("CountRecentOtps", "jordan@example.com", mock.Anything).Return(0, nil)
		mockRepo.On("InvalidateUnusedOtps", "jordan@example.com").Return(nil)
		mockRepo.On("CreateOtp", mock.MatchedBy(func(otp *models.Otp) bool {
			return len(otp.Code) == 6 &&
				otp.Email == "jordan@example.com" &&
				otp.Purpose == models.OtpPurposeResetPassword &&
				otp.ExpiresAt.After(time.Now())
		})).Return(nil)

		service := newTestAuthService(mockRepo)
		err := service.RequestOtp("jordan@example.com")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestResetPassword(t *testing.T) {
	req := models.ResetPasswordRequest{
		Email:       "jordan@example.com",
		Otp:         "123456",
		NewPassword: "newpassword",
	}

	t.Run("unknown code is rejected", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockRepo.On("GetUnusedOtp", "jordan@example.com", "123456").Return(nil, nil)

		service := newTestAuthService(mockRepo)
		err := service.ResetPassword(req)

		var validation *apperrors.ValidationError
		assert.True(t, errors.As(err, &validation))
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockRepo.On("GetUnusedOtp", "jordan@example.com", "123456").Return(&models.Otp{
			ID:        9,
			Email:     "jordan@example.com",
			Code:      "123456",
			ExpiresAt: time.Now().Add(-time.Minute),
		}, nil)

		service := newTestAuthService(mockRepo)
		err := service.ResetPassword(req)

		var validation *apperrors.ValidationError
		assert.True(t, errors.As(err, &validation))
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})

	t.Run("valid code rehashes the password and is consumed", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		user := verifiedUser(t, "password123")

		mockRepo.On("GetUnusedOtp", "jordan@example.com", "123456").Return(&models.Otp{
			ID:        9,
			Email:     "jordan@example.com",
			Code:      "123456",
			ExpiresAt: time.Now().Add(time.Minute),
		}, nil)
		mockRepo.On("GetUserByEmail", "jordan@example.com").Return(user, nil)
		mockRepo.On("UpdatePassword", 1, mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")) == nil
		})).Return(nil)
		mockRepo.On("MarkOtpUsed", 9).Return(nil)

		service := newTestAuthService(mockRepo)
		err := service.ResetPassword(req)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jordan@example.com", NormalizeEmail("  Jordan@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
