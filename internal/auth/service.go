package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/apperrors"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/security"
)

// OtpSender mails a one-time code. Delivery is best-effort and handled
// by the implementation.
type OtpSender interface {
	SendOtp(email, code string, expiry time.Duration)
}

type Service struct {
	repo      Repository
	tokens    *security.TokenManager
	mail      OtpSender
	otpExpiry time.Duration
	otpLimit  int
	log       *zap.Logger
}

func NewService(repo Repository, tokens *security.TokenManager, mail OtpSender, otpExpiry time.Duration, otpLimit int, log *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		mail:      mail,
		otpExpiry: otpExpiry,
		otpLimit:  otpLimit,
		log:       log,
	}
}

// NormalizeEmail is the canonical form every email is stored and looked
// up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials, maintains the failed-attempt counter and
// appends a history row for every attempt. History writes are
// best-effort and never fail the login.
func (s *Service) Login(req models.LoginRequest, ip, userAgent string) (string, *models.User, error) {
	email := NormalizeEmail(req.Email)

	user, err := s.repo.GetUserByEmailWithPassword(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		s.recordHistory(nil, email, ip, userAgent, false)
		return "", nil, apperrors.NewNotFoundError("User not found")
	}

	if !user.Verified {
		s.recordHistory(user, email, ip, userAgent, false)
		return "", nil, apperrors.NewValidationError("Account not verified")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordHistory(user, email, ip, userAgent, false)
		if err := s.repo.RecordLoginFailure(user.ID); err != nil {
			s.log.Warn("Failed to bump failed login counter", zap.Error(err))
		}
		return "", nil, apperrors.NewValidationError("Invalid password")
	}

	if err := s.repo.RecordLoginSuccess(user.ID); err != nil {
		s.log.Warn("Failed to record login success", zap.Error(err))
	}
	s.recordHistory(user, email, ip, userAgent, true)

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}

// RequestOtp issues a fresh reset-password code. Unknown emails get a
// not-found and no OTP row; previous unused codes are invalidated so
// only the newest one can be exchanged.
func (s *Service) RequestOtp(email string) error {
	email = NormalizeEmail(email)

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewNotFoundError("User not found")
	}

	recent, err := s.repo.CountRecentOtps(email, time.Now().Add(-time.Hour))
	if err != nil {
		return err
	}
	if recent >= s.otpLimit {
		return apperrors.NewConflictError("Too many OTP requests. Try later.", "")
	}

	if err := s.repo.InvalidateUnusedOtps(email); err != nil {
		return err
	}

	code, err := generateOtp()
	if err != nil {
		return err
	}

	otp := &models.Otp{
		UserID:    &user.ID,
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpExpiry),
		Purpose:   models.OtpPurposeResetPassword,
	}
	if err := s.repo.CreateOtp(otp); err != nil {
		return err
	}

	go s.mail.SendOtp(email, code, s.otpExpiry)

	return nil
}

// ResetPassword exchanges a valid OTP for a new password hash. A code is
// valid only while unused and before its expiry; once consumed it is
// marked used and can never be replayed.
func (s *Service) ResetPassword(req models.ResetPasswordRequest) error {
	email := NormalizeEmail(req.Email)

	otp, err := s.repo.GetUnusedOtp(email, req.Otp)
	if err != nil {
		return err
	}
	if otp == nil || !otp.Valid(time.Now()) {
		return apperrors.NewValidationError("Invalid or expired OTP")
	}

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewNotFoundError("User not found")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(user.ID, string(hashed)); err != nil {
		return err
	}

	if err := s.repo.MarkOtpUsed(otp.ID); err != nil {
		s.log.Warn("Failed to mark OTP as used", zap.Error(err))
	}

	return nil
}

func (s *Service) recordHistory(user *models.User, email, ip, userAgent string, success bool) {
	entry := models.LoginHistory{
		Email:   email,
		Success: success,
	}
	if user != nil {
		entry.UserID = &user.ID
	}
	if ip != "" {
		entry.IPAddress = &ip
	}
	if userAgent != "" {
		entry.UserAgent = &userAgent
	}

	if err := s.repo.AppendLoginHistory(entry); err != nil {
		s.log.Warn("Login history save failed", zap.Error(err))
	}
}

func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
