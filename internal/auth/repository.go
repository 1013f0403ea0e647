package auth

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/tohidahmed666-design/AssetMGMT/internal/repository"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

var userColumns = []any{
	"id", "username", "email", "role", "verified", "phone", "department",
	"last_login", "failed_login_attempts", "last_password_change",
	"created_at",
}

// Repository covers the three auth-adjacent tables: users (credential
// reads and counters), otps, and login_history.
type Repository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByEmailWithPassword(email string) (*models.User, error)
	RecordLoginSuccess(userID int) error
	RecordLoginFailure(userID int) error
	UpdatePassword(userID int, passwordHash string) error

	CountRecentOtps(email string, since time.Time) (int, error)
	InvalidateUnusedOtps(email string) error
	CreateOtp(otp *models.Otp) error
	GetUnusedOtp(email, code string) (*models.Otp, error)
	MarkOtpUsed(otpID int) error

	AppendLoginHistory(entry models.LoginHistory) error
}

type authRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) Repository {
	return &authRepository{repository: r}
}

func (r *authRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.getUser(email, userColumns)
}

// GetUserByEmailWithPassword is the opt-in path that also reads the
// password hash; default reads never expose it.
func (r *authRepository) GetUserByEmailWithPassword(email string) (*models.User, error) {
	columns := append([]any{}, userColumns...)
	columns = append(columns, "password_hash")
	return r.getUser(email, columns)
}

func (r *authRepository) getUser(email string, columns []any) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.
		Select(columns...).
		From("users").
		Where(goqu.Ex{"email": email})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *authRepository) RecordLoginSuccess(userID int) error {
	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(goqu.Record{
			"failed_login_attempts": 0,
			"last_login":            time.Now(),
		}).
		Where(goqu.Ex{"id": userID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to record login success: %w", err)
	}

	return nil
}

func (r *authRepository) RecordLoginFailure(userID int) error {
	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(goqu.Record{
			"failed_login_attempts": goqu.L("failed_login_attempts + 1"),
		}).
		Where(goqu.Ex{"id": userID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	return nil
}

func (r *authRepository) UpdatePassword(userID int, passwordHash string) error {
	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(goqu.Record{
			"password_hash":        passwordHash,
			"last_password_change": time.Now(),
		}).
		Where(goqu.Ex{"id": userID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (r *authRepository) CountRecentOtps(email string, since time.Time) (int, error) {
	var count int
	query := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("otps").
		Where(goqu.Ex{"email": email}).
		Where(goqu.C("created_at").Gte(since))

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent OTPs: %w", err)
	}

	return count, nil
}

// InvalidateUnusedOtps marks stale codes used instead of deleting them,
// so the rows stay visible to CountRecentOtps and the hourly limit
// counts every code issued, not just the consumed ones.
func (r *authRepository) InvalidateUnusedOtps(email string) error {
	query := r.repository.GoquDBWrapper.
		Update("otps").
		Set(goqu.Record{"used": true}).
		Where(goqu.Ex{"email": email, "used": false})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to invalidate OTPs: %w", err)
	}

	return nil
}

func (r *authRepository) CreateOtp(otp *models.Otp) error {
	query := r.repository.GoquDBWrapper.Insert("otps").
		Rows(goqu.Record{
			"user_id":    otp.UserID,
			"email":      otp.Email,
			"otp":        otp.Code,
			"expires_at": otp.ExpiresAt,
			"used":       false,
			"purpose":    otp.Purpose,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert OTP: %w", err)
	}

	return nil
}

func (r *authRepository) GetUnusedOtp(email, code string) (*models.Otp, error) {
	var otp models.Otp
	query := r.repository.GoquDBWrapper.
		Select("id", "user_id", "email", "otp", "expires_at", "used", "purpose", "created_at").
		From("otps").
		Where(goqu.Ex{"email": email, "otp": code, "used": false})

	found, err := query.Executor().ScanStruct(&otp)
	if err != nil {
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &otp, nil
}

func (r *authRepository) MarkOtpUsed(otpID int) error {
	query := r.repository.GoquDBWrapper.
		Update("otps").
		Set(goqu.Record{"used": true}).
		Where(goqu.Ex{"id": otpID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to mark OTP used: %w", err)
	}

	return nil
}

func (r *authRepository) AppendLoginHistory(entry models.LoginHistory) error {
	query := r.repository.GoquDBWrapper.Insert("login_history").
		Rows(goqu.Record{
			"user_id":    entry.UserID,
			"email":      entry.Email,
			"ip_address": entry.IPAddress,
			"user_agent": entry.UserAgent,
			"success":    entry.Success,
			"login_at":   time.Now(),
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert login history: %w", err)
	}

	return nil
}
