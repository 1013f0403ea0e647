package models

import "time"

// OTP purposes.
const (
	OtpPurposeSignup        = "signup"
	OtpPurposeResetPassword = "reset-password"
)

type Otp struct {
	ID        int       `json:"id" db:"id"`
	UserID    *int      `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	Code      string    `json:"-" db:"otp"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	Purpose   string    `json:"purpose" db:"purpose"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Valid reports whether the code can still be exchanged.
func (o *Otp) Valid(now time.Time) bool {
	return !o.Used && now.Before(o.ExpiresAt)
}

type RequestOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Otp         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
