package models

import "time"

// LoginHistory is an append-only record of a single login attempt.
type LoginHistory struct {
	ID        int       `json:"id" db:"id"`
	UserID    *int      `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	IPAddress *string   `json:"ip_address" db:"ip_address"`
	UserAgent *string   `json:"user_agent" db:"user_agent"`
	Success   bool      `json:"success" db:"success"`
	LoginAt   time.Time `json:"login_at" db:"login_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
