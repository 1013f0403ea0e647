package models

import "time"

type User struct {
	ID                  int        `json:"id" db:"id"`
	Username            string     `json:"username" db:"username"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	Role                string     `json:"role" db:"role"`
	Verified            bool       `json:"verified" db:"verified"`
	Phone               *string    `json:"phone" db:"phone"`
	Department          *string    `json:"department" db:"department"`
	LastLogin           *time.Time `json:"last_login" db:"last_login"`
	FailedLoginAttempts int        `json:"failed_login_attempts" db:"failed_login_attempts"`
	LastPasswordChange  *time.Time `json:"last_password_change" db:"last_password_change"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

type CreateUserRequest struct {
	Username   string  `json:"username" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6"`
	Role       string  `json:"role"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

type UpdateUserRequest struct {
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	Role       *string `json:"role"`
	Verified   *bool   `json:"verified"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

// UserChanges collects the columns an update actually touches.
type UserChanges struct {
	Username     *string
	PasswordHash *string
	Role         *string
	Verified     *bool
	Phone        *string
	Department   *string
}

func (c *UserChanges) HasChanges() bool {
	return c.Username != nil || c.PasswordHash != nil || c.Role != nil ||
		c.Verified != nil || c.Phone != nil || c.Department != nil
}
