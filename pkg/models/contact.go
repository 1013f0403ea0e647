package models

import "time"

// Contact statuses follow the lifecycle new -> in_progress -> resolved.
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
)

type Contact struct {
	ID            int        `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Subject       string     `json:"subject" db:"subject"`
	Message       string     `json:"message" db:"message"`
	ScreenshotURL *string    `json:"screenshot_url" db:"screenshot_url"`
	Status        string     `json:"status" db:"status"`
	RespondedAt   *time.Time `json:"responded_at" db:"responded_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

type ContactRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email" binding:"required,email"`
	Subject    string  `json:"subject" binding:"required"`
	Message    string  `json:"message" binding:"required"`
	Screenshot *string `json:"screenshot"`
}
