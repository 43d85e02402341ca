package domain

import "time"

type Session struct {
	SessionID        string    `json:"id" dynamodbav:"session_id"`
	UserID           string    `json:"user_id" dynamodbav:"user_id"`
	Remember         bool      `json:"remember" dynamodbav:"remember"`
	Enable           bool      `json:"enable" dynamodbav:"enable"`
	RefreshToken     string    `json:"-" dynamodbav:"refresh_token"`
	RefreshExpiresAt int64     `json:"refresh_expires_at" dynamodbav:"refresh_expires_at"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
	User             *User     `json:"user,omitempty" dynamodbav:"-"`
}

// AuthSnapshot is the denormalized session view returned to clients after
// login. It is a convenience for skipping the login screen, never an
// authorization source — the JWT and session record stay authoritative.
type AuthSnapshot struct {
	AccountID     string    `json:"account_id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	Authenticated bool      `json:"is_authenticated"`
	EmailVerified bool      `json:"verified"`
	EstablishedAt time.Time `json:"established_at"`
}
