package domain

import "time"

// Account statuses.
const (
	StatusPending = "pending_verification"
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	UserID         string     `json:"id" dynamodbav:"user_id"`
	Email          string     `json:"email" dynamodbav:"email"`
	FullName       string     `json:"full_name" dynamodbav:"full_name"`
	Phone          *string    `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash   string     `json:"-" dynamodbav:"password_hash"`
	Role           string     `json:"role" dynamodbav:"role"`
	Status         string     `json:"status" dynamodbav:"status"`
	EmailConfirmed bool       `json:"email_confirmed" dynamodbav:"email_confirmed"`
	AuthProvider   string     `json:"auth_provider,omitempty" dynamodbav:"auth_provider"` // "local" | "google"
	GoogleSub      string     `json:"-"                       dynamodbav:"google_sub"`
	Enable         bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// RegisterRequest carries the registration form fields. The password rule
// (min 8, at least one uppercase, at least one digit or symbol) is registered
// as the custom `password` validation in internal/pkg/validate.
type RegisterRequest struct {
	FullName        string  `json:"full_name" validate:"required,personname"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,password"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	AcceptTerms     bool    `json:"accept_terms" validate:"required"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,e164"`
}
