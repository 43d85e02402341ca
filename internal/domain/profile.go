package domain

import "time"

// Profile is the public-facing user document, denormalized from the account.
// PK: user_id.
type Profile struct {
	UserID      string             `json:"id" dynamodbav:"user_id"`
	FullName    string             `json:"full_name" dynamodbav:"full_name"`
	Email       string             `json:"email" dynamodbav:"email"`
	DisplayName string             `json:"display_name" dynamodbav:"display_name"`
	Role        string             `json:"role" dynamodbav:"role"`
	Status      string             `json:"status" dynamodbav:"status"`
	AccountType string             `json:"account_type" dynamodbav:"account_type"`
	Preferences ProfilePreferences `json:"preferences" dynamodbav:"preferences"`
	Details     ProfileDetails     `json:"profile" dynamodbav:"details"`
	Stats       ProfileStats       `json:"stats" dynamodbav:"stats"`
	CreatedAt   time.Time          `json:"created" dynamodbav:"created_at"`
	LastLoginAt *time.Time         `json:"last_login,omitempty" dynamodbav:"last_login_at"`
}

type ProfilePreferences struct {
	Notifications bool   `json:"notifications" dynamodbav:"notifications"`
	Newsletter    bool   `json:"newsletter" dynamodbav:"newsletter"`
	Theme         string `json:"theme" dynamodbav:"theme"`
}

type ProfileDetails struct {
	Bio      string `json:"bio" dynamodbav:"bio"`
	Location string `json:"location" dynamodbav:"location"`
	Website  string `json:"website" dynamodbav:"website"`
	Avatar   string `json:"avatar" dynamodbav:"avatar"` // S3 object key
}

type ProfileStats struct {
	ArticlesSubmitted int `json:"articles_submitted" dynamodbav:"articles_submitted"`
	ArticlesVerified  int `json:"articles_verified" dynamodbav:"articles_verified"`
	ReputationScore   int `json:"reputation_score" dynamodbav:"reputation_score"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Theme       *string `json:"theme" validate:"omitempty,oneof=light dark"`
	Newsletter  *bool   `json:"newsletter"`
	Notify      *bool   `json:"notifications"`
}
