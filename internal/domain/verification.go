package domain

// OTPRecord is the single live verification code for an email address.
// PK: email. ExpiresAt is a Unix timestamp used as DynamoDB TTL; expiry is
// still checked at verify time because TTL deletion is only eventual.
type OTPRecord struct {
	Email       string `json:"email" dynamodbav:"email"`
	Code        string `json:"code" dynamodbav:"code"`
	ExpiresAt   int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	Attempts    int    `json:"attempts" dynamodbav:"attempts"`
	MaxAttempts int    `json:"max_attempts" dynamodbav:"max_attempts"`
}

// PendingVerification links a registration attempt to its OTP record.
// Both are created together and must be destroyed together: a surviving
// record without its counterpart is a bug.
// PK: email.
type PendingVerification struct {
	Email       string `json:"email" dynamodbav:"email"`
	FullName    string `json:"full_name" dynamodbav:"full_name"`
	UserID      string `json:"user_id" dynamodbav:"user_id"`
	ResendCount int    `json:"resend_count" dynamodbav:"resend_count"`
	LastSentAt  int64  `json:"last_sent_at" dynamodbav:"last_sent_at"`
	CreatedAt   int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt   int64  `json:"-" dynamodbav:"expires_at"` // TTL safety net
}
