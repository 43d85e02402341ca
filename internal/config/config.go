package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	// Refresh-token lifetime depends on the login's "remember me" flag:
	// remembered sessions are durable, others expire with the workday.
	RefreshExpiryRemembered time.Duration
	RefreshExpirySession    time.Duration

	OTPExpiry         time.Duration
	OTPMaxAttempts    int
	ResendCooldown    time.Duration
	MaxResendPerFlow  int
	PendingExpiry     time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	FactCheckURL     string
	FactCheckAPIKey  string
	FactCheckTimeout time.Duration

	GoogleClientID string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users                string
	Sessions             string
	OTPs                 string
	PendingVerifications string
	Profiles             string
	Articles             string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Users:                getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:             getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			OTPs:                 getEnv("DYNAMO_TABLE_OTPS", "otps"),
			PendingVerifications: getEnv("DYNAMO_TABLE_PENDING_VERIFICATIONS", "pending_verifications"),
			Profiles:             getEnv("DYNAMO_TABLE_PROFILES", "profiles"),
			Articles:             getEnv("DYNAMO_TABLE_ARTICLES", "articles"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "credinews-media"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		RefreshExpiryRemembered: getEnvDuration("REFRESH_EXPIRY_REMEMBERED", 30*24*time.Hour),
		RefreshExpirySession:    getEnvDuration("REFRESH_EXPIRY_SESSION", 12*time.Hour),

		OTPExpiry:        getEnvDuration("OTP_EXPIRY", 10*time.Minute),
		OTPMaxAttempts:   getEnvInt("OTP_MAX_ATTEMPTS", 3),
		ResendCooldown:   getEnvDuration("OTP_RESEND_COOLDOWN", 60*time.Second),
		MaxResendPerFlow: getEnvInt("OTP_MAX_RESENDS", 5),
		PendingExpiry:    getEnvDuration("PENDING_VERIFICATION_EXPIRY", 24*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@credinews.io"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		FactCheckURL:     getEnv("FACT_CHECK_URL", "http://localhost:5000"),
		FactCheckAPIKey:  getEnv("FACT_CHECK_API_KEY", ""),
		FactCheckTimeout: getEnvDuration("FACT_CHECK_TIMEOUT", 30*time.Second),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
