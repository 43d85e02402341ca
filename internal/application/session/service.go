package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/credinews/credinews-api/internal/application/otp"
	"github.com/credinews/credinews-api/internal/domain"
	"github.com/credinews/credinews-api/internal/infrastructure/google"
	"github.com/credinews/credinews-api/internal/infrastructure/mail"
	"github.com/credinews/credinews-api/internal/pkg/id"
	pkgtoken "github.com/credinews/credinews-api/internal/pkg/token"
	"github.com/credinews/credinews-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Remember bool   `json:"remember"`
}

type LoginResult struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
	Snapshot     domain.AuthSnapshot
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
}

type profileStore interface {
	TouchLastLogin(ctx context.Context, userID string) error
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type googleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type codeManager interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, submitted string) (otp.VerifyResult, error)
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (bearer, newRefreshToken string, err error)
	RequestPasswordReset(ctx context.Context, email string) (*mail.Delivery, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) (otp.VerifyResult, error)
}

type service struct {
	users          userStore
	sessions       sessionStore
	profiles       profileStore
	jwtProvider    jwtSigner
	googleVerifier googleVerifier
	codes          codeManager
	notifier       mail.Notifier

	refreshRemembered time.Duration
	refreshSession    time.Duration
}

type ServiceDeps struct {
	UserRepo          userStore
	SessionRepo       sessionStore
	ProfileRepo       profileStore
	JWTProvider       jwtSigner
	GoogleVerifier    googleVerifier
	Codes             codeManager
	Notifier          mail.Notifier
	RefreshRemembered time.Duration
	RefreshSession    time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:             deps.UserRepo,
		sessions:          deps.SessionRepo,
		profiles:          deps.ProfileRepo,
		jwtProvider:       deps.JWTProvider,
		googleVerifier:    deps.GoogleVerifier,
		codes:             deps.Codes,
		notifier:          deps.Notifier,
		refreshRemembered: deps.RefreshRemembered,
		refreshSession:    deps.RefreshSession,
	}
}

// Login authenticates against the stored credentials. An unverified email is
// a gating condition, not a credential failure: it maps to
// domain.ErrEmailNotVerified so the handler can offer the resend action
// instead of a dead end.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if !u.EmailConfirmed {
		return nil, fmt.Errorf("please verify your email before signing in: %w", domain.ErrEmailNotVerified)
	}

	return s.establish(ctx, u, req.Remember)
}

// LoginWithGoogle validates a Google ID token and signs the matching account
// in, creating it on first federated login. Google's email_verified claim is
// trusted, so a federated account skips the OTP flow.
func (s *service) LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error) {
	if s.googleVerifier == nil {
		return nil, fmt.Errorf("google sign-in not configured: %w", domain.ErrBadRequest)
	}
	payload, err := s.googleVerifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByGoogleSub(ctx, payload.Sub)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = s.users.GetByEmail(ctx, strings.ToLower(payload.Email))
		if errors.Is(err, domain.ErrNotFound) {
			u, err = s.createGoogleUser(ctx, payload)
		}
	}
	if err != nil {
		return nil, err
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}

	return s.establish(ctx, u, true)
}

func (s *service) createGoogleUser(ctx context.Context, payload *google.Payload) (*domain.User, error) {
	now := time.Now().UTC()
	fullName := strings.TrimSpace(payload.FirstName + " " + payload.LastName)
	u := &domain.User{
		UserID:         id.New(),
		Email:          strings.ToLower(payload.Email),
		FullName:       fullName,
		Role:           domain.RoleUser,
		Status:         domain.StatusActive,
		EmailConfirmed: payload.EmailVerified,
		AuthProvider:   "google",
		GoogleSub:      payload.Sub,
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) establish(ctx context.Context, u *domain.User, remember bool) (*LoginResult, error) {
	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshDur := s.refreshSession
	if remember {
		refreshDur = s.refreshRemembered
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		Remember:         remember,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(refreshDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.signBearer(u, sess.SessionID)
	if err != nil {
		return nil, err
	}
	if s.profiles != nil {
		if err := s.profiles.TouchLastLogin(ctx, u.UserID); err != nil {
			slog.Warn("failed to stamp last login", "user_id", u.UserID, "err", err)
		}
	}
	sess.User = u
	return &LoginResult{
		Bearer:       bearer,
		RefreshToken: refreshToken,
		Session:      sess,
		Snapshot: domain.AuthSnapshot{
			AccountID:     u.UserID,
			Email:         u.Email,
			DisplayName:   u.FullName,
			Authenticated: true,
			EmailVerified: u.EmailConfirmed,
			EstablishedAt: now,
		},
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Update(ctx, sessionID, map[string]interface{}{"enable": false})
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return sess, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	sess, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	if sess.RefreshExpiresAt < time.Now().Unix() {
		return "", "", fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}
	newToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return "", "", err
	}
	refreshDur := s.refreshSession
	if sess.Remember {
		refreshDur = s.refreshRemembered
	}
	newExpiry := time.Now().Add(refreshDur).Unix()
	if err := s.sessions.RotateRefreshToken(ctx, sess.SessionID, newToken, newExpiry); err != nil {
		return "", "", err
	}
	u, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return "", "", err
	}
	bearer, err := s.signBearer(u, sess.SessionID)
	if err != nil {
		return "", "", err
	}
	return bearer, newToken, nil
}

func (s *service) signBearer(u *domain.User, sessionID string) (string, error) {
	if s.jwtProvider == nil {
		return "", errors.New("token signing is not configured")
	}
	return s.jwtProvider.Sign(u.UserID, u.Role, sessionID)
}

// RequestPasswordReset issues a recovery code through the same OTP manager
// that backs registration, keyed by the same email.
func (s *service) RequestPasswordReset(ctx context.Context, email string) (*mail.Delivery, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("no account for this email: %w", domain.ErrNotFound)
	}
	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return nil, err
	}
	delivery := s.notifier.SendOTPEmail(email, code)
	if !delivery.Sent {
		slog.Warn("password reset email not delivered", "email", email, "reason", delivery.Message)
	}
	return &delivery, nil
}

// ResetPassword verifies the recovery code and replaces the password hash.
func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) (otp.VerifyResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	pw := struct {
		Password string `validate:"required,password"`
	}{Password: newPassword}
	if err := validate.Struct(&pw); err != nil {
		return otp.VerifyResult{}, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return otp.VerifyResult{}, fmt.Errorf("no account for this email: %w", domain.ErrNotFound)
	}

	result, err := s.codes.Verify(ctx, email, code)
	if err != nil || !result.OK {
		return result, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return otp.VerifyResult{}, err
	}
	return result, s.users.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)})
}
