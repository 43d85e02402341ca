package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/credinews/credinews-api/internal/application/otp"
	"github.com/credinews/credinews-api/internal/domain"
	"github.com/credinews/credinews-api/internal/infrastructure/mail"
	"github.com/credinews/credinews-api/internal/pkg/id"
	"github.com/credinews/credinews-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// RegisterResult reports what happened to the caller: the account exists but
// is unusable until the emailed code is confirmed.
type RegisterResult struct {
	UserID   string        `json:"user_id"`
	Email    string        `json:"email"`
	Delivery mail.Delivery `json:"delivery"`
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type pendingStore interface {
	Put(ctx context.Context, p *domain.PendingVerification) error
	Get(ctx context.Context, email string) (*domain.PendingVerification, error)
	Delete(ctx context.Context, email string) error
}

type profileStore interface {
	Put(ctx context.Context, p *domain.Profile) error
}

type codeManager interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, submitted string) (otp.VerifyResult, error)
	Revoke(ctx context.Context, email string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error)
	Confirm(ctx context.Context, email, code string) (otp.VerifyResult, *domain.User, error)
	Resend(ctx context.Context, email string) (*mail.Delivery, error)
	Cancel(ctx context.Context, email string) error
}

type service struct {
	users    userStore
	pending  pendingStore
	profiles profileStore
	codes    codeManager
	notifier mail.Notifier
	sms      smsSender // optional second delivery channel

	resendCooldown time.Duration
	maxResends     int
	pendingExpiry  time.Duration

	now func() time.Time
}

type ServiceDeps struct {
	UserRepo       userStore
	PendingRepo    pendingStore
	ProfileRepo    profileStore
	Codes          codeManager
	Notifier       mail.Notifier
	SMS            smsSender
	ResendCooldown time.Duration
	MaxResends     int
	PendingExpiry  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:          deps.UserRepo,
		pending:        deps.PendingRepo,
		profiles:       deps.ProfileRepo,
		codes:          deps.Codes,
		notifier:       deps.Notifier,
		sms:            deps.SMS,
		resendCooldown: deps.ResendCooldown,
		maxResends:     deps.MaxResends,
		pendingExpiry:  deps.PendingExpiry,
		now:            time.Now,
	}
}

// Register creates the account in a pending state and starts the OTP flow.
// The account is deliberately left without a session: it cannot be used
// until the emailed code is confirmed.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = capitalizeWords(req.FullName)

	// A lookup failure is not a free email. Only a clean not-found clears
	// the address for registration.
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.StatusPending,
		AuthProvider: "local",
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}

	code, err := s.codes.Issue(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	// OTP record and pending record live and die together.
	p := &domain.PendingVerification{
		Email:      req.Email,
		FullName:   req.FullName,
		UserID:     u.UserID,
		LastSentAt: now.Unix(),
		CreatedAt:  now.Unix(),
		ExpiresAt:  now.Add(s.pendingExpiry).Unix(),
	}
	if err := s.pending.Put(ctx, p); err != nil {
		return nil, err
	}

	// Delivery failure is non-fatal: the stored code stays valid and the
	// user can request a resend.
	delivery := s.notifier.SendOTPEmail(req.Email, code)
	if !delivery.Sent {
		slog.Warn("verification email not delivered", "email", req.Email, "reason", delivery.Message)
	}
	s.sendCodeSMS(ctx, req.Phone, code)

	return &RegisterResult{UserID: u.UserID, Email: req.Email, Delivery: delivery}, nil
}

// Confirm finishes the flow: on a correct code the account is activated, a
// profile document is created, and the pending state is torn down.
func (s *service) Confirm(ctx context.Context, email, code string) (otp.VerifyResult, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !sixDigits.MatchString(code) {
		return otp.VerifyResult{}, nil, fmt.Errorf("code must be exactly 6 digits: %w", domain.ErrBadRequest)
	}

	// Entry guard: a confirm without a pending registration is a stale or
	// forged request — send the caller back to the start of the flow.
	p, err := s.pending.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return otp.VerifyResult{}, nil, fmt.Errorf("no registration in progress for this email, please register again: %w", domain.ErrNotFound)
		}
		return otp.VerifyResult{}, nil, err
	}

	result, err := s.codes.Verify(ctx, email, code)
	if err != nil {
		return otp.VerifyResult{}, nil, err
	}
	if !result.OK {
		return result, nil, nil
	}

	if err := s.users.Update(ctx, p.UserID, map[string]interface{}{
		"status":          domain.StatusActive,
		"email_confirmed": true,
	}); err != nil {
		return otp.VerifyResult{}, nil, err
	}

	now := s.now().UTC()
	profile := &domain.Profile{
		UserID:      p.UserID,
		FullName:    p.FullName,
		Email:       email,
		DisplayName: p.FullName,
		Role:        domain.RoleUser,
		Status:      domain.StatusActive,
		AccountType: "standard",
		Preferences: domain.ProfilePreferences{Notifications: true, Theme: "light"},
		CreatedAt:   now,
	}
	if err := s.profiles.Put(ctx, profile); err != nil {
		return otp.VerifyResult{}, nil, err
	}

	if err := s.pending.Delete(ctx, email); err != nil {
		slog.Warn("failed to delete pending verification", "email", email, "err", err)
	}

	u, err := s.users.Get(ctx, p.UserID)
	if err != nil {
		return otp.VerifyResult{}, nil, err
	}
	return result, u, nil
}

// Resend regenerates and re-delivers the code. The fresh code overwrites the
// old one, so only the newest code is ever valid. A cooldown and a per-flow
// cap keep the mailbox and the mail budget safe.
func (s *service) Resend(ctx context.Context, email string) (*mail.Delivery, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p, err := s.pending.Get(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// The pending record has a TTL and may have been reaped out from
		// under an account that never confirmed. That account must not be
		// stranded, so reopen the flow instead of refusing.
		p, err = s.reopenFlow(ctx, email)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	if wait := time.Unix(p.LastSentAt, 0).Add(s.resendCooldown).Sub(now); wait > 0 {
		return nil, fmt.Errorf("please wait %d seconds before requesting another code: %w",
			int(wait.Seconds())+1, domain.ErrForbidden)
	}
	if p.ResendCount >= s.maxResends {
		return nil, fmt.Errorf("resend limit reached, please register again later: %w", domain.ErrForbidden)
	}

	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return nil, err
	}

	p.ResendCount++
	p.LastSentAt = now.Unix()
	if err := s.pending.Put(ctx, p); err != nil {
		return nil, err
	}

	delivery := s.notifier.SendOTPEmail(email, code)
	if !delivery.Sent {
		slog.Warn("verification email not delivered on resend", "email", email, "reason", delivery.Message)
	}
	if u, uErr := s.users.Get(ctx, p.UserID); uErr == nil {
		s.sendCodeSMS(ctx, u.Phone, code)
	}
	return &delivery, nil
}

// reopenFlow rebuilds the pending record for an unverified account whose
// flow state expired. The record is not persisted here; Resend stores it
// after a code is successfully issued. Counters start over: this is a new
// flow.
func (s *service) reopenFlow(ctx context.Context, email string) (*domain.PendingVerification, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no registration in progress for this email: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if u.EmailConfirmed {
		return nil, fmt.Errorf("this email is already verified, please log in: %w", domain.ErrConflict)
	}
	now := s.now().UTC()
	return &domain.PendingVerification{
		Email:     email,
		FullName:  u.FullName,
		UserID:    u.UserID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.pendingExpiry).Unix(),
	}, nil
}

// sendCodeSMS mirrors the code to the registrant's phone when one was given
// and an SMS transport is configured. Best effort, like email delivery.
func (s *service) sendCodeSMS(ctx context.Context, phone *string, code string) {
	if s.sms == nil || phone == nil || *phone == "" {
		return
	}
	msg := fmt.Sprintf("Your CrediNews verification code is %s", code)
	if err := s.sms.SendSMS(ctx, *phone, msg); err != nil {
		slog.Warn("verification SMS not delivered", "err", err)
	}
}

// Cancel aborts an in-flight registration, destroying the OTP record and the
// pending record together.
func (s *service) Cancel(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.codes.Revoke(ctx, email); err != nil {
		return err
	}
	return s.pending.Delete(ctx, email)
}

// capitalizeWords uppercases the first letter of each space-separated word
// and lowercases the rest, so "jane doe" registers as "Jane Doe".
func capitalizeWords(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
