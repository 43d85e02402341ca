package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/credinews/credinews-api/internal/domain"
)

// VerifyResult is the structured outcome of a verification attempt.
// OTP-domain failures (not found, expired, exhausted, mismatch) are results,
// not errors: callers surface Message to the user and the flow stays
// retryable. The error return of Verify is reserved for store failures.
type VerifyResult struct {
	OK        bool   `json:"success"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining_attempts"`
}

// Store is the persistence the manager needs. Backed by DynamoDB in
// production so codes survive reloads and work across devices.
type Store interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	UpdateAttempts(ctx context.Context, email string, attempts int) error
	Delete(ctx context.Context, email string) error
}

// Manager issues, stores, and verifies short-lived numeric codes. It is
// independent of any delivery mechanism.
type Manager struct {
	store       Store
	expiry      time.Duration
	maxAttempts int

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

func NewManager(store Store, expiry time.Duration, maxAttempts int) *Manager {
	return &Manager{
		store:       store,
		expiry:      expiry,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Generate returns a uniformly random 6-digit code in [100000, 999999].
// The full 900,000-value space is covered so guessing within the attempt
// budget stays at the intended odds.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue generates a fresh code and stores it for email with attempts reset.
// Any previous record for the same email is overwritten, invalidating an
// unconsumed prior code — the accepted tradeoff of the resend flow.
func (m *Manager) Issue(ctx context.Context, email string) (string, error) {
	code, err := Generate()
	if err != nil {
		return "", err
	}
	rec := &domain.OTPRecord{
		Email:       email,
		Code:        code,
		ExpiresAt:   m.now().Add(m.expiry).Unix(),
		Attempts:    0,
		MaxAttempts: m.maxAttempts,
	}
	if err := m.store.Put(ctx, rec); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks submitted against the live record for email.
//
// The expiry check runs before the attempt increment, so an expired code
// never consumes an attempt and always reports expiry, even on what would
// have been the final allowed try. Records are removed, never just marked,
// on success, expiry, or attempt exhaustion.
func (m *Manager) Verify(ctx context.Context, email, submitted string) (VerifyResult, error) {
	rec, err := m.store.Get(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return VerifyResult{Message: "no verification code found, please request a new one"}, nil
		}
		return VerifyResult{}, err
	}

	if m.now().Unix() > rec.ExpiresAt {
		if err := m.store.Delete(ctx, email); err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{Message: "verification code expired, please request a new one"}, nil
	}

	rec.Attempts++
	if rec.Attempts > rec.MaxAttempts {
		if err := m.store.Delete(ctx, email); err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{Message: "too many attempts, please request a new code"}, nil
	}

	if submitted == rec.Code {
		if err := m.store.Delete(ctx, email); err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{OK: true, Message: "verification successful"}, nil
	}

	if err := m.store.UpdateAttempts(ctx, email, rec.Attempts); err != nil {
		return VerifyResult{}, err
	}
	remaining := rec.MaxAttempts - rec.Attempts
	return VerifyResult{
		Message:   fmt.Sprintf("incorrect code, %d attempts remaining", remaining),
		Remaining: remaining,
	}, nil
}

// Revoke drops any live record for email. Used by the flow controller's
// cancel path to keep OTP and pending-verification lifecycles in step.
func (m *Manager) Revoke(ctx context.Context, email string) error {
	return m.store.Delete(ctx, email)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
