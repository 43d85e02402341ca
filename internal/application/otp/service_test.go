package otp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/credinews/credinews-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store. The manager's behavior is stateful across
// calls, which is awkward to express with call-by-call mocks.
type memStore struct {
	recs map[string]*domain.OTPRecord
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]*domain.OTPRecord)}
}

func (s *memStore) Put(_ context.Context, rec *domain.OTPRecord) error {
	cp := *rec
	s.recs[rec.Email] = &cp
	return nil
}

func (s *memStore) Get(_ context.Context, email string) (*domain.OTPRecord, error) {
	rec, ok := s.recs[email]
	if !ok {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) UpdateAttempts(_ context.Context, email string, attempts int) error {
	rec, ok := s.recs[email]
	if !ok {
		return fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	rec.Attempts = attempts
	return nil
}

func (s *memStore) Delete(_ context.Context, email string) error {
	delete(s.recs, email)
	return nil
}

func newTestManager(store Store) *Manager {
	return NewManager(store, 10*time.Minute, 3)
}

// --- Generate ---

func TestGenerate_SixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.GreaterOrEqual(t, code, "100000")
		require.LessOrEqual(t, code, "999999")
	}
}

// --- Issue / Verify ---

func TestVerify_CorrectCode_ConsumesRecord(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)

	result, err := m.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.True(t, result.OK)

	// Second use of the same code must miss: the record is gone.
	result, err = m.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "no verification code found")
}

func TestVerify_NoRecord(t *testing.T) {
	m := newTestManager(newMemStore())

	result, err := m.Verify(context.Background(), "nobody@example.com", "123456")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "no verification code found")
}

func TestVerify_WrongCode_CountsDownRemaining(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	for want := 2; want >= 1; want-- {
		result, err := m.Verify(ctx, "jane@example.com", wrong)
		require.NoError(t, err)
		assert.False(t, result.OK)
		assert.Equal(t, want, result.Remaining)
		assert.Contains(t, result.Message, fmt.Sprintf("%d attempts remaining", want))
	}

	// Third wrong try exhausts the budget and removes the record.
	result, err := m.Verify(ctx, "jane@example.com", wrong)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, 0, result.Remaining)

	// Even the correct code is dead now.
	result, err = m.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "too many attempts")
}

func TestVerify_ExhaustionRemovesRecord(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		_, err := m.Verify(ctx, "jane@example.com", wrong)
		require.NoError(t, err)
	}
	// Three wrong tries leave a spent record; the next attempt tears it down.
	assert.Len(t, store.recs, 1)
	result, err := m.Verify(ctx, "jane@example.com", wrong)
	require.NoError(t, err)
	assert.Contains(t, result.Message, "too many attempts")
	assert.Empty(t, store.recs)
}

// --- Expiry ---

func TestVerify_Expired_NeverConsumesAttempt(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)

	// Burn two attempts, then jump past expiry. The expiry check runs
	// before the attempt increment, so the final allowed try still
	// reports expiry, not exhaustion.
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	_, err = m.Verify(ctx, "jane@example.com", wrong)
	require.NoError(t, err)
	_, err = m.Verify(ctx, "jane@example.com", wrong)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	result, err := m.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "expired")
	assert.Empty(t, store.recs)
}

// --- Reissue ---

func TestIssue_OverwritesPriorCode(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	first, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)
	second, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)

	if first == second {
		t.Skip("collision between two random codes")
	}

	result, err := m.Verify(ctx, "jane@example.com", first)
	require.NoError(t, err)
	assert.False(t, result.OK, "overwritten code must not verify")

	result, err = m.Verify(ctx, "jane@example.com", second)
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestIssue_ResetsAttempts(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	_, err = m.Verify(ctx, "jane@example.com", wrong)
	require.NoError(t, err)
	_, err = m.Verify(ctx, "jane@example.com", wrong)
	require.NoError(t, err)

	fresh, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)

	result, err := m.Verify(ctx, "jane@example.com", fresh)
	require.NoError(t, err)
	assert.True(t, result.OK, "fresh code gets a fresh attempt budget")
}

// --- Revoke ---

func TestRevoke_RemovesRecord(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, "jane@example.com"))

	result, err := m.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.False(t, result.OK)
}
