package profile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/credinews/credinews-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes ---

type memProfiles struct {
	recs        map[string]*domain.Profile
	lastUpdates map[string]interface{}
	updateCalls int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{recs: map[string]*domain.Profile{}}
}

func (s *memProfiles) Get(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := s.recs[userID]
	if !ok {
		return nil, fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *memProfiles) Update(_ context.Context, userID string, updates map[string]interface{}) error {
	p, ok := s.recs[userID]
	if !ok {
		return fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	s.lastUpdates = updates
	s.updateCalls++
	for k, v := range updates {
		switch k {
		case "display_name":
			p.DisplayName = v.(string)
		case "details.bio":
			p.Details.Bio = v.(string)
		case "details.location":
			p.Details.Location = v.(string)
		case "details.website":
			p.Details.Website = v.(string)
		case "details.avatar":
			p.Details.Avatar = v.(string)
		case "preferences.theme":
			p.Preferences.Theme = v.(string)
		case "preferences.newsletter":
			p.Preferences.Newsletter = v.(bool)
		case "preferences.notifications":
			p.Preferences.Notifications = v.(bool)
		}
	}
	return nil
}

type fakeAvatars struct {
	uploads map[string]string
}

func newFakeAvatars() *fakeAvatars { return &fakeAvatars{uploads: map[string]string{}} }

func (a *fakeAvatars) UploadBase64(_ context.Context, key, b64Data string) (string, error) {
	a.uploads[key] = b64Data
	return "https://bucket.s3.amazonaws.com/" + key, nil
}

func (a *fakeAvatars) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.s3.amazonaws.com/" + key + "?X-Amz-Signature=abc", nil
}

// --- fixture ---

func newTestService() (Service, *memProfiles, *fakeAvatars) {
	repo := newMemProfiles()
	repo.recs["u1"] = &domain.Profile{
		UserID:      "u1",
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		DisplayName: "Jane Doe",
		Preferences: domain.ProfilePreferences{Notifications: true, Theme: "light"},
	}
	avatars := newFakeAvatars()
	return NewService(repo, avatars), repo, avatars
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// --- tests ---

func TestGet_ReturnsProfile(t *testing.T) {
	svc, _, _ := newTestService()
	p, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", p.Email)
}

func TestUpdate_FansOutNestedKeys(t *testing.T) {
	svc, repo, _ := newTestService()

	p, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		DisplayName: strPtr("janed"),
		Bio:         strPtr("news junkie"),
		Theme:       strPtr("dark"),
		Newsletter:  boolPtr(true),
	})
	require.NoError(t, err)

	// Nested fields travel as dotted document paths, top-level ones as
	// plain attribute names.
	assert.Equal(t, map[string]interface{}{
		"display_name":           "janed",
		"details.bio":            "news junkie",
		"preferences.theme":      "dark",
		"preferences.newsletter": true,
	}, repo.lastUpdates)

	assert.Equal(t, "janed", p.DisplayName)
	assert.Equal(t, "news junkie", p.Details.Bio)
	assert.Equal(t, "dark", p.Preferences.Theme)
	assert.True(t, p.Preferences.Newsletter)
	// Untouched fields survive.
	assert.True(t, p.Preferences.Notifications)
}

func TestUpdate_NoFields_SkipsStore(t *testing.T) {
	svc, repo, _ := newTestService()

	p, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.DisplayName)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdate_ValidationFailures(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.UpdateProfileRequest
	}{
		{"unknown theme", domain.UpdateProfileRequest{Theme: strPtr("blue")}},
		{"bad website", domain.UpdateProfileRequest{Website: strPtr("not a url")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Update(ctx, "u1", tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

func TestSetAvatar_UploadsAndLinksProfile(t *testing.T) {
	svc, repo, avatars := newTestService()

	key, err := svc.SetAvatar(context.Background(), "u1", "pic.png", "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "avatars/u1/pic.png", key)
	assert.Equal(t, "aGVsbG8=", avatars.uploads[key])
	assert.Equal(t, key, repo.recs["u1"].Details.Avatar)
}

func TestAvatarURL_WithoutAvatar(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.AvatarURL(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAvatarURL_PresignsStoredKey(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SetAvatar(context.Background(), "u1", "pic.png", "aGVsbG8=")
	require.NoError(t, err)

	url, err := svc.AvatarURL(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, url, "avatars/u1/pic.png")
	assert.Contains(t, url, "X-Amz-Signature")
}
