package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/credinews/credinews-api/internal/domain"
	"github.com/credinews/credinews-api/internal/pkg/validate"
)

type profileStore interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type avatarStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.Profile, error)
	SetAvatar(ctx context.Context, userID, filename, b64Data string) (string, error)
	AvatarURL(ctx context.Context, userID string) (string, error)
}

type service struct {
	repo    profileStore
	avatars avatarStore
}

func NewService(repo profileStore, avatars avatarStore) Service {
	return &service{repo: repo, avatars: avatars}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["details.bio"] = *req.Bio
	}
	if req.Location != nil {
		updates["details.location"] = *req.Location
	}
	if req.Website != nil {
		updates["details.website"] = *req.Website
	}
	if req.Theme != nil {
		updates["preferences.theme"] = *req.Theme
	}
	if req.Newsletter != nil {
		updates["preferences.newsletter"] = *req.Newsletter
	}
	if req.Notify != nil {
		updates["preferences.notifications"] = *req.Notify
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// SetAvatar uploads the image to S3 and stores the object key on the profile.
func (s *service) SetAvatar(ctx context.Context, userID, filename, b64Data string) (string, error) {
	key := fmt.Sprintf("avatars/%s/%s", userID, filename)
	if _, err := s.avatars.UploadBase64(ctx, key, b64Data); err != nil {
		return "", err
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{"details.avatar": key}); err != nil {
		return "", err
	}
	return key, nil
}

// AvatarURL returns a time-limited download URL for the stored avatar.
func (s *service) AvatarURL(ctx context.Context, userID string) (string, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if p.Details.Avatar == "" {
		return "", fmt.Errorf("no avatar set: %w", domain.ErrNotFound)
	}
	return s.avatars.PresignedURL(ctx, p.Details.Avatar, 15*time.Minute)
}
