package article

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/credinews/credinews-api/internal/domain"
	"github.com/credinews/credinews-api/internal/pkg/id"
	"github.com/credinews/credinews-api/internal/pkg/validate"
)

const defaultListLimit = 50

type articleStore interface {
	Put(ctx context.Context, a *domain.Article) error
	Get(ctx context.Context, articleID string) (*domain.Article, error)
	ListByUser(ctx context.Context, userID string, limit int32) ([]domain.Article, error)
	Update(ctx context.Context, articleID string, updates map[string]interface{}) error
}

type statStore interface {
	IncrementStat(ctx context.Context, userID, stat string, delta int) error
}

type checker interface {
	Check(ctx context.Context, req domain.FactCheckRequest) (*domain.FactCheckResult, error)
}

type Service interface {
	Submit(ctx context.Context, userID string, req domain.SubmitArticleRequest) (*domain.Article, error)
	Get(ctx context.Context, userID, articleID string) (*domain.Article, error)
	List(ctx context.Context, userID string) ([]domain.Article, error)
	VerifyText(ctx context.Context, title, content string) (*domain.FactCheckResult, error)
	VerifyURL(ctx context.Context, url string) (*domain.FactCheckResult, error)
}

type ServiceDeps struct {
	Articles articleStore
	Stats    statStore
	Checker  checker
	Logger   *slog.Logger
}

type service struct {
	articles articleStore
	stats    statStore
	checker  checker
	log      *slog.Logger
	now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		articles: deps.Articles,
		stats:    deps.Stats,
		checker:  deps.Checker,
		log:      deps.Logger,
		now:      time.Now,
	}
}

// Submit stores the article and scores it through the fact-check endpoint.
// A failed scoring call does not fail the submission: the article is kept
// with status "unscored" so it can be retried later.
func (s *service) Submit(ctx context.Context, userID string, req domain.SubmitArticleRequest) (*domain.Article, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	publishedAt, err := parsePublicationDate(req.PublishedAt, s.now())
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	a := &domain.Article{
		ArticleID:   id.New(),
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Source:      req.Source,
		URL:         req.URL,
		PublishedAt: publishedAt,
		Status:      domain.ArticlePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.articles.Put(ctx, a); err != nil {
		return nil, fmt.Errorf("store article: %w", err)
	}
	if err := s.stats.IncrementStat(ctx, userID, "articles_submitted", 1); err != nil {
		s.log.Warn("stat increment failed", "user_id", userID, "error", err)
	}

	result, err := s.checker.Check(ctx, domain.FactCheckRequest{
		Title:   req.Title,
		Content: req.Content,
		URL:     req.URL,
	})
	if err != nil {
		s.log.Warn("fact-check failed, article kept unscored", "article_id", a.ArticleID, "error", err)
		a.Status = domain.ArticleUnscored
		if uErr := s.articles.Update(ctx, a.ArticleID, map[string]interface{}{"status": domain.ArticleUnscored}); uErr != nil {
			s.log.Error("article status update failed", "article_id", a.ArticleID, "error", uErr)
		}
		return a, nil
	}

	a.Status = domain.ArticleScored
	a.Credibility = &result.Credibility
	a.FakeClaims = result.FakeClaims
	a.RealClaims = result.RealClaims
	a.ClaimsChecked = result.ClaimsChecked
	if err := s.articles.Update(ctx, a.ArticleID, map[string]interface{}{
		"status":         domain.ArticleScored,
		"credibility":    result.Credibility,
		"fake_claims":    result.FakeClaims,
		"real_claims":    result.RealClaims,
		"claims_checked": result.ClaimsChecked,
	}); err != nil {
		return nil, fmt.Errorf("store score: %w", err)
	}
	if err := s.stats.IncrementStat(ctx, userID, "articles_verified", 1); err != nil {
		s.log.Warn("stat increment failed", "user_id", userID, "error", err)
	}
	return a, nil
}

// Get returns an article only to its submitter.
func (s *service) Get(ctx context.Context, userID, articleID string) (*domain.Article, error) {
	a, err := s.articles.Get(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, fmt.Errorf("article belongs to another user: %w", domain.ErrForbidden)
	}
	return a, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Article, error) {
	return s.articles.ListByUser(ctx, userID, defaultListLimit)
}

// VerifyText scores ad-hoc text without storing a submission.
func (s *service) VerifyText(ctx context.Context, title, content string) (*domain.FactCheckResult, error) {
	if len(content) < 50 {
		return nil, fmt.Errorf("content too short to verify: %w", domain.ErrBadRequest)
	}
	return s.checker.Check(ctx, domain.FactCheckRequest{Title: title, Content: content})
}

// VerifyURL scores a page by URL; extraction happens on the remote side.
func (s *service) VerifyURL(ctx context.Context, rawURL string) (*domain.FactCheckResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("a full http(s) url is required: %w", domain.ErrBadRequest)
	}
	return s.checker.Check(ctx, domain.FactCheckRequest{
		URL:     rawURL,
		Options: map[string]string{"mode": "url"},
	})
}

// parsePublicationDate accepts YYYY-MM-DD, rejecting dates in the future or
// more than a year old.
func parsePublicationDate(raw string, now time.Time) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("publication date must be YYYY-MM-DD: %w", domain.ErrBadRequest)
	}
	if t.After(now) {
		return nil, fmt.Errorf("publication date is in the future: %w", domain.ErrBadRequest)
	}
	if t.Before(now.AddDate(-1, 0, 0)) {
		return nil, fmt.Errorf("publication date is more than a year old: %w", domain.ErrBadRequest)
	}
	return &t, nil
}
