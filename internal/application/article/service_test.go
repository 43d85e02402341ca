package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/credinews/credinews-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type memArticles struct {
	recs map[string]*domain.Article
}

func newMemArticles() *memArticles { return &memArticles{recs: map[string]*domain.Article{}} }

func (s *memArticles) Put(_ context.Context, a *domain.Article) error {
	cp := *a
	s.recs[a.ArticleID] = &cp
	return nil
}

func (s *memArticles) Get(_ context.Context, articleID string) (*domain.Article, error) {
	a, ok := s.recs[articleID]
	if !ok {
		return nil, fmt.Errorf("article not found: %w", domain.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *memArticles) ListByUser(_ context.Context, userID string, _ int32) ([]domain.Article, error) {
	var out []domain.Article
	for _, a := range s.recs {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *memArticles) Update(_ context.Context, articleID string, updates map[string]interface{}) error {
	a, ok := s.recs[articleID]
	if !ok {
		return fmt.Errorf("article not found: %w", domain.ErrNotFound)
	}
	if v, ok := updates["status"]; ok {
		a.Status = v.(string)
	}
	if v, ok := updates["credibility"]; ok {
		c := v.(domain.Credibility)
		a.Credibility = &c
	}
	return nil
}

type memStats struct {
	counts map[string]int
}

func (s *memStats) IncrementStat(_ context.Context, userID, stat string, delta int) error {
	s.counts[userID+"/"+stat] += delta
	return nil
}

type fakeChecker struct {
	result *domain.FactCheckResult
	err    error
	lastReq domain.FactCheckRequest
}

func (f *fakeChecker) Check(_ context.Context, req domain.FactCheckRequest) (*domain.FactCheckResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func newTestService(checker *fakeChecker) (*service, *memArticles, *memStats) {
	articles := newMemArticles()
	stats := &memStats{counts: map[string]int{}}
	svc := NewService(ServiceDeps{
		Articles: articles,
		Stats:    stats,
		Checker:  checker,
		Logger:   slog.Default(),
	}).(*service)
	return svc, articles, stats
}

func validSubmission() domain.SubmitArticleRequest {
	return domain.SubmitArticleRequest{
		Title:   "Local reservoir reaches record levels",
		Content: strings.Repeat("The reservoir rose again this week. ", 3),
		Source:  "Daily Gazette",
		URL:     "https://example.com/reservoir",
	}
}

func scoredResult() *domain.FactCheckResult {
	return &domain.FactCheckResult{
		Status:        "complete",
		Credibility:   domain.Credibility{Score: 0.82, Label: "credible", Explanation: "sources agree"},
		RealClaims:    []string{"reservoir levels rose"},
		ClaimsChecked: 1,
	}
}

// --- Submit ---

func TestSubmit_HappyPath_Scored(t *testing.T) {
	checker := &fakeChecker{result: scoredResult()}
	svc, articles, stats := newTestService(checker)

	a, err := svc.Submit(context.Background(), "u1", validSubmission())
	require.NoError(t, err)
	assert.Equal(t, domain.ArticleScored, a.Status)
	require.NotNil(t, a.Credibility)
	assert.InDelta(t, 0.82, a.Credibility.Score, 0.001)

	stored := articles.recs[a.ArticleID]
	require.NotNil(t, stored)
	assert.Equal(t, domain.ArticleScored, stored.Status)

	assert.Equal(t, 1, stats.counts["u1/articles_submitted"])
	assert.Equal(t, 1, stats.counts["u1/articles_verified"])
}

func TestSubmit_CheckerFailure_KeepsUnscored(t *testing.T) {
	checker := &fakeChecker{err: errors.New("connection refused")}
	svc, articles, stats := newTestService(checker)

	a, err := svc.Submit(context.Background(), "u1", validSubmission())
	require.NoError(t, err, "a failed scoring call must not fail the submission")
	assert.Equal(t, domain.ArticleUnscored, a.Status)
	assert.Nil(t, a.Credibility)

	stored := articles.recs[a.ArticleID]
	require.NotNil(t, stored)
	assert.Equal(t, domain.ArticleUnscored, stored.Status)

	assert.Equal(t, 1, stats.counts["u1/articles_submitted"])
	assert.Equal(t, 0, stats.counts["u1/articles_verified"])
}

func TestSubmit_ValidationFailures(t *testing.T) {
	svc, _, _ := newTestService(&fakeChecker{result: scoredResult()})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.SubmitArticleRequest)
	}{
		{"short title", func(r *domain.SubmitArticleRequest) { r.Title = "Hey" }},
		{"short content", func(r *domain.SubmitArticleRequest) { r.Content = "too short" }},
		{"missing source", func(r *domain.SubmitArticleRequest) { r.Source = "" }},
		{"bad url", func(r *domain.SubmitArticleRequest) { r.URL = "not a url" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmission()
			tc.mutate(&req)
			_, err := svc.Submit(ctx, "u1", req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

func TestSubmit_PublicationDateBounds(t *testing.T) {
	svc, _, _ := newTestService(&fakeChecker{result: scoredResult()})
	ctx := context.Background()

	req := validSubmission()
	req.PublishedAt = time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	_, err := svc.Submit(ctx, "u1", req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")

	req.PublishedAt = time.Now().AddDate(-2, 0, 0).Format("2006-01-02")
	_, err = svc.Submit(ctx, "u1", req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than a year old")

	req.PublishedAt = "03/04/2025"
	_, err = svc.Submit(ctx, "u1", req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")

	req.PublishedAt = time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	_, err = svc.Submit(ctx, "u1", req)
	require.NoError(t, err)
}

// --- Get / List ---

func TestGet_OwnershipEnforced(t *testing.T) {
	svc, _, _ := newTestService(&fakeChecker{result: scoredResult()})
	ctx := context.Background()

	a, err := svc.Submit(ctx, "u1", validSubmission())
	require.NoError(t, err)

	got, err := svc.Get(ctx, "u1", a.ArticleID)
	require.NoError(t, err)
	assert.Equal(t, a.ArticleID, got.ArticleID)

	_, err = svc.Get(ctx, "u2", a.ArticleID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_OnlyOwnArticles(t *testing.T) {
	svc, _, _ := newTestService(&fakeChecker{result: scoredResult()})
	ctx := context.Background()

	_, err := svc.Submit(ctx, "u1", validSubmission())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "u2", validSubmission())
	require.NoError(t, err)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].UserID)
}

// --- ad-hoc verification ---

func TestVerifyText_TooShort(t *testing.T) {
	svc, _, _ := newTestService(&fakeChecker{result: scoredResult()})
	_, err := svc.VerifyText(context.Background(), "t", "short")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestVerifyURL_SetsMode(t *testing.T) {
	checker := &fakeChecker{result: scoredResult()}
	svc, _, _ := newTestService(checker)

	result, err := svc.VerifyURL(context.Background(), "https://example.com/story")
	require.NoError(t, err)
	assert.Equal(t, "complete", result.Status)
	assert.Equal(t, "url", checker.lastReq.Options["mode"])
	assert.Equal(t, "https://example.com/story", checker.lastReq.URL)
}

func TestVerifyURL_RejectsNonURL(t *testing.T) {
	svc, _, _ := newTestService(&fakeChecker{result: scoredResult()})
	for _, raw := range []string{"", "not a url", "example.com/no-scheme"} {
		_, err := svc.VerifyURL(context.Background(), raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, domain.ErrBadRequest, raw)
	}
}
