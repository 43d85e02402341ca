package domain

import "time"

// Article submission statuses.
const (
	ArticlePending  = "pending"
	ArticleScored   = "scored"
	ArticleUnscored = "unscored" // fact-check call failed; kept for retry
)

type Article struct {
	ArticleID       string       `json:"id" dynamodbav:"article_id"`
	UserID          string       `json:"user_id" dynamodbav:"user_id"`
	Title           string       `json:"title" dynamodbav:"title"`
	Content         string       `json:"content" dynamodbav:"content"`
	Source          string       `json:"source" dynamodbav:"source"`
	URL             string       `json:"url,omitempty" dynamodbav:"url"`
	PublishedAt     *time.Time   `json:"published_at,omitempty" dynamodbav:"published_at"`
	Status          string       `json:"status" dynamodbav:"status"`
	Credibility     *Credibility `json:"credibility,omitempty" dynamodbav:"credibility"`
	FakeClaims      []string     `json:"fake_claims,omitempty" dynamodbav:"fake_claims"`
	RealClaims      []string     `json:"real_claims,omitempty" dynamodbav:"real_claims"`
	ClaimsChecked   int          `json:"claims_checked" dynamodbav:"claims_checked"`
	CreatedAt       time.Time    `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time    `json:"updated" dynamodbav:"updated_at"`
}

// Credibility is the scoring block of the fact-check response contract.
// The scoring model lives behind the remote endpoint and is opaque here.
type Credibility struct {
	Score       float64  `json:"score" dynamodbav:"score"` // 0..1
	Label       string   `json:"label" dynamodbav:"label"`
	Explanation string   `json:"explanation" dynamodbav:"explanation"`
	Sources     int      `json:"sources,omitempty" dynamodbav:"sources"`
	FactChecks  int      `json:"factChecks,omitempty" dynamodbav:"fact_checks"`
}

type SubmitArticleRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=200"`
	Content     string `json:"content" validate:"required,min=50,max=5000"`
	Source      string `json:"source" validate:"required,min=3"`
	URL         string `json:"url" validate:"omitempty,url"`
	PublishedAt string `json:"published_at" validate:"omitempty"` // YYYY-MM-DD
}
