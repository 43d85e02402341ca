package domain

// FactCheckRequest is the JSON body posted to the fact-check endpoint.
type FactCheckRequest struct {
	Title   string            `json:"title"`
	Content string            `json:"content"`
	URL     string            `json:"url,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

// FactCheckResult mirrors the remote fact-check response. The shape is a
// fixed contract; unknown extra fields are ignored on decode.
type FactCheckResult struct {
	Status        string          `json:"status"`
	Credibility   Credibility     `json:"credibility"`
	FakeClaims    []string        `json:"fake_claims,omitempty"`
	RealClaims    []string        `json:"real_claims,omitempty"`
	ClaimAnalysis []ClaimAnalysis `json:"claim_analysis,omitempty"`
	ClaimsChecked int             `json:"claims_checked,omitempty"`
}

type ClaimAnalysis struct {
	Claim       string  `json:"claim"`
	Rating      string  `json:"rating,omitempty"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
}
