package truthguard

import "time"

// Claim statuses reported by the API.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Verdict values assigned by the analyzer.
const (
	VerdictTrue       = "true"
	VerdictFalse      = "false"
	VerdictMisleading = "misleading"
	VerdictUncertain  = "uncertain"
)

// Claim is a submitted claim as returned by the API.
type Claim struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	OriginalURL string    `json:"original_url,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Evidence is a single piece of supporting or refuting material.
type Evidence struct {
	Source           string   `json:"source"`
	Excerpt          string   `json:"excerpt"`
	CredibilityScore *float64 `json:"credibility_score,omitempty"`
	URL              *string  `json:"url,omitempty"`
}

// Analysis is the fact-check result for a claim.
type Analysis struct {
	ID              string           `json:"id"`
	ClaimID         string           `json:"claim_id"`
	Verdict         string           `json:"verdict"`
	ConfidenceScore float64          `json:"confidence_score"`
	Summary         string           `json:"summary"`
	Evidence        []Evidence       `json:"evidence"`
	Sources         []map[string]any `json:"sources"`
	Reasoning       string           `json:"reasoning"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ClaimDetail is a claim joined with its analysis, when available.
type ClaimDetail struct {
	Claim
	Analysis     *Analysis `json:"analysis,omitempty"`
	CommentCount int       `json:"comment_count"`
}

// SubmitResult is the response to a claim submission. Queued is false
// when the processing queue was full; the claim stays pending and can
// be resubmitted later.
type SubmitResult struct {
	Claim
	Queued bool `json:"queued"`
}

// ClaimPage is one page of a claim listing.
type ClaimPage struct {
	Items   []ClaimDetail `json:"items"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// SubmitClaimRequest is a file-less claim submission.
type SubmitClaimRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	OriginalURL string `json:"original_url,omitempty"`
}

// ListClaimsOptions filters and paginates claim listings.
// Zero values are omitted from the query.
type ListClaimsOptions struct {
	Query   string
	Status  string
	UserID  string
	Page    int
	PerPage int
}

// KnowledgeStats describes knowledge base availability.
type KnowledgeStats struct {
	Available bool `json:"available"`
	Articles  int  `json:"articles"`
}

// Stats is the aggregate platform statistics response.
type Stats struct {
	TotalClaims  int            `json:"total_claims"`
	ByStatus     map[string]int `json:"by_status"`
	Knowledge    KnowledgeStats `json:"knowledge"`
	RecentClaims []Claim        `json:"recent_claims"`
}

// Article is a knowledge base article.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	SourceURL  string    `json:"source_url,omitempty"`
	SourceType string    `json:"source_type,omitempty"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// ArticleRequest is a new knowledge base article.
type ArticleRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceURL  string `json:"source_url,omitempty"`
	SourceType string `json:"source_type,omitempty"`
	Verified   bool   `json:"verified"`
}

// Match is a knowledge search hit with its similarity score.
type Match struct {
	Article Article `json:"article"`
	Score   float64 `json:"score"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component -> "ok"/"error"
}
