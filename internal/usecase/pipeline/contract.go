package pipeline

import (
	"context"

	"github.com/truthguard/truthguard/internal/domain"
	"github.com/truthguard/truthguard/internal/extract"
)

// ClaimRepository defines the storage contract the pipeline needs.
type ClaimRepository interface {
	Get(ctx context.Context, id string) (domain.Claim, error)
	UpdateStatus(ctx context.Context, id string, status domain.ClaimStatus) error
	CreateAnalysis(ctx context.Context, a *domain.Analysis) error
}

// Analyzer produces a verdict for a claim.
type Analyzer interface {
	Analyze(ctx context.Context, req *domain.AnalyzerRequest) (domain.AnalyzerResult, error)
}

// Extractor recovers text from claim media. Best effort by contract.
type Extractor interface {
	FromClaim(ctx context.Context, c *domain.Claim, fileURL string) extract.Result
}

// KnowledgeIngester stores completed fact checks for future retrieval.
type KnowledgeIngester interface {
	AddArticle(ctx context.Context, a *domain.KnowledgeArticle) bool
}

// FileResolver maps stored media paths and claim ids to publicly
// reachable URLs.
type FileResolver interface {
	PublicURL(relPath string) string
	ClaimURL(claimID string) string
}
