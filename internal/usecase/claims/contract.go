package claims

import (
	"context"
	"io"

	"github.com/truthguard/truthguard/internal/domain"
	"github.com/truthguard/truthguard/internal/queue"
)

// Repository defines the storage contract for claims and analyses.
type Repository interface {
	Create(ctx context.Context, c *domain.Claim) error
	Get(ctx context.Context, id string) (domain.Claim, error)
	List(ctx context.Context, f domain.ClaimFilter) ([]domain.Claim, int, error)
	CountByStatus(ctx context.Context, status domain.ClaimStatus) (int, error)
	CountAll(ctx context.Context) (int, error)
	GetAnalysisByClaim(ctx context.Context, claimID string) (domain.Analysis, error)
	CommentCount(ctx context.Context, claimID string) (int, error)
}

// FileStore persists uploaded claim media.
type FileStore interface {
	Save(ownerID, filename string, r io.Reader) (string, error)
}

// Queue accepts background jobs, refusing when full.
type Queue interface {
	Enqueue(job queue.Job) bool
}

// Processor runs the analysis pipeline for a claim.
type Processor interface {
	Process(ctx context.Context, claimID string) error
}

// KnowledgeStats exposes knowledge base figures for the stats endpoint.
type KnowledgeStats interface {
	Available() bool
	Count(ctx context.Context) (int, error)
}
