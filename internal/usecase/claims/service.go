// Package claims is the service boundary for claim submission and
// retrieval. Submission persists the claim and schedules processing;
// reads join claims with their analyses and comment counts.
package claims

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/truthguard/truthguard/internal/domain"
	"github.com/truthguard/truthguard/internal/logger"
	"github.com/truthguard/truthguard/internal/metrics"
)

const maxListLimit = 100

// Service implements the claim operations behind the HTTP surface.
type Service struct {
	repo      Repository
	files     FileStore
	queue     Queue
	processor Processor
	knowledge KnowledgeStats
}

// New creates the claims service.
func New(repo Repository, files FileStore, q Queue, processor Processor, knowledge KnowledgeStats) *Service {
	return &Service{
		repo:      repo,
		files:     files,
		queue:     q,
		processor: processor,
		knowledge: knowledge,
	}
}

// SubmitInput is a claim submission. File is optional; when present it
// is stored before the claim is created.
type SubmitInput struct {
	UserID      string
	Content     string
	ContentType string
	OriginalURL string
	Filename    string
	File        io.Reader
}

// Submit validates, persists and schedules a claim. The returned bool
// reports whether processing was scheduled: a full queue leaves the
// claim pending, to be resubmitted or swept later, and is not an error.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (domain.Claim, bool, error) {
	log := logger.FromContext(ctx)

	ct, err := domain.ParseContentType(in.ContentType)
	if err != nil {
		return domain.Claim{}, false, err
	}

	var filePath string
	if in.File != nil {
		filePath, err = s.files.Save(in.UserID, in.Filename, in.File)
		if err != nil {
			return domain.Claim{}, false, fmt.Errorf("store upload: %w", err)
		}
	}

	c, err := domain.NewClaim(in.UserID, in.Content, ct, in.OriginalURL, filePath)
	if err != nil {
		return domain.Claim{}, false, err
	}

	if err := s.repo.Create(ctx, &c); err != nil {
		return domain.Claim{}, false, fmt.Errorf("create claim: %w", err)
	}

	queued := s.schedule(ctx, c.ID)
	if queued {
		metrics.ClaimsEnqueuedTotal.WithLabelValues("accepted").Inc()
	} else {
		metrics.ClaimsEnqueuedTotal.WithLabelValues("rejected").Inc()
		log.Warn("processing queue full, claim left pending", zap.String("claim_id", c.ID))
	}

	log.Info("claim submitted",
		zap.String("claim_id", c.ID),
		zap.String("content_type", string(c.ContentType)),
		zap.Bool("queued", queued),
	)
	return c, queued, nil
}

// Resubmit re-schedules a pending claim, e.g. one that was dropped by
// a full queue.
func (s *Service) Resubmit(ctx context.Context, claimID string) (bool, error) {
	c, err := s.repo.Get(ctx, claimID)
	if err != nil {
		return false, fmt.Errorf("load claim %s: %w", claimID, err)
	}
	if c.Status != domain.StatusPending {
		return false, fmt.Errorf("claim %s in status %s: %w", claimID, c.Status, domain.ErrInvalidTransition)
	}
	return s.schedule(ctx, claimID), nil
}

// schedule hands the claim to the background queue. The job carries
// the base logger, not the request context: processing outlives the
// HTTP request.
func (s *Service) schedule(ctx context.Context, claimID string) bool {
	log := logger.FromContext(ctx)
	return s.queue.Enqueue(func(jobCtx context.Context) {
		jobCtx = logger.ContextWithLogger(jobCtx, log)
		if err := s.processor.Process(jobCtx, claimID); err != nil {
			log.Error("claim processing finished with error",
				zap.String("claim_id", claimID),
				zap.Error(err),
			)
		}
	})
}

// Details joins a claim with its analysis and comment count. Analysis
// is nil until the claim completes.
type Details struct {
	Claim        domain.Claim
	Analysis     *domain.Analysis
	CommentCount int
}

// Get returns a claim with its attached analysis, if any.
func (s *Service) Get(ctx context.Context, id string) (Details, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Details{}, fmt.Errorf("load claim %s: %w", id, err)
	}

	d := Details{Claim: c}

	a, err := s.repo.GetAnalysisByClaim(ctx, id)
	switch {
	case err == nil:
		d.Analysis = &a
	case errors.Is(err, domain.ErrAnalysisNotFound):
		// claim not completed yet
	default:
		return Details{}, fmt.Errorf("load analysis for claim %s: %w", id, err)
	}

	n, err := s.repo.CommentCount(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Warn("comment count unavailable",
			zap.String("claim_id", id), zap.Error(err))
	} else {
		d.CommentCount = n
	}

	return d, nil
}

// List returns claims matching the filter plus the total match count.
func (s *Service) List(ctx context.Context, f domain.ClaimFilter) ([]domain.Claim, int, error) {
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

// ListDetails returns claims matching the filter joined with their
// analyses and comment counts, plus the total match count.
func (s *Service) ListDetails(ctx context.Context, f domain.ClaimFilter) ([]Details, int, error) {
	cs, total, err := s.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]Details, len(cs))
	for i, c := range cs {
		out[i] = Details{Claim: c}
		if c.Status == domain.StatusCompleted {
			a, err := s.repo.GetAnalysisByClaim(ctx, c.ID)
			if err == nil {
				out[i].Analysis = &a
			} else if !errors.Is(err, domain.ErrAnalysisNotFound) {
				return nil, 0, fmt.Errorf("load analysis for claim %s: %w", c.ID, err)
			}
		}
		if n, err := s.repo.CommentCount(ctx, c.ID); err == nil {
			out[i].CommentCount = n
		}
	}
	return out, total, nil
}

// Status returns just the claim's lifecycle state.
func (s *Service) Status(ctx context.Context, id string) (domain.ClaimStatus, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load claim %s: %w", id, err)
	}
	return c.Status, nil
}

// Stats is the service-wide claim and knowledge base summary.
type Stats struct {
	TotalClaims        int
	ByStatus           map[domain.ClaimStatus]int
	KnowledgeAvailable bool
	KnowledgeArticles  int
}

// Stats aggregates claim counts per status and knowledge base size.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count claims: %w", err)
	}

	byStatus := make(map[domain.ClaimStatus]int, 4)
	for _, status := range []domain.ClaimStatus{
		domain.StatusPending, domain.StatusProcessing, domain.StatusCompleted, domain.StatusFailed,
	} {
		n, err := s.repo.CountByStatus(ctx, status)
		if err != nil {
			return Stats{}, fmt.Errorf("count claims by status %s: %w", status, err)
		}
		byStatus[status] = n
	}

	st := Stats{
		TotalClaims:        total,
		ByStatus:           byStatus,
		KnowledgeAvailable: s.knowledge.Available(),
	}
	if st.KnowledgeAvailable {
		if n, err := s.knowledge.Count(ctx); err == nil {
			st.KnowledgeArticles = n
		}
	}
	return st, nil
}
