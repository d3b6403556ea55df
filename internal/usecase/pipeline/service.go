// Package pipeline drives a claim through its lifecycle: mark
// processing, recover text from media, obtain a verdict, persist the
// analysis and feed the result back into the knowledge base.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/truthguard/truthguard/internal/domain"
	"github.com/truthguard/truthguard/internal/logger"
	"github.com/truthguard/truthguard/internal/metrics"
)

// titleExcerptLen is how much of the claim text survives into the
// ingested article title.
const titleExcerptLen = 50

// Service processes one claim at a time. Instances are safe for
// concurrent use; the queue decides the parallelism.
type Service struct {
	repo      ClaimRepository
	analyzer  Analyzer
	extractor Extractor
	knowledge KnowledgeIngester
	files     FileResolver
}

// New creates the claim processing service.
func New(
	repo ClaimRepository, analyzer Analyzer, extractor Extractor,
	knowledge KnowledgeIngester, files FileResolver,
) *Service {
	return &Service{
		repo:      repo,
		analyzer:  analyzer,
		extractor: extractor,
		knowledge: knowledge,
		files:     files,
	}
}

// Process runs the full pipeline for a claim. Once the claim is marked
// processing it always ends in a terminal status: completed with an
// analysis attached, or failed with none. A missing claim changes
// nothing.
func (s *Service) Process(ctx context.Context, claimID string) error {
	ctx = logger.With(ctx, zap.String("claim_id", claimID))
	log := logger.FromContext(ctx)
	start := time.Now()

	c, err := s.repo.Get(ctx, claimID)
	if err != nil {
		log.Warn("claim not loadable, nothing processed", zap.Error(err))
		return fmt.Errorf("load claim %s: %w", claimID, err)
	}

	if !c.Status.CanTransitionTo(domain.StatusProcessing) {
		log.Warn("claim not in a processable status", zap.String("status", string(c.Status)))
		return fmt.Errorf("claim %s in status %s: %w", claimID, c.Status, domain.ErrInvalidTransition)
	}

	// The processing mark is persisted before any external call so an
	// observer never sees a pending claim under analysis.
	if err := s.repo.UpdateStatus(ctx, c.ID, domain.StatusProcessing); err != nil {
		return fmt.Errorf("mark claim %s processing: %w", claimID, err)
	}
	c.Status = domain.StatusProcessing

	fileURL := s.files.PublicURL(c.FilePath)
	extracted := s.extractor.FromClaim(ctx, &c, fileURL)

	content := c.Content
	if extracted.Text != "" {
		content = content + "\n\nExtracted from media: " + extracted.Text
	}

	result, err := s.analyzer.Analyze(ctx, &domain.AnalyzerRequest{
		ClaimID:     c.ID,
		Content:     content,
		ContentType: c.ContentType,
		FileURL:     fileURL,
	})
	if err != nil {
		log.Error("analysis failed, claim marked failed", zap.Error(err))
		s.fail(ctx, &c)
		return fmt.Errorf("analyze claim %s: %w", claimID, err)
	}

	analysis, err := domain.NewAnalysis(
		c.ID, result.Verdict, result.ConfidenceScore,
		result.Summary, result.Evidence, result.Sources, result.Reasoning,
	)
	if err != nil {
		log.Error("analyzer result rejected, claim marked failed", zap.Error(err))
		s.fail(ctx, &c)
		return fmt.Errorf("build analysis for claim %s: %w", claimID, err)
	}

	if err := s.repo.CreateAnalysis(ctx, &analysis); err != nil {
		log.Error("persisting analysis failed, claim marked failed", zap.Error(err))
		s.fail(ctx, &c)
		return fmt.Errorf("persist analysis for claim %s: %w", claimID, err)
	}

	if err := s.repo.UpdateStatus(ctx, c.ID, domain.StatusCompleted); err != nil {
		log.Error("completed write failed, claim marked failed", zap.Error(err))
		s.fail(ctx, &c)
		return fmt.Errorf("mark claim %s completed: %w", claimID, err)
	}

	metrics.ClaimsProcessedTotal.WithLabelValues(string(domain.StatusCompleted)).Inc()
	metrics.ClaimProcessingDuration.WithLabelValues(string(c.ContentType)).Observe(time.Since(start).Seconds())
	log.Info("claim processed",
		zap.String("verdict", string(analysis.Verdict)),
		zap.Float64("confidence", analysis.ConfidenceScore),
		zap.Duration("took", time.Since(start)),
	)

	// The claim is already completed; ingestion failure only costs the
	// knowledge base a future match.
	s.ingest(ctx, &c, &analysis)

	return nil
}

// fail moves a processing claim to failed. An error here is logged and
// dropped: there is no better state to leave the claim in.
func (s *Service) fail(ctx context.Context, c *domain.Claim) {
	if err := s.repo.UpdateStatus(ctx, c.ID, domain.StatusFailed); err != nil {
		logger.FromContext(ctx).Error("marking claim failed also failed", zap.Error(err))
		return
	}
	metrics.ClaimsProcessedTotal.WithLabelValues(string(domain.StatusFailed)).Inc()
}

// ingest turns a completed fact check into a knowledge article.
func (s *Service) ingest(ctx context.Context, c *domain.Claim, a *domain.Analysis) {
	if s.knowledge == nil {
		return
	}

	article, err := domain.NewKnowledgeArticle(
		articleTitle(c.Content),
		articleContent(a),
		s.files.ClaimURL(c.ID),
		domain.SourceTypeFactCheck,
		true,
	)
	if err != nil {
		logger.FromContext(ctx).Warn("fact check not ingestable as article", zap.Error(err))
		return
	}

	if !s.knowledge.AddArticle(ctx, &article) {
		logger.FromContext(ctx).Warn("fact check article not ingested")
	}
}

// articleTitle derives a knowledge article title from a fixed-length
// excerpt of the claim text.
func articleTitle(claimContent string) string {
	excerpt := claimContent
	if runes := []rune(excerpt); len(runes) > titleExcerptLen {
		excerpt = string(runes[:titleExcerptLen])
	}
	return "Fact-check for claim: '" + excerpt + "...'"
}

func articleContent(a *domain.Analysis) string {
	return a.Summary + "\n\nReasoning: " + a.Reasoning
}
