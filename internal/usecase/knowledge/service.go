// Package knowledge is the self-reinforcing retrieval layer: completed
// fact checks are embedded and stored so future claims can be compared
// against past verdicts.
package knowledge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/truthguard/truthguard/internal/domain"
	"github.com/truthguard/truthguard/internal/logger"
	"github.com/truthguard/truthguard/internal/metrics"
)

// Service embeds and retrieves knowledge articles. A Service built
// without an embedder is permanently disabled: every read returns
// empty, every write reports failure, and nothing else breaks.
type Service struct {
	embedder  Embedder
	repo      ArticleRepository
	threshold float64
	topK      int
}

// New creates the knowledge service. embedder may be nil, which
// disables the knowledge base for the life of the process.
func New(embedder Embedder, repo ArticleRepository, threshold float64, topK int) *Service {
	return &Service{
		embedder:  embedder,
		repo:      repo,
		threshold: threshold,
		topK:      topK,
	}
}

// Available reports whether the knowledge base is operational.
func (s *Service) Available() bool {
	return s.embedder != nil && s.repo != nil
}

// SearchSimilar returns stored articles whose similarity to the query
// text meets the match threshold, most similar first. topK caps the
// candidate count; zero or negative falls back to the configured
// default. Any failure, disabled mode included, yields an empty
// result: retrieval never blocks the caller's flow.
func (s *Service) SearchSimilar(ctx context.Context, text string, topK int) []domain.SimilarityMatch {
	log := logger.FromContext(ctx)

	if !s.Available() {
		log.Debug("knowledge base disabled, similarity search skipped")
		return nil
	}
	if topK <= 0 {
		topK = s.topK
	}

	result, err := s.embedder.Embed(ctx, text)
	if err != nil {
		log.Warn("embedding query text failed, returning no matches", zap.Error(err))
		return nil
	}

	matches, err := s.repo.SearchKNN(ctx, result.Embedding, topK)
	if err != nil {
		log.Warn("similarity search failed, returning no matches", zap.Error(err))
		return nil
	}

	filtered := make([]domain.SimilarityMatch, 0, len(matches))
	for _, m := range matches {
		if m.Score >= s.threshold {
			filtered = append(filtered, m)
		}
	}

	log.Debug("similarity search finished",
		zap.Int("candidates", len(matches)),
		zap.Int("matches", len(filtered)),
	)
	return filtered
}

// AddArticle embeds and stores an article, reporting success as a
// plain bool. Ingestion is best effort by contract: callers log the
// outcome and move on.
func (s *Service) AddArticle(ctx context.Context, a *domain.KnowledgeArticle) bool {
	log := logger.FromContext(ctx).With(zap.String("title", a.Title))

	if !s.Available() {
		metrics.KnowledgeIngestionsTotal.WithLabelValues("disabled").Inc()
		log.Debug("knowledge base disabled, article not ingested")
		return false
	}

	result, err := s.embedder.Embed(ctx, a.EmbeddingInput())
	if err != nil {
		metrics.KnowledgeIngestionsTotal.WithLabelValues("error").Inc()
		log.Warn("embedding article failed", zap.Error(err))
		return false
	}
	a.Embedding = result.Embedding

	if err := s.repo.Add(ctx, a); err != nil {
		metrics.KnowledgeIngestionsTotal.WithLabelValues("error").Inc()
		log.Warn("storing article failed", zap.Error(err))
		return false
	}

	metrics.KnowledgeIngestionsTotal.WithLabelValues("ok").Inc()
	log.Info("knowledge article ingested", zap.String("article_id", a.ID))
	return true
}

// Count returns the number of stored articles.
func (s *Service) Count(ctx context.Context) (int, error) {
	if !s.Available() {
		return 0, domain.ErrKnowledgeDisabled
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}
