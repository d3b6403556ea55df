package knowledge

import (
	"context"

	"github.com/truthguard/truthguard/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ArticleRepository defines the storage contract for knowledge articles.
type ArticleRepository interface {
	Add(ctx context.Context, a *domain.KnowledgeArticle) error
	SearchKNN(ctx context.Context, vector []float32, topK int) ([]domain.SimilarityMatch, error)
	Count(ctx context.Context) (int, error)
}
