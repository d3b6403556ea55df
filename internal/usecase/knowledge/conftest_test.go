package knowledge

import (
	"context"
	"testing"

	"github.com/truthguard/truthguard/internal/domain"
)

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3, 0.4}}, nil
}

// mockArticleRepo implements ArticleRepository for tests.
type mockArticleRepo struct {
	addFn       func(ctx context.Context, a *domain.KnowledgeArticle) error
	searchKNNFn func(ctx context.Context, vector []float32, topK int) ([]domain.SimilarityMatch, error)
	countFn     func(ctx context.Context) (int, error)
}

func (m *mockArticleRepo) Add(ctx context.Context, a *domain.KnowledgeArticle) error {
	if m.addFn != nil {
		return m.addFn(ctx, a)
	}
	return nil
}

func (m *mockArticleRepo) SearchKNN(ctx context.Context, vector []float32, topK int) ([]domain.SimilarityMatch, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, vector, topK)
	}
	return nil, nil
}

func (m *mockArticleRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func newTestService(t *testing.T) (*Service, *mockEmbedder, *mockArticleRepo) {
	t.Helper()
	emb := &mockEmbedder{}
	repo := &mockArticleRepo{}
	return New(emb, repo, 0.7, 5), emb, repo
}

func testArticle(t *testing.T) *domain.KnowledgeArticle {
	t.Helper()
	a, err := domain.NewKnowledgeArticle(
		"Fact Check: moon landing claim",
		"The claim is false.",
		"https://example.com/claims/claim-1",
		domain.SourceTypeFactCheck,
		true,
	)
	if err != nil {
		t.Fatal(err)
	}
	return &a
}
