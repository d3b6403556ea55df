package knowledge

import (
	"context"
	"testing"
	"time"

	"github.com/truthguard/truthguard/internal/db"
	"github.com/truthguard/truthguard/internal/domain"
)

// mockStore implements the consumer interfaces for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index, query string) (int, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, ms, "truthguard:", IndexParams{Dimensions: 4, M: 16, EFConstruct: 200})
	return repo, ms
}

func testArticle(t *testing.T) domain.KnowledgeArticle {
	t.Helper()
	return domain.KnowledgeArticle{
		ID:         "article-1",
		Title:      "Fact Check: moon landing claim",
		Content:    "The claim is false.",
		SourceURL:  "https://example.com/claims/claim-1",
		SourceType: domain.SourceTypeFactCheck,
		Verified:   true,
		Embedding:  []float32{0.1, 0.2, 0.3, 0.4},
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
	}
}

func TestAdd_WritesBinaryEmbedding(t *testing.T) {
	repo, ms := newTestRepo(t)
	a := testArticle(t)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(ctx context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	if err := repo.Add(context.Background(), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "truthguard:article:article-1" {
		t.Errorf("unexpected key %q", gotKey)
	}
	if len(gotFields[fieldEmbedding]) != 16 {
		t.Errorf("expected 16-byte embedding, got %d bytes", len(gotFields[fieldEmbedding]))
	}
	got := db.BytesToVector(gotFields[fieldEmbedding])
	if len(got) != 4 || got[0] != 0.1 {
		t.Errorf("embedding round trip mismatch: %v", got)
	}
	if gotFields[fieldVerified] != "true" {
		t.Errorf("expected verified=true, got %q", gotFields[fieldVerified])
	}
}

func TestAdd_RejectsMissingEmbedding(t *testing.T) {
	repo, _ := newTestRepo(t)
	a := testArticle(t)
	a.Embedding = nil

	if err := repo.Add(context.Background(), &a); err == nil {
		t.Fatal("expected error for article without embedding")
	}
}

func TestAdd_RejectsDimensionMismatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	a := testArticle(t)
	a.Embedding = []float32{0.1, 0.2}

	if err := repo.Add(context.Background(), &a); err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestSearchKNN_MapsMatches(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "truthguard:article:idx" {
			t.Errorf("unexpected index %q", q.IndexName)
		}
		if q.K != 5 {
			t.Errorf("expected K=5, got %d", q.K)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{
					Key:   "truthguard:article:article-1",
					Score: 0.92,
					Fields: map[string]string{
						fieldTitle:      "Fact Check: moon landing claim",
						fieldContent:    "The claim is false.",
						fieldSourceType: domain.SourceTypeFactCheck,
						fieldVerified:   "true",
						fieldCreatedAt:  "1700000000",
					},
				},
				{Key: "truthguard:article:article-2", Score: 0.71, Fields: map[string]string{}},
			},
		}, nil
	}

	matches, err := repo.SearchKNN(context.Background(), []float32{0.1, 0.2, 0.3, 0.4}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Score != 0.92 {
		t.Errorf("expected score 0.92, got %v", matches[0].Score)
	}
	if matches[0].Article.ID != "article-1" {
		t.Errorf("expected id from key suffix, got %q", matches[0].Article.ID)
	}
	if !matches[0].Article.Verified {
		t.Error("expected verified article")
	}
	if matches[1].Article.ID != "article-2" {
		t.Errorf("expected fallback id from key, got %q", matches[1].Article.ID)
	}
}

func TestSearchKNN_EmptyResult(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{}, nil
	}

	matches, err := repo.SearchKNN(context.Background(), []float32{0.1, 0.2, 0.3, 0.4}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches != nil {
		t.Errorf("expected nil matches, got %v", matches)
	}
}

func TestEnsureIndex_BuildsVectorField(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotDef *db.IndexDefinition
	ms.createIndexFn = func(ctx context.Context, def *db.IndexDefinition) error {
		gotDef = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotDef == nil {
		t.Fatal("expected CreateIndex to be called")
	}
	var vectorField *db.IndexField
	for i := range gotDef.Fields {
		if gotDef.Fields[i].Type == db.IndexFieldVector {
			vectorField = &gotDef.Fields[i]
		}
	}
	if vectorField == nil {
		t.Fatal("expected a vector field")
	}
	if vectorField.VectorDim != 4 {
		t.Errorf("expected dim 4, got %d", vectorField.VectorDim)
	}
	if vectorField.VectorDistance != db.DistanceCosine {
		t.Errorf("expected cosine distance, got %s", vectorField.VectorDistance)
	}
}
