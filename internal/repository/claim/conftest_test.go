package claim

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
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	existsFn      func(ctx context.Context, key string) (bool, error)
	getFn         func(ctx context.Context, key string) ([]byte, error)
	searchListFn  func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
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

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
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
	repo := New(ms, ms, "truthguard:")
	return repo, ms
}

func testClaim(t *testing.T) domain.Claim {
	t.Helper()
	return domain.Claim{
		ID:          "claim-1",
		UserID:      "user-1",
		Content:     "the moon landing was staged",
		ContentType: domain.ContentText,
		Status:      domain.StatusPending,
		CreatedAt:   time.Unix(1700000000, 0).UTC(),
		UpdatedAt:   time.Unix(1700000000, 0).UTC(),
	}
}

func testAnalysis(t *testing.T) domain.Analysis {
	t.Helper()
	cred := 0.9
	return domain.Analysis{
		ID:              "analysis-1",
		ClaimID:         "claim-1",
		Verdict:         domain.VerdictFalse,
		ConfidenceScore: 0.97,
		Summary:         "Extensively debunked.",
		Evidence: []domain.EvidenceItem{
			{Source: "NASA", Excerpt: "retroreflectors remain on the surface", CredibilityScore: &cred},
		},
		Sources:   []map[string]any{{"name": "NASA", "url": "https://nasa.gov"}},
		Reasoning: "Multiple independent lines of evidence.",
		CreatedAt: time.Unix(1700000100, 0).UTC(),
	}
}
