package pipeline

import (
	"context"
	"testing"

	"github.com/truthguard/truthguard/internal/domain"
	"github.com/truthguard/truthguard/internal/extract"
)

// mockRepo implements ClaimRepository for tests.
type mockRepo struct {
	getFn            func(ctx context.Context, id string) (domain.Claim, error)
	updateStatusFn   func(ctx context.Context, id string, status domain.ClaimStatus) error
	createAnalysisFn func(ctx context.Context, a *domain.Analysis) error

	statusUpdates []domain.ClaimStatus
	analyses      []*domain.Analysis
}

func (m *mockRepo) Get(ctx context.Context, id string) (domain.Claim, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Claim{}, domain.ErrClaimNotFound
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, status domain.ClaimStatus) error {
	m.statusUpdates = append(m.statusUpdates, status)
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockRepo) CreateAnalysis(ctx context.Context, a *domain.Analysis) error {
	m.analyses = append(m.analyses, a)
	if m.createAnalysisFn != nil {
		return m.createAnalysisFn(ctx, a)
	}
	return nil
}

// mockAnalyzer implements Analyzer for tests.
type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, req *domain.AnalyzerRequest) (domain.AnalyzerResult, error)
	requests  []*domain.AnalyzerRequest
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req *domain.AnalyzerRequest) (domain.AnalyzerResult, error) {
	m.requests = append(m.requests, req)
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, req)
	}
	return domain.AnalyzerResult{
		Verdict:         domain.VerdictFalse,
		ConfidenceScore: 0.9,
		Summary:         "Debunked.",
		Reasoning:       "Evidence says otherwise.",
	}, nil
}

// mockExtractor implements Extractor for tests.
type mockExtractor struct {
	result extract.Result
	called bool
}

func (m *mockExtractor) FromClaim(ctx context.Context, c *domain.Claim, fileURL string) extract.Result {
	m.called = true
	return m.result
}

// mockIngester implements KnowledgeIngester for tests.
type mockIngester struct {
	ok       bool
	articles []*domain.KnowledgeArticle
}

func (m *mockIngester) AddArticle(ctx context.Context, a *domain.KnowledgeArticle) bool {
	m.articles = append(m.articles, a)
	return m.ok
}

// mockFiles implements FileResolver for tests.
type mockFiles struct{}

func (mockFiles) PublicURL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return "http://files.local/" + relPath
}

func (mockFiles) ClaimURL(claimID string) string {
	return "http://api.local/claims/" + claimID
}

type fixture struct {
	svc       *Service
	repo      *mockRepo
	analyzer  *mockAnalyzer
	extractor *mockExtractor
	ingester  *mockIngester
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := &mockRepo{}
	an := &mockAnalyzer{}
	ex := &mockExtractor{}
	ing := &mockIngester{ok: true}
	return &fixture{
		svc:       New(repo, an, ex, ing, mockFiles{}),
		repo:      repo,
		analyzer:  an,
		extractor: ex,
		ingester:  ing,
	}
}

func pendingClaim() domain.Claim {
	return domain.Claim{
		ID:          "claim-1",
		UserID:      "user-1",
		Content:     "the moon landing was staged",
		ContentType: domain.ContentText,
		Status:      domain.StatusPending,
	}
}
