package chi

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/truthguard/truthguard/internal/domain"
	claimsuc "github.com/truthguard/truthguard/internal/usecase/claims"
	healthuc "github.com/truthguard/truthguard/internal/usecase/health"
)

type mockClaims struct {
	submitFn      func(ctx context.Context, in claimsuc.SubmitInput) (domain.Claim, bool, error)
	resubmitFn    func(ctx context.Context, claimID string) (bool, error)
	getFn         func(ctx context.Context, id string) (claimsuc.Details, error)
	listDetailsFn func(ctx context.Context, f domain.ClaimFilter) ([]claimsuc.Details, int, error)
	statusFn      func(ctx context.Context, id string) (domain.ClaimStatus, error)
	statsFn       func(ctx context.Context) (claimsuc.Stats, error)
}

func (m *mockClaims) Submit(ctx context.Context, in claimsuc.SubmitInput) (domain.Claim, bool, error) {
	return m.submitFn(ctx, in)
}

func (m *mockClaims) Resubmit(ctx context.Context, claimID string) (bool, error) {
	return m.resubmitFn(ctx, claimID)
}

func (m *mockClaims) Get(ctx context.Context, id string) (claimsuc.Details, error) {
	return m.getFn(ctx, id)
}

func (m *mockClaims) ListDetails(ctx context.Context, f domain.ClaimFilter) ([]claimsuc.Details, int, error) {
	return m.listDetailsFn(ctx, f)
}

func (m *mockClaims) Status(ctx context.Context, id string) (domain.ClaimStatus, error) {
	return m.statusFn(ctx, id)
}

func (m *mockClaims) Stats(ctx context.Context) (claimsuc.Stats, error) {
	return m.statsFn(ctx)
}

type mockKnowledge struct {
	availableFn  func() bool
	searchFn     func(ctx context.Context, text string, topK int) []domain.SimilarityMatch
	addArticleFn func(ctx context.Context, a *domain.KnowledgeArticle) bool
}

func (m *mockKnowledge) Available() bool {
	return m.availableFn()
}

func (m *mockKnowledge) SearchSimilar(ctx context.Context, text string, topK int) []domain.SimilarityMatch {
	return m.searchFn(ctx, text, topK)
}

func (m *mockKnowledge) AddArticle(ctx context.Context, a *domain.KnowledgeArticle) bool {
	return m.addArticleFn(ctx, a)
}

type mockHealth struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealth) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

type mockResolver struct {
	publicURLFn func(storedPath string) string
}

func (m *mockResolver) PublicURL(storedPath string) string {
	if m.publicURLFn == nil {
		return "http://localhost/files/" + storedPath
	}
	return m.publicURLFn(storedPath)
}

func newTestRouter(claims *mockClaims, knowledge *mockKnowledge, health *mockHealth) chi.Router {
	s := NewServer(claims, knowledge, health, &mockResolver{}, "testdata", zap.NewNop())
	r := chi.NewRouter()
	s.Mount(r)
	return r
}
