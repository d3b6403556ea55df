package claims

import (
	"context"
	"io"

	"github.com/truthguard/truthguard/internal/domain"
	"github.com/truthguard/truthguard/internal/queue"
)

type mockRepo struct {
	createFn        func(ctx context.Context, c *domain.Claim) error
	getFn           func(ctx context.Context, id string) (domain.Claim, error)
	listFn          func(ctx context.Context, f domain.ClaimFilter) ([]domain.Claim, int, error)
	countByStatusFn func(ctx context.Context, status domain.ClaimStatus) (int, error)
	countAllFn      func(ctx context.Context) (int, error)
	getAnalysisFn   func(ctx context.Context, claimID string) (domain.Analysis, error)
	commentCountFn  func(ctx context.Context, claimID string) (int, error)
}

func (m *mockRepo) Create(ctx context.Context, c *domain.Claim) error {
	return m.createFn(ctx, c)
}

func (m *mockRepo) Get(ctx context.Context, id string) (domain.Claim, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) List(ctx context.Context, f domain.ClaimFilter) ([]domain.Claim, int, error) {
	return m.listFn(ctx, f)
}

func (m *mockRepo) CountByStatus(ctx context.Context, status domain.ClaimStatus) (int, error) {
	return m.countByStatusFn(ctx, status)
}

func (m *mockRepo) CountAll(ctx context.Context) (int, error) {
	return m.countAllFn(ctx)
}

func (m *mockRepo) GetAnalysisByClaim(ctx context.Context, claimID string) (domain.Analysis, error) {
	return m.getAnalysisFn(ctx, claimID)
}

func (m *mockRepo) CommentCount(ctx context.Context, claimID string) (int, error) {
	return m.commentCountFn(ctx, claimID)
}

type mockFiles struct {
	saveFn func(ownerID, filename string, r io.Reader) (string, error)
}

func (m *mockFiles) Save(ownerID, filename string, r io.Reader) (string, error) {
	return m.saveFn(ownerID, filename, r)
}

type mockQueue struct {
	enqueueFn func(job queue.Job) bool
}

func (m *mockQueue) Enqueue(job queue.Job) bool {
	return m.enqueueFn(job)
}

type mockProcessor struct {
	processFn func(ctx context.Context, claimID string) error
}

func (m *mockProcessor) Process(ctx context.Context, claimID string) error {
	return m.processFn(ctx, claimID)
}

type mockKnowledge struct {
	availableFn func() bool
	countFn     func(ctx context.Context) (int, error)
}

func (m *mockKnowledge) Available() bool {
	return m.availableFn()
}

func (m *mockKnowledge) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}
