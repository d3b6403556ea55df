package claim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/truthguard/truthguard/internal/db"
	"github.com/truthguard/truthguard/internal/domain"
)

// store is the consumer interface for claims (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// indexManager is the consumer interface for index lifecycle (ISP).
type indexManager interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo persists claims and their analyses as hashes with an FT index
// over the claim prefix.
type Repo struct {
	store  store
	idx    indexManager
	prefix string
}

// New creates a claim repository. prefix is the storage key prefix,
// e.g. "truthguard:".
func New(s store, idx indexManager, prefix string) *Repo {
	return &Repo{store: s, idx: idx, prefix: prefix}
}

// EnsureIndex creates the claim FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()

	exists, err := r.idx.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(name).
		Prefix(r.claimPrefix()).
		Tag("user_id").
		Tag("status").
		Text("content").
		NumericSortable("created_at").
		Build()
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}

	if err := r.idx.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// Create persists a new claim.
func (r *Repo) Create(ctx context.Context, c *domain.Claim) error {
	key := r.claimKey(c.ID)
	if err := r.store.HSet(ctx, key, claimToHash(c)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get returns a claim by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Claim, error) {
	key := r.claimKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.Claim{}, domain.ErrClaimNotFound
	}
	return claimFromHash(fields)
}

// UpdateStatus persists a status change and refreshes updated_at.
// Transition legality is the caller's concern; the repository only
// refuses to touch a claim that does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status domain.ClaimStatus) error {
	key := r.claimKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrClaimNotFound
	}

	if err := r.store.HSet(ctx, key, statusUpdateHash(status)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// List returns claims matching the filter, newest first, plus the total
// match count for pagination.
func (r *Repo) List(ctx context.Context, f domain.ClaimFilter) ([]domain.Claim, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}

	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: r.indexName(),
		Query:     buildListQuery(f),
		Offset:    f.Offset,
		Limit:     f.Limit,
		SortBy:    "created_at",
		SortDesc:  true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search claims: %w", err)
	}
	if result == nil || result.Total == 0 {
		return nil, 0, nil
	}

	claims := make([]domain.Claim, 0, len(result.Entries))
	for _, entry := range result.Entries {
		c, err := claimFromHash(entry.Fields)
		if err != nil {
			continue
		}
		claims = append(claims, c)
	}

	return claims, result.Total, nil
}

// CountByStatus returns the number of claims in the given status.
func (r *Repo) CountByStatus(ctx context.Context, status domain.ClaimStatus) (int, error) {
	query := fmt.Sprintf("@status:{%s}", escapeTag(string(status)))
	n, err := r.store.SearchCount(ctx, r.indexName(), query)
	if err != nil {
		return 0, fmt.Errorf("count claims by status %s: %w", status, err)
	}
	return n, nil
}

// CountAll returns the total number of claims.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return n, nil
}

// CreateAnalysis persists the analysis for a claim. A claim holds at
// most one analysis.
func (r *Repo) CreateAnalysis(ctx context.Context, a *domain.Analysis) error {
	key := r.analysisKey(a.ClaimID)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		return domain.ErrAnalysisExists
	}

	fields, err := analysisToHash(a)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// GetAnalysisByClaim returns the analysis attached to a claim.
func (r *Repo) GetAnalysisByClaim(ctx context.Context, claimID string) (domain.Analysis, error) {
	key := r.analysisKey(claimID)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.Analysis{}, domain.ErrAnalysisNotFound
	}
	return analysisFromHash(fields)
}

// CommentCount returns the comment counter for a claim. A missing
// counter means zero comments.
func (r *Repo) CommentCount(ctx context.Context, claimID string) (int, error) {
	key := r.commentCountKey(claimID)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	return parseCounter(raw)
}

func (r *Repo) claimPrefix() string {
	return r.prefix + "claim:"
}

func (r *Repo) claimKey(id string) string {
	return r.claimPrefix() + id
}

func (r *Repo) analysisKey(claimID string) string {
	return r.prefix + "analysis:" + claimID
}

func (r *Repo) commentCountKey(claimID string) string {
	return r.claimKey(claimID) + ":comments"
}

func (r *Repo) indexName() string {
	return r.claimPrefix() + "idx"
}

// buildListQuery assembles the FT.SEARCH query string for a filter.
func buildListQuery(f domain.ClaimFilter) string {
	var parts []string
	if f.UserID != "" {
		parts = append(parts, fmt.Sprintf("@user_id:{%s}", escapeTag(f.UserID)))
	}
	if f.Status != "" {
		parts = append(parts, fmt.Sprintf("@status:{%s}", escapeTag(string(f.Status))))
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("@content:(%s)", escapeText(f.Search)))
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// tagEscaper escapes characters RediSearch treats as syntax inside TAG values.
var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>", "{", "\\{", "}", "\\}",
	"[", "\\[", "]", "\\]", "\"", "\\\"", "'", "\\'", ":", "\\:", ";", "\\;",
	"!", "\\!", "@", "\\@", "#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)", "-", "\\-", "+", "\\+",
	"=", "\\=", "~", "\\~", "|", "\\|", "/", "\\/", " ", "\\ ",
)

func escapeTag(v string) string {
	return tagEscaper.Replace(v)
}

// escapeText strips query syntax from a free-text search term, keeping
// plain word matching.
var textEscaper = strings.NewReplacer(
	"(", " ", ")", " ", "{", " ", "}", " ", "[", " ", "]", " ",
	"\"", " ", "'", " ", "|", " ", "@", " ", "-", " ", "~", " ",
	"*", " ", ":", " ", ";", " ",
)

func escapeText(v string) string {
	return strings.TrimSpace(textEscaper.Replace(v))
}
