package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/truthguard/truthguard/internal/db"
	"github.com/truthguard/truthguard/internal/domain"
)

// store is the consumer interface for knowledge articles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// indexManager is the consumer interface for index lifecycle (ISP).
type indexManager interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// IndexParams tunes the HNSW article index.
type IndexParams struct {
	Dimensions  int
	M           int
	EFConstruct int
}

// Repo persists knowledge articles as hashes with a vector index over
// the article prefix.
type Repo struct {
	store  store
	idx    indexManager
	prefix string
	params IndexParams
}

// New creates a knowledge article repository.
func New(s store, idx indexManager, prefix string, params IndexParams) *Repo {
	return &Repo{store: s, idx: idx, prefix: prefix, params: params}
}

// Hash field names for article records.
const (
	fieldID         = "id"
	fieldTitle      = "title"
	fieldContent    = "content"
	fieldSourceURL  = "source_url"
	fieldSourceType = "source_type"
	fieldVerified   = "verified"
	fieldEmbedding  = "embedding"
	fieldCreatedAt  = "created_at"
)

// EnsureIndex creates the article vector index if it does not exist yet.
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
		Prefix(r.articlePrefix()).
		Tag(fieldSourceType).
		Text(fieldTitle).
		VectorHNSW(fieldEmbedding, r.params.Dimensions, db.DistanceCosine, r.params.M, r.params.EFConstruct).
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

// Add persists an embedded article.
func (r *Repo) Add(ctx context.Context, a *domain.KnowledgeArticle) error {
	if len(a.Embedding) == 0 {
		return fmt.Errorf("article %s has no embedding", a.ID)
	}
	if len(a.Embedding) != r.params.Dimensions {
		return fmt.Errorf("article %s embedding has %d dimensions, index expects %d",
			a.ID, len(a.Embedding), r.params.Dimensions)
	}

	key := r.articleKey(a.ID)
	if err := r.store.HSet(ctx, key, articleToHash(a)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// SearchKNN returns up to topK articles closest to the query vector,
// most similar first.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, topK int) ([]domain.SimilarityMatch, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName(),
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{fieldID, fieldTitle, fieldContent, fieldSourceURL, fieldSourceType, fieldVerified, fieldCreatedAt},
	})
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	matches := make([]domain.SimilarityMatch, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		matches = append(matches, domain.SimilarityMatch{
			Article: articleFromFields(strings.TrimPrefix(entry.Key, r.articlePrefix()), entry.Fields),
			Score:   entry.Score,
		})
	}
	return matches, nil
}

// Count returns the number of stored articles.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

func (r *Repo) articlePrefix() string {
	return r.prefix + "article:"
}

func (r *Repo) articleKey(id string) string {
	return r.articlePrefix() + id
}

func (r *Repo) indexName() string {
	return r.articlePrefix() + "idx"
}

func articleToHash(a *domain.KnowledgeArticle) map[string]string {
	return map[string]string{
		fieldID:         a.ID,
		fieldTitle:      a.Title,
		fieldContent:    a.Content,
		fieldSourceURL:  a.SourceURL,
		fieldSourceType: a.SourceType,
		fieldVerified:   strconv.FormatBool(a.Verified),
		fieldEmbedding:  db.VectorToBytes(a.Embedding),
		fieldCreatedAt:  strconv.FormatInt(a.CreatedAt.Unix(), 10),
	}
}

func articleFromFields(keyID string, fields map[string]string) domain.KnowledgeArticle {
	id := fields[fieldID]
	if id == "" {
		id = keyID
	}
	verified, _ := strconv.ParseBool(fields[fieldVerified])
	createdAt, _ := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)

	a := domain.KnowledgeArticle{
		ID:         id,
		Title:      fields[fieldTitle],
		Content:    fields[fieldContent],
		SourceURL:  fields[fieldSourceURL],
		SourceType: fields[fieldSourceType],
		Verified:   verified,
	}
	if createdAt > 0 {
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
	}
	return a
}
