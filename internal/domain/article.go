package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceTypeFactCheck marks articles generated from completed claim analyses.
const SourceTypeFactCheck = "fact-check"

// KnowledgeArticle is a stored, embedded text unit used for similarity
// retrieval. Immutable once written; there is no update path.
type KnowledgeArticle struct {
	ID         string
	Title      string
	Content    string
	SourceURL  string
	SourceType string
	Verified   bool
	Embedding  []float32
	CreatedAt  time.Time
}

// NewKnowledgeArticle validates and creates an article without an embedding.
// The embedding is computed at ingestion time from title and content.
func NewKnowledgeArticle(title, content, sourceURL, sourceType string, verified bool) (KnowledgeArticle, error) {
	if title == "" {
		return KnowledgeArticle{}, fmt.Errorf("article title is required")
	}
	if content == "" {
		return KnowledgeArticle{}, fmt.Errorf("article content is required")
	}

	return KnowledgeArticle{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		SourceURL:  sourceURL,
		SourceType: sourceType,
		Verified:   verified,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// EmbeddingInput is the text embedded for an article. Title and content are
// concatenated for a richer semantic signal than either field alone.
func (a *KnowledgeArticle) EmbeddingInput() string {
	return a.Title + " " + a.Content
}

// SimilarityMatch pairs a retrieved article with its similarity score.
// Ephemeral: produced by queries, never persisted.
type SimilarityMatch struct {
	Article KnowledgeArticle
	Score   float64
}
