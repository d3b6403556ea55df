package truthguard

import (
	"context"
	"net/http"
	"time"
)

// KnowledgeService manages the fact-check knowledge base.
type KnowledgeService struct {
	c *Client
}

// AddArticle ingests an article into the knowledge base. Returns
// ErrKnowledgeDisabled when the server runs without an embedding
// provider.
func (s *KnowledgeService) AddArticle(ctx context.Context, req ArticleRequest) (article Article, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("knowledge.add_article", start, err) }()

	err = s.c.doJSON(ctx, http.MethodPost, "/api/knowledge/articles", req, &article)
	return article, err
}

// Search finds articles semantically similar to the query, best first.
func (s *KnowledgeService) Search(ctx context.Context, query string) (matches []Match, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("knowledge.search", start, err) }()

	req := struct {
		Query string `json:"query"`
	}{Query: query}
	var out struct {
		Matches []Match `json:"matches"`
		Count   int     `json:"count"`
	}
	err = s.c.doJSON(ctx, http.MethodPost, "/api/knowledge/search", req, &out)
	return out.Matches, err
}
