package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/truthguard/truthguard/internal/domain"
)

type articleRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceURL  string `json:"source_url"`
	SourceType string `json:"source_type"`
	Verified   bool   `json:"verified"`
}

type articleResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceURL  string `json:"source_url,omitempty"`
	SourceType string `json:"source_type,omitempty"`
	Verified   bool   `json:"verified"`
	CreatedAt  string `json:"created_at"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"` // 0 means the server default
}

type matchResponse struct {
	Article articleResponse `json:"article"`
	Score   float64         `json:"score"`
}

type searchResponse struct {
	Matches []matchResponse `json:"matches"`
	Count   int             `json:"count"`
}

// addArticle handles POST /api/knowledge/articles, the external
// curation surface for verified reference material.
func (s *Server) addArticle(w http.ResponseWriter, r *http.Request) {
	if !s.knowledge.Available() {
		s.handleDomainError(w, domain.ErrKnowledgeDisabled)
		return
	}

	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "title and content are required")
		return
	}

	a, err := domain.NewKnowledgeArticle(req.Title, req.Content, req.SourceURL, req.SourceType, req.Verified)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if !s.knowledge.AddArticle(r.Context(), &a) {
		writeError(w, http.StatusBadGateway, codeIngestionFailed, "article ingestion failed")
		return
	}

	writeJSON(w, http.StatusCreated, articleToResponse(&a))
}

// searchKnowledge handles POST /api/knowledge/search.
func (s *Server) searchKnowledge(w http.ResponseWriter, r *http.Request) {
	if !s.knowledge.Available() {
		s.handleDomainError(w, domain.ErrKnowledgeDisabled)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	matches := s.knowledge.SearchSimilar(r.Context(), req.Query, req.TopK)

	items := make([]matchResponse, len(matches))
	for i, m := range matches {
		items[i] = matchResponse{
			Article: articleToResponse(&m.Article),
			Score:   m.Score,
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{Matches: items, Count: len(items)})
}

func articleToResponse(a *domain.KnowledgeArticle) articleResponse {
	return articleResponse{
		ID:         a.ID,
		Title:      a.Title,
		Content:    a.Content,
		SourceURL:  a.SourceURL,
		SourceType: a.SourceType,
		Verified:   a.Verified,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
