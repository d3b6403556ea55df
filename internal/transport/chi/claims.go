package chi

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/truthguard/truthguard/internal/domain"
	claimsuc "github.com/truthguard/truthguard/internal/usecase/claims"
)

const (
	maxUploadBytes = 256 << 20
	anonymousUser  = "anonymous"
	maxPerPage     = 100
	recentClaims   = 5
)

type claimResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	OriginalURL string `json:"original_url,omitempty"`
	FileURL     string `json:"file_url,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type evidenceResponse struct {
	Source           string   `json:"source"`
	Excerpt          string   `json:"excerpt"`
	CredibilityScore *float64 `json:"credibility_score,omitempty"`
	URL              *string  `json:"url,omitempty"`
}

type analysisResponse struct {
	ID              string             `json:"id"`
	ClaimID         string             `json:"claim_id"`
	Verdict         string             `json:"verdict"`
	ConfidenceScore float64            `json:"confidence_score"`
	Summary         string             `json:"summary"`
	Evidence        []evidenceResponse `json:"evidence"`
	Sources         []map[string]any   `json:"sources"`
	Reasoning       string             `json:"reasoning"`
	CreatedAt       string             `json:"created_at"`
}

type claimDetailResponse struct {
	claimResponse
	Analysis     *analysisResponse `json:"analysis,omitempty"`
	CommentCount int               `json:"comment_count"`
}

type claimListResponse struct {
	Items   []claimDetailResponse `json:"items"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

type submitResponse struct {
	claimResponse
	Queued bool `json:"queued"`
}

type statsResponse struct {
	TotalClaims  int                    `json:"total_claims"`
	ByStatus     map[string]int         `json:"by_status"`
	Knowledge    knowledgeStatsResponse `json:"knowledge"`
	RecentClaims []claimResponse        `json:"recent_claims"`
}

type knowledgeStatsResponse struct {
	Available bool `json:"available"`
	Articles  int  `json:"articles"`
}

// submitClaim handles POST /api/claims. Accepts multipart form data
// (content, content_type, original_url, file) or a JSON body for
// file-less submissions.
func (s *Server) submitClaim(w http.ResponseWriter, r *http.Request) {
	in, file, err := parseSubmit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if file != nil {
		defer file.Close()
		in.File = file
	}

	if in.Content == "" && in.File == nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "claim content or file is required")
		return
	}

	in.UserID = UserIDFromContext(r.Context())
	if in.UserID == "" {
		in.UserID = anonymousUser
	}

	c, queued, err := s.claims.Submit(r.Context(), in)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		claimResponse: s.claimToResponse(&c),
		Queued:        queued,
	})
}

func parseSubmit(r *http.Request) (claimsuc.SubmitInput, multipart.File, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Content     string `json:"content"`
			ContentType string `json:"content_type"`
			OriginalURL string `json:"original_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return claimsuc.SubmitInput{}, nil, err
		}
		return claimsuc.SubmitInput{
			Content:     body.Content,
			ContentType: body.ContentType,
			OriginalURL: body.OriginalURL,
		}, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return claimsuc.SubmitInput{}, nil, err
	}

	in := claimsuc.SubmitInput{
		Content:     r.FormValue("content"),
		ContentType: r.FormValue("content_type"),
		OriginalURL: r.FormValue("original_url"),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			return in, nil, nil
		}
		return claimsuc.SubmitInput{}, nil, err
	}
	in.Filename = header.Filename
	return in, file, nil
}

// getClaim handles GET /api/claims/{id}.
func (s *Server) getClaim(w http.ResponseWriter, r *http.Request) {
	d, err := s.claims.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.detailToResponse(&d))
}

// claimStatus handles GET /api/claims/{id}/status.
func (s *Server) claimStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.claims.Status(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":     id,
		"status": string(st),
	})
}

// resubmitClaim handles POST /api/claims/{id}/resubmit. Re-queues a
// pending claim that was dropped by a full queue.
func (s *Server) resubmitClaim(w http.ResponseWriter, r *http.Request) {
	queued, err := s.claims.Resubmit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"queued": queued})
}

// listClaims handles GET /api/claims?q=&status=&user_id=&page=&per_page=.
func (s *Server) listClaims(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := queryInt(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(q.Get("per_page"), 20)
	if perPage < 1 || perPage > maxPerPage {
		perPage = 20
	}

	f := domain.ClaimFilter{
		UserID: q.Get("user_id"),
		Search: q.Get("q"),
		Offset: (page - 1) * perPage,
		Limit:  perPage,
	}
	if raw := q.Get("status"); raw != "" {
		st, err := domain.ParseClaimStatus(raw)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		f.Status = st
	}

	ds, total, err := s.claims.ListDetails(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]claimDetailResponse, len(ds))
	for i := range ds {
		items[i] = s.detailToResponse(&ds[i])
	}

	writeJSON(w, http.StatusOK, claimListResponse{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// stats handles GET /api/stats.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.claims.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	byStatus := make(map[string]int, len(st.ByStatus))
	for k, v := range st.ByStatus {
		byStatus[string(k)] = v
	}

	resp := statsResponse{
		TotalClaims: st.TotalClaims,
		ByStatus:    byStatus,
		Knowledge: knowledgeStatsResponse{
			Available: st.KnowledgeAvailable,
			Articles:  st.KnowledgeArticles,
		},
		RecentClaims: []claimResponse{},
	}

	recent, _, err := s.claims.ListDetails(r.Context(), domain.ClaimFilter{Limit: recentClaims})
	if err == nil {
		for i := range recent {
			resp.RecentClaims = append(resp.RecentClaims, s.claimToResponse(&recent[i].Claim))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) claimToResponse(c *domain.Claim) claimResponse {
	resp := claimResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Content:     c.Content,
		ContentType: string(c.ContentType),
		OriginalURL: c.OriginalURL,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
	if c.FilePath != "" {
		resp.FileURL = s.files.PublicURL(c.FilePath)
	}
	return resp
}

func (s *Server) detailToResponse(d *claimsuc.Details) claimDetailResponse {
	resp := claimDetailResponse{
		claimResponse: s.claimToResponse(&d.Claim),
		CommentCount:  d.CommentCount,
	}
	if d.Analysis != nil {
		resp.Analysis = analysisToResponse(d.Analysis)
	}
	return resp
}

func analysisToResponse(a *domain.Analysis) *analysisResponse {
	evidence := make([]evidenceResponse, len(a.Evidence))
	for i, e := range a.Evidence {
		evidence[i] = evidenceResponse{
			Source:           e.Source,
			Excerpt:          e.Excerpt,
			CredibilityScore: e.CredibilityScore,
			URL:              e.URL,
		}
	}
	return &analysisResponse{
		ID:              a.ID,
		ClaimID:         a.ClaimID,
		Verdict:         string(a.Verdict),
		ConfidenceScore: a.ConfidenceScore,
		Summary:         a.Summary,
		Evidence:        evidence,
		Sources:         a.Sources,
		Reasoning:       a.Reasoning,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
}

func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
