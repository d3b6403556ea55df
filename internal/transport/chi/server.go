// Package chi is the HTTP surface: claim submission and retrieval,
// knowledge base curation and search, stats, health and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/truthguard/truthguard/internal/domain"
	claimsuc "github.com/truthguard/truthguard/internal/usecase/claims"
	healthuc "github.com/truthguard/truthguard/internal/usecase/health"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeUnauthorized        = "unauthorized"
	codeClaimNotFound       = "claim_not_found"
	codeAnalysisNotFound    = "analysis_not_found"
	codeInvalidTransition   = "invalid_transition"
	codeAnalyzerUnavailable = "analyzer_unavailable"
	codeEmbeddingProvider   = "embedding_provider_error"
	codeKnowledgeDisabled   = "knowledge_disabled"
	codeIngestionFailed     = "ingestion_failed"
	codeInternalError       = "internal_error"
)

type claimService interface {
	Submit(ctx context.Context, in claimsuc.SubmitInput) (domain.Claim, bool, error)
	Resubmit(ctx context.Context, claimID string) (bool, error)
	Get(ctx context.Context, id string) (claimsuc.Details, error)
	ListDetails(ctx context.Context, f domain.ClaimFilter) ([]claimsuc.Details, int, error)
	Status(ctx context.Context, id string) (domain.ClaimStatus, error)
	Stats(ctx context.Context) (claimsuc.Stats, error)
}

type knowledgeService interface {
	Available() bool
	SearchSimilar(ctx context.Context, text string, topK int) []domain.SimilarityMatch
	AddArticle(ctx context.Context, a *domain.KnowledgeArticle) bool
}

type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

type fileResolver interface {
	PublicURL(storedPath string) string
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	claims        claimService
	knowledge     knowledgeService
	health        healthService
	files         fileResolver
	filesRoot     string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. filesRoot is the directory
// served under /files/.
func NewServer(
	claims claimService,
	knowledge knowledgeService,
	health healthService,
	files fileResolver,
	filesRoot string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		claims:    claims,
		knowledge: knowledge,
		health:    health,
		files:     files,
		filesRoot: filesRoot,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrClaimNotFound, http.StatusNotFound, codeClaimNotFound),
		sentinelHandler(domain.ErrAnalysisNotFound, http.StatusNotFound, codeAnalysisNotFound),
		sentinelHandler(domain.ErrInvalidEnum, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidTransition, http.StatusConflict, codeInvalidTransition),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrAnalyzerUnavailable, http.StatusBadGateway, codeAnalyzerUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrKnowledgeDisabled, http.StatusServiceUnavailable, codeKnowledgeDisabled),
	}
	return s
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/claims", s.submitClaim)
		r.Get("/claims", s.listClaims)
		r.Get("/claims/{id}", s.getClaim)
		r.Get("/claims/{id}/status", s.claimStatus)
		r.Post("/claims/{id}/resubmit", s.resubmitClaim)
		r.Get("/stats", s.stats)
		r.Post("/knowledge/articles", s.addArticle)
		r.Post("/knowledge/search", s.searchKnowledge)
	})

	r.Get("/health", s.healthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(s.filesRoot))))
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrClaimNotFound,
		domain.ErrAnalysisNotFound,
		domain.ErrInvalidEnum,
		domain.ErrInvalidTransition,
		domain.ErrUnauthorized,
		domain.ErrAnalyzerUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrKnowledgeDisabled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
