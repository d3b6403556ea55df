package domain

import "errors"

var (
	// ErrClaimNotFound signals a missing claim.
	ErrClaimNotFound = errors.New("claim not found")
	// ErrAnalysisNotFound signals a claim without an analysis.
	ErrAnalysisNotFound = errors.New("analysis not found")
	// ErrAnalysisExists signals a second analysis for the same claim.
	ErrAnalysisExists = errors.New("analysis already exists")
	// ErrInvalidTransition signals a claim status transition outside the
	// pending -> processing -> {completed|failed} lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidEnum signals a value outside a closed enumeration.
	ErrInvalidEnum = errors.New("invalid enum value")
	// ErrAnalyzerUnavailable signals a failed or malformed analyzer response.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrKnowledgeDisabled signals the knowledge store is permanently
	// disabled for this process (missing embedder or store at startup).
	ErrKnowledgeDisabled = errors.New("knowledge store disabled")
	// ErrUnauthorized signals a missing or unverifiable bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)
