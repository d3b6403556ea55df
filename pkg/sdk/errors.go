package truthguard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors mapped from API error codes.
// Use errors.Is() to check.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrClaimNotFound       = errors.New("claim not found")
	ErrAnalysisNotFound    = errors.New("analysis not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidTransition   = errors.New("invalid claim state transition")
	ErrKnowledgeDisabled   = errors.New("knowledge base disabled")
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
)

// APIError carries the raw error response from the server. It
// unwraps to the matching sentinel error when the code is known.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("truthguard: %s (%s)", e.Message, e.Code)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "unauthorized":
		return ErrUnauthorized
	case "claim_not_found":
		return ErrClaimNotFound
	case "analysis_not_found":
		return ErrAnalysisNotFound
	case "bad_request", "validation_failed":
		return ErrInvalidRequest
	case "invalid_transition":
		return ErrInvalidTransition
	case "knowledge_disabled":
		return ErrKnowledgeDisabled
	case "analyzer_unavailable":
		return ErrAnalyzerUnavailable
	default:
		return nil
	}
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
