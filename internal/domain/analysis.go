package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Verdict is the closed classification of a claim's truthfulness.
type Verdict string

const (
	// VerdictTrue means the claim is supported by evidence.
	VerdictTrue Verdict = "true"
	// VerdictFalse means the claim is contradicted by evidence.
	VerdictFalse Verdict = "false"
	// VerdictMisleading means the claim mixes truth with distortion.
	VerdictMisleading Verdict = "misleading"
	// VerdictUncertain means the evidence is insufficient either way.
	VerdictUncertain Verdict = "uncertain"
)

// ParseVerdict validates a raw verdict value.
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(s)
	switch v {
	case VerdictTrue, VerdictFalse, VerdictMisleading, VerdictUncertain:
		return v, nil
	}
	return "", fmt.Errorf("%w: verdict %q", ErrInvalidEnum, s)
}

// EvidenceItem is a single piece of supporting evidence in an analysis.
type EvidenceItem struct {
	Source           string   `json:"source"`
	Excerpt          string   `json:"excerpt"`
	CredibilityScore *float64 `json:"credibility_score,omitempty"`
	URL              *string  `json:"url,omitempty"`
}

// Analysis is the verdict and supporting evidence produced for a claim.
// Belongs to exactly one claim, created once at pipeline completion and
// immutable thereafter; re-analysis means a new claim, not a new analysis.
type Analysis struct {
	ID              string
	ClaimID         string
	Verdict         Verdict
	ConfidenceScore float64
	Summary         string
	Evidence        []EvidenceItem
	Sources         []map[string]any
	Reasoning       string
	CreatedAt       time.Time
}

// NewAnalysis validates and creates an analysis for a claim.
func NewAnalysis(
	claimID string, verdict Verdict, confidence float64,
	summary string, evidence []EvidenceItem, sources []map[string]any, reasoning string,
) (Analysis, error) {
	if claimID == "" {
		return Analysis{}, fmt.Errorf("claim ID is required")
	}
	if _, err := ParseVerdict(string(verdict)); err != nil {
		return Analysis{}, err
	}
	if confidence < 0 || confidence > 1 {
		return Analysis{}, fmt.Errorf("confidence score %g out of [0,1]", confidence)
	}

	return Analysis{
		ID:              uuid.NewString(),
		ClaimID:         claimID,
		Verdict:         verdict,
		ConfidenceScore: confidence,
		Summary:         summary,
		Evidence:        evidence,
		Sources:         sources,
		Reasoning:       reasoning,
		CreatedAt:       time.Now().UTC(),
	}, nil
}
