package claim

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/truthguard/truthguard/internal/domain"
)

// Hash field names for claim and analysis records.
const (
	fieldID          = "id"
	fieldUserID      = "user_id"
	fieldContent     = "content"
	fieldContentType = "content_type"
	fieldOriginalURL = "original_url"
	fieldFilePath    = "file_path"
	fieldStatus      = "status"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"

	fieldClaimID    = "claim_id"
	fieldVerdict    = "verdict"
	fieldConfidence = "confidence_score"
	fieldSummary    = "summary"
	fieldEvidence   = "evidence"
	fieldSources    = "sources"
	fieldReasoning  = "reasoning"
)

func claimToHash(c *domain.Claim) map[string]string {
	return map[string]string{
		fieldID:          c.ID,
		fieldUserID:      c.UserID,
		fieldContent:     c.Content,
		fieldContentType: string(c.ContentType),
		fieldOriginalURL: c.OriginalURL,
		fieldFilePath:    c.FilePath,
		fieldStatus:      string(c.Status),
		fieldCreatedAt:   strconv.FormatInt(c.CreatedAt.Unix(), 10),
		fieldUpdatedAt:   strconv.FormatInt(c.UpdatedAt.Unix(), 10),
	}
}

func statusUpdateHash(status domain.ClaimStatus) map[string]string {
	return map[string]string{
		fieldStatus:    string(status),
		fieldUpdatedAt: strconv.FormatInt(time.Now().UTC().Unix(), 10),
	}
}

func claimFromHash(fields map[string]string) (domain.Claim, error) {
	ct, err := domain.ParseContentType(fields[fieldContentType])
	if err != nil {
		return domain.Claim{}, fmt.Errorf("claim %s: %w", fields[fieldID], err)
	}
	status, err := domain.ParseClaimStatus(fields[fieldStatus])
	if err != nil {
		return domain.Claim{}, fmt.Errorf("claim %s: %w", fields[fieldID], err)
	}

	return domain.Claim{
		ID:          fields[fieldID],
		UserID:      fields[fieldUserID],
		Content:     fields[fieldContent],
		ContentType: ct,
		OriginalURL: fields[fieldOriginalURL],
		FilePath:    fields[fieldFilePath],
		Status:      status,
		CreatedAt:   parseUnix(fields[fieldCreatedAt]),
		UpdatedAt:   parseUnix(fields[fieldUpdatedAt]),
	}, nil
}

func analysisToHash(a *domain.Analysis) (map[string]string, error) {
	evidence, err := json.Marshal(a.Evidence)
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}
	sources, err := json.Marshal(a.Sources)
	if err != nil {
		return nil, fmt.Errorf("marshal sources: %w", err)
	}

	return map[string]string{
		fieldID:         a.ID,
		fieldClaimID:    a.ClaimID,
		fieldVerdict:    string(a.Verdict),
		fieldConfidence: strconv.FormatFloat(a.ConfidenceScore, 'f', -1, 64),
		fieldSummary:    a.Summary,
		fieldEvidence:   string(evidence),
		fieldSources:    string(sources),
		fieldReasoning:  a.Reasoning,
		fieldCreatedAt:  strconv.FormatInt(a.CreatedAt.Unix(), 10),
	}, nil
}

func analysisFromHash(fields map[string]string) (domain.Analysis, error) {
	verdict, err := domain.ParseVerdict(fields[fieldVerdict])
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("analysis %s: %w", fields[fieldID], err)
	}

	confidence, err := strconv.ParseFloat(fields[fieldConfidence], 64)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("analysis %s: parse confidence: %w", fields[fieldID], err)
	}

	var evidence []domain.EvidenceItem
	if raw := fields[fieldEvidence]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &evidence); err != nil {
			return domain.Analysis{}, fmt.Errorf("analysis %s: parse evidence: %w", fields[fieldID], err)
		}
	}

	var sources []map[string]any
	if raw := fields[fieldSources]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &sources); err != nil {
			return domain.Analysis{}, fmt.Errorf("analysis %s: parse sources: %w", fields[fieldID], err)
		}
	}

	return domain.Analysis{
		ID:              fields[fieldID],
		ClaimID:         fields[fieldClaimID],
		Verdict:         verdict,
		ConfidenceScore: confidence,
		Summary:         fields[fieldSummary],
		Evidence:        evidence,
		Sources:         sources,
		Reasoning:       fields[fieldReasoning],
		CreatedAt:       parseUnix(fields[fieldCreatedAt]),
	}, nil
}

func parseUnix(s string) time.Time {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}

func parseCounter(raw []byte) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("parse counter %q: %w", raw, err)
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}
