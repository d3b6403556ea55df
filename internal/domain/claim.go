package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContentType classifies what a submitted claim carries.
type ContentType string

const (
	// ContentText is a plain text assertion.
	ContentText ContentType = "text"
	// ContentURL is a link to external content.
	ContentURL ContentType = "url"
	// ContentImage is an uploaded or linked image.
	ContentImage ContentType = "image"
	// ContentVideo is an uploaded or linked video.
	ContentVideo ContentType = "video"
)

// ContentTypes lists every valid content type. Extraction strategy tables
// must cover all of them.
var ContentTypes = []ContentType{ContentText, ContentURL, ContentImage, ContentVideo}

// ParseContentType validates a raw content type value.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(s)
	switch ct {
	case ContentText, ContentURL, ContentImage, ContentVideo:
		return ct, nil
	}
	return "", fmt.Errorf("%w: content type %q", ErrInvalidEnum, s)
}

// ClaimStatus is the claim processing state.
type ClaimStatus string

const (
	// StatusPending means the claim is queued but not yet picked up.
	StatusPending ClaimStatus = "pending"
	// StatusProcessing means the pipeline is working on the claim.
	StatusProcessing ClaimStatus = "processing"
	// StatusCompleted means analysis finished and is attached.
	StatusCompleted ClaimStatus = "completed"
	// StatusFailed means processing failed; no analysis exists.
	StatusFailed ClaimStatus = "failed"
)

// ParseClaimStatus validates a raw status value.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	st := ClaimStatus(s)
	switch st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("%w: claim status %q", ErrInvalidEnum, s)
}

// Terminal reports whether the status has no outgoing transitions.
func (s ClaimStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo encodes the monotonic lifecycle
// pending -> processing -> {completed | failed}.
// A claim never re-enters pending and never leaves a terminal state.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Claim is a user-submitted assertion to be fact-checked.
// Mutated only by the pipeline (status) after submission; never deleted.
type Claim struct {
	ID          string
	UserID      string
	Content     string
	ContentType ContentType
	OriginalURL string
	FilePath    string
	Status      ClaimStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewClaim validates and creates a pending claim.
func NewClaim(userID, content string, ct ContentType, originalURL, filePath string) (Claim, error) {
	if userID == "" {
		return Claim{}, fmt.Errorf("user ID is required")
	}
	if content == "" && filePath == "" {
		return Claim{}, fmt.Errorf("claim content or file is required")
	}
	if _, err := ParseContentType(string(ct)); err != nil {
		return Claim{}, err
	}

	now := time.Now().UTC()
	return Claim{
		ID:          uuid.NewString(),
		UserID:      userID,
		Content:     content,
		ContentType: ct,
		OriginalURL: originalURL,
		FilePath:    filePath,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasMedia reports whether the claim references stored or linked media
// that an extraction strategy can work on.
func (c *Claim) HasMedia() bool {
	return c.ContentType == ContentImage || c.ContentType == ContentVideo
}

// ClaimFilter narrows a claim listing. Zero fields mean no constraint.
type ClaimFilter struct {
	UserID string
	Status ClaimStatus
	Search string
	Offset int
	Limit  int
}
