package domain

import (
	"errors"
	"testing"
)

func TestClaimStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to ClaimStatus
		ok       bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusPending, false},
		{StatusFailed, StatusProcessing, false},
		{StatusFailed, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestClaimStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() || StatusProcessing.Terminal() {
		t.Error("pending/processing must not be terminal")
	}
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Error("completed/failed must be terminal")
	}
}

func TestParseContentType(t *testing.T) {
	for _, ct := range ContentTypes {
		parsed, err := ParseContentType(string(ct))
		if err != nil {
			t.Fatalf("ParseContentType(%q): %v", ct, err)
		}
		if parsed != ct {
			t.Errorf("ParseContentType(%q) = %q", ct, parsed)
		}
	}

	if _, err := ParseContentType("audio"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestParseVerdict(t *testing.T) {
	for _, v := range []string{"true", "false", "misleading", "uncertain"} {
		if _, err := ParseVerdict(v); err != nil {
			t.Errorf("ParseVerdict(%q): %v", v, err)
		}
	}
	if _, err := ParseVerdict("maybe"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestNewClaim(t *testing.T) {
	c, err := NewClaim("user-1", "The moon is made of cheese", ContentText, "", "")
	if err != nil {
		t.Fatalf("NewClaim: %v", err)
	}
	if c.Status != StatusPending {
		t.Errorf("new claim status = %s, want pending", c.Status)
	}
	if c.ID == "" {
		t.Error("new claim has no ID")
	}

	if _, err := NewClaim("", "content", ContentText, "", ""); err == nil {
		t.Error("expected error for missing user")
	}
	if _, err := NewClaim("user-1", "", ContentText, "", ""); err == nil {
		t.Error("expected error for empty content without file")
	}
	if _, err := NewClaim("user-1", "caption", ContentType("gif"), "", ""); err == nil {
		t.Error("expected error for invalid content type")
	}
}

func TestNewAnalysis_Validation(t *testing.T) {
	if _, err := NewAnalysis("", VerdictTrue, 0.9, "s", nil, nil, "r"); err == nil {
		t.Error("expected error for missing claim ID")
	}
	if _, err := NewAnalysis("c1", Verdict("bogus"), 0.9, "s", nil, nil, "r"); err == nil {
		t.Error("expected error for invalid verdict")
	}
	if _, err := NewAnalysis("c1", VerdictFalse, 1.2, "s", nil, nil, "r"); err == nil {
		t.Error("expected error for confidence out of range")
	}

	a, err := NewAnalysis("c1", VerdictMisleading, 0.7, "summary", nil, nil, "reasoning")
	if err != nil {
		t.Fatalf("NewAnalysis: %v", err)
	}
	if a.ClaimID != "c1" {
		t.Errorf("claim ID = %q", a.ClaimID)
	}
}
