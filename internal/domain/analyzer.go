package domain

// AnalyzerRequest is what the pipeline hands to the external analysis
// service: the claim text (with any extracted media text appended) and
// a resolvable media URL when one exists.
type AnalyzerRequest struct {
	ClaimID     string
	Content     string
	ContentType ContentType
	FileURL     string
}

// AnalyzerResult is the validated verdict package returned by the
// analysis service.
type AnalyzerResult struct {
	Verdict         Verdict
	ConfidenceScore float64
	Summary         string
	Evidence        []EvidenceItem
	Sources         []map[string]any
	Reasoning       string
}
