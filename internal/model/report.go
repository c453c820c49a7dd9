package model

// HighlightRange is a half-open span of content runes slated for highlighting
type HighlightRange struct {
	MarkerID string `json:"marker_id"` // Stable DOM id for jump-to-highlight
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// MatchedTerm is a literal matched string and the field it was found in
type MatchedTerm struct {
	Value string `json:"value"`
	Field Field  `json:"field"`
}

// EvidenceRow is one displayable piece of evidence
type EvidenceRow struct {
	ID         string `json:"id"`
	SourceName string `json:"source_name"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet,omitempty"`
	MarkerID   string `json:"marker_id,omitempty"` // Set only when the highlight was realized
}

// HighlightMode records which highlighting path produced the content HTML
type HighlightMode string

const (
	ModeOffsets  HighlightMode = "offsets"  // Offset projection realized at least one marker
	ModeTerms    HighlightMode = "terms"    // Term fallback was applied
	ModeNone     HighlightMode = "none"     // Nothing to highlight
	ModeDisabled HighlightMode = "disabled" // Highlights switched off by the caller
)

// Report is the complete rendering of one article's match evidence
type Report struct {
	ArticleID        string           `json:"article_id"`
	Title            string           `json:"title,omitempty"`
	TitleHTML        string           `json:"title_html,omitempty"`
	ContentHTML      string           `json:"content_html"`
	Mode             HighlightMode    `json:"mode"`
	Ranges           []HighlightRange `json:"ranges,omitempty"`
	AppliedMarkerIDs []string         `json:"applied_marker_ids,omitempty"`

	MatchedTerms      *string       `json:"matched_terms,omitempty"`
	ReasonSummary     string        `json:"reason_summary,omitempty"`
	EvidenceSummary   string        `json:"evidence_summary,omitempty"`
	EvidenceSummaries []string      `json:"evidence_summaries,omitempty"`
	Rows              []EvidenceRow `json:"rows,omitempty"`
}

// HasExplanation reports whether any match explanation is available
func (r *Report) HasExplanation() bool {
	return r.MatchedTerms != nil || r.ReasonSummary != "" || r.EvidenceSummary != "" || len(r.Rows) > 0
}
