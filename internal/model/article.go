package model

import "sort"

// Article is the reader's view of one article plus the evidence of every
// stream that matched it. Field names follow the workspace API payload.
type Article struct {
	ID          string `json:"id" yaml:"id"`
	FeedID      string `json:"feed_id,omitempty" yaml:"feed_id,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	ContentHTML string `json:"content_html,omitempty" yaml:"content_html,omitempty"` // Already sanitized
	ContentText string `json:"content_text,omitempty" yaml:"content_text,omitempty"` // Plain text the offsets address

	StreamIDs      []string          `json:"stream_ids,omitempty" yaml:"stream_ids,omitempty"`
	StreamNames    map[string]string `json:"stream_names,omitempty" yaml:"stream_names,omitempty"`
	StreamReasons  map[string]string `json:"stream_match_reasons,omitempty" yaml:"stream_match_reasons,omitempty"`
	StreamEvidence map[string]any    `json:"stream_match_evidence,omitempty" yaml:"stream_match_evidence,omitempty"`
}

// Sources returns the article's evidence sources in stream order.
// Without explicit stream ids, every stream mentioned anywhere is used in sorted order.
func (a *Article) Sources() []EvidenceSource {
	ids := a.StreamIDs
	if len(ids) == 0 {
		ids = a.knownStreamIDs()
	}

	sources := make([]EvidenceSource, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		sources = append(sources, EvidenceSource{
			ID:          id,
			DisplayName: a.StreamNames[id],
			Reason:      a.StreamReasons[id],
			RawEvidence: a.StreamEvidence[id],
		})
	}
	return sources
}

func (a *Article) knownStreamIDs() []string {
	set := make(map[string]bool)
	for id := range a.StreamNames {
		set[id] = true
	}
	for id := range a.StreamReasons {
		set[id] = true
	}
	for id := range a.StreamEvidence {
		set[id] = true
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
