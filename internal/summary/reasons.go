package summary

import (
	"fmt"
	"strings"

	"github.com/pexnet/sift-highlight/internal/model"
)

// Separator joins per-source summaries
const Separator = " · "

// ReasonSummary joins "<name>: <reason>" for every source that has both
func ReasonSummary(sources []model.SourceHits) string {
	var parts []string
	for _, src := range sources {
		if src.Source.DisplayName == "" || src.Source.Reason == "" {
			continue
		}
		parts = append(parts, src.Source.DisplayName+": "+src.Source.Reason)
	}
	return strings.Join(parts, Separator)
}

// EvidenceSummaries describes each source by its most telling evidence:
// keyword, then regex, then query, then classifier.
func EvidenceSummaries(sources []model.SourceHits) []string {
	var out []string
	for _, src := range sources {
		if src.Source.DisplayName == "" {
			continue
		}
		desc := describe(src.Hits)
		if desc == "" {
			continue
		}
		out = append(out, src.Source.DisplayName+": "+desc)
	}
	return out
}

// EvidenceSummary is EvidenceSummaries joined into one line
func EvidenceSummary(sources []model.SourceHits) string {
	return strings.Join(EvidenceSummaries(sources), Separator)
}

func describe(hits []model.Hit) string {
	if h, ok := first[model.KeywordHit](hits); ok {
		return `keyword "` + h.Value + `"` + inSnippet(h.Snippet)
	}
	if h, ok := first[model.RegexHit](hits); ok {
		return "regex /" + h.Pattern + "/" + inSnippet(h.Snippet)
	}
	_, hasQueryHit := first[model.QueryHit](hits)
	_, hasExpression := first[model.QueryExpression](hits)
	if hasQueryHit || hasExpression {
		return "query expression matched"
	}
	if h, ok := first[model.ClassifierSummary](hits); ok {
		return joinNonEmpty(", ", h.Plugin, h.Reason, formatScore("confidence", h.Confidence))
	}
	if h, ok := first[model.ClassifierFinding](hits); ok {
		return joinNonEmpty(", ", h.Label, h.Text, formatScore("score", h.Score))
	}
	return ""
}

// first returns the first hit of type T
func first[T model.Hit](hits []model.Hit) (T, bool) {
	for _, hit := range hits {
		if h, ok := hit.(T); ok {
			return h, true
		}
	}
	var zero T
	return zero, false
}

func inSnippet(snippet string) string {
	if snippet == "" {
		return ""
	}
	return ` in "` + snippet + `"`
}

func formatScore(label string, score *float64) string {
	if score == nil {
		return ""
	}
	return fmt.Sprintf("%s %.2f", label, *score)
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
