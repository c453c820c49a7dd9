// Package summary derives human-readable match explanations from normalized evidence.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pexnet/sift-highlight/internal/extract"
	"github.com/pexnet/sift-highlight/internal/model"
)

// DefaultMaxTerms is the number of matched terms shown before the "+N" remainder
const DefaultMaxTerms = 3

// maxFindingTermRunes limits finding text used as a highlight term
const maxFindingTermRunes = 80

// MatchedTerms summarizes the distinct matched terms of all sources, title terms
// first, e.g. `Darktrace (title), Darktrace (content) +2`.
// Returns nil when maxTerms <= 0 or nothing matched.
func MatchedTerms(sources []model.SourceHits, maxTerms int) *string {
	if maxTerms <= 0 {
		return nil
	}

	terms := CollectMatchedTerms(sources)
	if len(terms) == 0 {
		return nil
	}

	shown := terms
	if len(shown) > maxTerms {
		shown = shown[:maxTerms]
	}
	parts := make([]string, len(shown))
	for i, term := range shown {
		parts[i] = fmt.Sprintf("%s (%s)", term.Value, term.Field)
	}

	out := strings.Join(parts, ", ")
	if remainder := len(terms) - len(shown); remainder > 0 {
		out = fmt.Sprintf("%s +%d", out, remainder)
	}
	return &out
}

// CollectMatchedTerms returns the deduplicated (value, field) pairs in first-seen
// order, stably reordered so title terms precede content terms.
// Hits without a known field are left out.
func CollectMatchedTerms(sources []model.SourceHits) []model.MatchedTerm {
	var terms []model.MatchedTerm
	seen := make(map[string]bool)

	for _, src := range sources {
		for _, hit := range src.Hits {
			value, field := literal(hit)
			if value == "" || field == model.FieldUnknown {
				continue
			}
			key := extract.FoldKey(value) + "|" + field.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			terms = append(terms, model.MatchedTerm{Value: value, Field: field})
		}
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Field == model.FieldTitle && terms[j].Field != model.FieldTitle
	})
	return terms
}

// HighlightTerms returns the literal strings used for term highlighting.
// Content terms include hits whose field is unknown.
func HighlightTerms(sources []model.SourceHits) (content []string, title []string) {
	seenContent := make(map[string]bool)
	seenTitle := make(map[string]bool)

	add := func(list []string, seen map[string]bool, value string) []string {
		key := extract.FoldKey(value)
		if seen[key] {
			return list
		}
		seen[key] = true
		return append(list, value)
	}

	for _, src := range sources {
		for _, hit := range src.Hits {
			value, field := highlightLiteral(hit)
			if value == "" {
				continue
			}
			if field == model.FieldTitle {
				title = add(title, seenTitle, value)
				continue
			}
			content = add(content, seenContent, value)
		}
	}
	return content, title
}

// literal returns the matched string a hit stands for and its field
func literal(hit model.Hit) (string, model.Field) {
	switch h := hit.(type) {
	case model.KeywordHit:
		return h.Value, h.Field
	case model.RegexHit:
		return h.Value, h.Field
	case model.QueryHit:
		return h.Token, h.Field
	case model.ClassifierFinding:
		if h.Value != "" {
			return h.Value, h.Field
		}
		return h.Text, h.Field
	default:
		return "", model.FieldUnknown
	}
}

// highlightLiteral is literal, except long finding texts are not usable as terms
func highlightLiteral(hit model.Hit) (string, model.Field) {
	if f, ok := hit.(model.ClassifierFinding); ok && f.Value == "" {
		if utf8.RuneCountInString(f.Text) > maxFindingTermRunes {
			return "", f.Field
		}
	}
	return literal(hit)
}
