package summary

import (
	"fmt"

	"github.com/pexnet/sift-highlight/internal/highlight"
	"github.com/pexnet/sift-highlight/internal/model"
)

// Rows lists every renderable hit of every source. A row links to its highlight
// only when the hit's marker id is in applied.
func Rows(sources []model.SourceHits, applied map[string]struct{}) []model.EvidenceRow {
	var rows []model.EvidenceRow
	for _, src := range sources {
		rows = append(rows, sourceRows(src, applied)...)
	}
	return rows
}

func sourceRows(src model.SourceHits, applied map[string]struct{}) []model.EvidenceRow {
	name := src.Source.DisplayName
	if name == "" {
		return nil
	}

	findingTexts := make(map[string]bool)
	hasQueryHits := false
	for _, hit := range src.Hits {
		switch h := hit.(type) {
		case model.ClassifierFinding:
			if h.Text != "" {
				findingTexts[h.Text] = true
			}
		case model.QueryHit:
			hasQueryHits = true
		}
	}

	var rows []model.EvidenceRow
	ordinals := make(map[string]int)
	for _, hit := range src.Hits {
		kind := hit.Kind()
		ordinal := ordinals[kind]
		ordinals[kind]++

		row := model.EvidenceRow{
			ID:         fmt.Sprintf("%s-%s-%d", src.Source.ID, kind, ordinal),
			SourceName: name,
		}
		markerID := highlight.MarkerID(src.Source.ID, kind, ordinal)
		if _, ok := applied[markerID]; ok {
			row.MarkerID = markerID
		}

		switch h := hit.(type) {
		case model.KeywordHit:
			row.Title = fmt.Sprintf("Keyword hit: \"%s\" (%s)", h.Value, ruleFieldLabel(h.Field))
			row.Snippet = h.Snippet
		case model.RegexHit:
			if h.Value != "" {
				row.Title = fmt.Sprintf("Regex hit: /%s/ => \"%s\" (%s)", h.Pattern, h.Value, ruleFieldLabel(h.Field))
			} else {
				row.Title = fmt.Sprintf("Regex hit: /%s/ (%s)", h.Pattern, ruleFieldLabel(h.Field))
			}
			row.Snippet = h.Snippet
		case model.QueryHit:
			row.Title = fmt.Sprintf("Query hit: \"%s\" (%s)", h.Token, ruleFieldLabel(h.Field))
			row.Snippet = h.Snippet
		case model.QueryExpression:
			row.Title = "Query expression matched"
			if hasQueryHits {
				row.Title = "Query expression matched (with spans)"
			}
			row.Snippet = h.Expression
		case model.ClassifierSummary:
			row.Title = "Classifier: " + joinNonEmpty(" | ", h.Plugin, h.Reason, formatScore("confidence", h.Confidence))
		case model.ClassifierFinding:
			row.Title = h.Label
			if h.Score != nil {
				row.Title += fmt.Sprintf(" (score %.2f)", *h.Score)
			}
			if h.Field != model.FieldUnknown {
				row.Title += " (" + h.Field.String() + ")"
			}
			row.Snippet = h.Text
		case model.ClassifierSnippet:
			if findingTexts[h.Text] {
				continue
			}
			row.Title = "Classifier snippet"
			row.Snippet = h.Text
		default:
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ruleFieldLabel names the field of a rule hit; rule hits default to content
func ruleFieldLabel(f model.Field) string {
	if f == model.FieldTitle {
		return "title"
	}
	return "content"
}
