package extract

import (
	"strings"

	"github.com/pexnet/sift-highlight/internal/model"
)

const defaultFindingLabel = "Classifier finding"

// Normalize converts one source's raw rule engine evidence into typed hits.
// Malformed entries are dropped; it never fails.
func Normalize(raw any) []model.Hit {
	evidence := asRecord(raw)
	if evidence == nil {
		return nil
	}

	rules, classifier := evidence, evidence
	if toString(evidence["matcher_type"]) == "hybrid" {
		rules = asRecord(evidence["rules"])
		classifier = asRecord(evidence["classifier"])
	}

	var hits []model.Hit
	hits = append(hits, ruleHits(rules)...)
	hits = append(hits, classifierHits(classifier)...)
	return hits
}

// NormalizeSources normalizes the evidence of every named source, keeping source order.
// Sources without a display name are excluded.
func NormalizeSources(sources []model.EvidenceSource) []model.SourceHits {
	out := make([]model.SourceHits, 0, len(sources))
	for _, src := range sources {
		src.DisplayName = strings.TrimSpace(src.DisplayName)
		src.Reason = strings.TrimSpace(src.Reason)
		if src.DisplayName == "" {
			continue
		}
		out = append(out, model.SourceHits{
			Source: src,
			Hits:   Normalize(src.RawEvidence),
		})
	}
	return out
}

// ruleHits extracts keyword, regex and query evidence
func ruleHits(rules map[string]any) []model.Hit {
	if rules == nil {
		return nil
	}

	var hits []model.Hit
	for _, rec := range records(rules["keyword_hits"]) {
		value := toString(rec["value"])
		if value == "" {
			continue
		}
		hits = append(hits, model.KeywordHit{
			Field:   model.ParseField(toString(rec["field"])),
			Value:   value,
			Snippet: toString(rec["snippet"]),
			Start:   toOffset(rec["start"]),
			End:     toOffset(rec["end"]),
		})
	}

	for _, rec := range records(rules["regex_hits"]) {
		pattern := toString(rec["pattern"])
		if pattern == "" {
			continue
		}
		hits = append(hits, model.RegexHit{
			Field:   model.ParseField(toString(rec["field"])),
			Pattern: pattern,
			Value:   toString(rec["value"]),
			Snippet: toString(rec["snippet"]),
			Start:   toOffset(rec["start"]),
			End:     toOffset(rec["end"]),
		})
	}

	for _, rec := range records(rules["query_hits"]) {
		token := firstString(rec, "token", "value")
		if token == "" {
			continue
		}
		hits = append(hits, model.QueryHit{
			Field:   model.ParseField(toString(rec["field"])),
			Token:   token,
			Snippet: toString(rec["snippet"]),
			Start:   toOffset(rec["start"]),
			End:     toOffset(rec["end"]),
		})
	}

	if query, ok := rules["query"]; ok {
		hits = append(hits, model.QueryExpression{Expression: toString(query)})
	}

	return hits
}

// classifierHits extracts the classifier verdict, findings and snippets
func classifierHits(classifier map[string]any) []model.Hit {
	if classifier == nil {
		return nil
	}

	var hits []model.Hit
	summary := model.ClassifierSummary{
		Plugin:     toString(classifier["plugin"]),
		Reason:     toString(classifier["reason"]),
		Confidence: toFloat(classifier["confidence"]),
	}
	if summary.Plugin != "" || summary.Reason != "" || summary.Confidence != nil {
		hits = append(hits, summary)
	}

	for _, rec := range records(classifier["findings"]) {
		label := toString(rec["label"])
		value := toString(rec["value"])
		text := firstString(rec, "text", "snippet", "value")
		if label == "" && text == "" {
			continue
		}
		if label == "" {
			label = defaultFindingLabel
		}
		hits = append(hits, model.ClassifierFinding{
			Label: label,
			Text:  text,
			Value: value,
			Field: model.ParseField(toString(rec["field"])),
			Start: toOffset(rec["start"]),
			End:   toOffset(rec["end"]),
			Score: toFloat(rec["score"]),
		})
	}

	for _, entry := range list(classifier["snippets"]) {
		text := toString(entry)
		if rec := asRecord(entry); rec != nil {
			text = toString(rec["text"])
		}
		if text == "" {
			continue
		}
		hits = append(hits, model.ClassifierSnippet{Text: text})
	}

	return hits
}
