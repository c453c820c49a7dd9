// Package highlight plans highlight ranges from match evidence and projects
// them onto sanitized HTML fragments.
package highlight

import (
	"fmt"
	"sort"

	"github.com/pexnet/sift-highlight/internal/model"
)

// MarkerID returns the stable DOM id of a hit's highlight.
// The ordinal counts hits of the same kind within one source.
func MarkerID(sourceID, kind string, ordinal int) string {
	return fmt.Sprintf("reader-highlight-%s-%s-%d", sourceID, kind, ordinal)
}

// MarkerIDs returns the marker id of every hit of a source, index aligned with src.Hits
func MarkerIDs(src model.SourceHits) []string {
	ids := make([]string, len(src.Hits))
	ordinals := make(map[string]int)
	for i, hit := range src.Hits {
		kind := hit.Kind()
		ids[i] = MarkerID(src.Source.ID, kind, ordinals[kind])
		ordinals[kind]++
	}
	return ids
}

// CandidateRanges collects the raw content ranges of all spanning hits.
// Title and unknown-field hits never produce offset ranges.
func CandidateRanges(sources []model.SourceHits) []model.HighlightRange {
	var ranges []model.HighlightRange
	for _, src := range sources {
		ids := MarkerIDs(src)
		for i, hit := range src.Hits {
			spanning, ok := hit.(model.Spanning)
			if !ok {
				continue
			}
			field, start, end := spanning.Span()
			if field != model.FieldContent || start == nil || end == nil || *end <= *start {
				continue
			}
			ranges = append(ranges, model.HighlightRange{
				MarkerID: ids[i],
				Start:    *start,
				End:      *end,
			})
		}
	}
	return ranges
}

// PlanRanges builds the normalized highlight plan for content of the given rune length
func PlanRanges(sources []model.SourceHits, contentLength int) []model.HighlightRange {
	return NormalizeRanges(CandidateRanges(sources), contentLength)
}

// NormalizeRanges clips ranges to [0, length] and resolves overlaps.
// Ranges are ordered by start then end; a range starting inside an earlier one
// is truncated to begin where that one ends, and dropped if nothing is left.
func NormalizeRanges(ranges []model.HighlightRange, length int) []model.HighlightRange {
	if length <= 0 || len(ranges) == 0 {
		return nil
	}

	clipped := make([]model.HighlightRange, 0, len(ranges))
	for _, r := range ranges {
		r.Start = clamp(r.Start, 0, length)
		r.End = clamp(r.End, 0, length)
		if r.End > r.Start {
			clipped = append(clipped, r)
		}
	}

	sort.SliceStable(clipped, func(i, j int) bool {
		if clipped[i].Start != clipped[j].Start {
			return clipped[i].Start < clipped[j].Start
		}
		return clipped[i].End < clipped[j].End
	})

	var normalized []model.HighlightRange
	cursor := 0
	for _, r := range clipped {
		if r.Start < cursor {
			r.Start = cursor
		}
		if r.End <= r.Start {
			continue
		}
		normalized = append(normalized, r)
		cursor = r.End
	}
	return normalized
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
