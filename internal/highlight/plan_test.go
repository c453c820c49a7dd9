package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pexnet/sift-highlight/internal/model"
)

func intPtr(i int) *int { return &i }

func keyword(field model.Field, value string, start, end *int) model.KeywordHit {
	return model.KeywordHit{Field: field, Value: value, Start: start, End: end}
}

func TestMarkerIDs(t *testing.T) {
	src := model.SourceHits{
		Source: model.EvidenceSource{ID: "s1", DisplayName: "Vendors"},
		Hits: []model.Hit{
			keyword(model.FieldContent, "a", nil, nil),
			model.RegexHit{Pattern: "b"},
			keyword(model.FieldTitle, "c", nil, nil),
			model.ClassifierSummary{Plugin: "p"},
		},
	}

	assert.Equal(t, []string{
		"reader-highlight-s1-keyword-0",
		"reader-highlight-s1-regex-0",
		"reader-highlight-s1-keyword-1",
		"reader-highlight-s1-classifier-0",
	}, MarkerIDs(src))
}

func TestCandidateRanges(t *testing.T) {
	sources := []model.SourceHits{{
		Source: model.EvidenceSource{ID: "s1", DisplayName: "Vendors"},
		Hits: []model.Hit{
			keyword(model.FieldContent, "Darktrace", intPtr(0), intPtr(9)),
			keyword(model.FieldTitle, "title only", intPtr(0), intPtr(5)),
			keyword(model.FieldUnknown, "no field", intPtr(0), intPtr(5)),
			keyword(model.FieldContent, "no start", nil, intPtr(5)),
			keyword(model.FieldContent, "empty", intPtr(5), intPtr(5)),
			model.QueryHit{Field: model.FieldContent, Token: "details", Start: intPtr(10), End: intPtr(17)},
			model.ClassifierFinding{Label: "Vendor", Field: model.FieldContent, Start: intPtr(0), End: intPtr(4)},
			model.QueryExpression{Expression: "a AND b"},
		},
	}}

	assert.Equal(t, []model.HighlightRange{
		{MarkerID: "reader-highlight-s1-keyword-0", Start: 0, End: 9},
		{MarkerID: "reader-highlight-s1-query-0", Start: 10, End: 17},
		{MarkerID: "reader-highlight-s1-classifier-finding-0", Start: 0, End: 4},
	}, CandidateRanges(sources))
}

func TestNormalizeRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges []model.HighlightRange
		length int
		want   []model.HighlightRange
	}{
		{
			name:   "overlap advances cursor",
			ranges: []model.HighlightRange{{MarkerID: "a", Start: 0, End: 9}, {MarkerID: "b", Start: 3, End: 12}},
			length: 19,
			want:   []model.HighlightRange{{MarkerID: "a", Start: 0, End: 9}, {MarkerID: "b", Start: 9, End: 12}},
		},
		{
			name:   "out of bounds dropped",
			ranges: []model.HighlightRange{{MarkerID: "a", Start: 100, End: 110}},
			length: 19,
			want:   nil,
		},
		{
			name:   "clipped to length",
			ranges: []model.HighlightRange{{MarkerID: "a", Start: -5, End: 4}, {MarkerID: "b", Start: 15, End: 40}},
			length: 19,
			want:   []model.HighlightRange{{MarkerID: "a", Start: 0, End: 4}, {MarkerID: "b", Start: 15, End: 19}},
		},
		{
			name:   "contained range dropped",
			ranges: []model.HighlightRange{{MarkerID: "a", Start: 0, End: 10}, {MarkerID: "b", Start: 2, End: 5}},
			length: 19,
			want:   []model.HighlightRange{{MarkerID: "a", Start: 0, End: 10}},
		},
		{
			name:   "sorted by start then end",
			ranges: []model.HighlightRange{{MarkerID: "c", Start: 10, End: 12}, {MarkerID: "b", Start: 0, End: 6}, {MarkerID: "a", Start: 0, End: 3}},
			length: 19,
			want:   []model.HighlightRange{{MarkerID: "a", Start: 0, End: 3}, {MarkerID: "b", Start: 3, End: 6}, {MarkerID: "c", Start: 10, End: 12}},
		},
		{
			name:   "zero length content",
			ranges: []model.HighlightRange{{MarkerID: "a", Start: 0, End: 3}},
			length: 0,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRanges(tt.ranges, tt.length))
		})
	}
}

func TestNormalizeRanges_Invariants(t *testing.T) {
	ranges := []model.HighlightRange{
		{MarkerID: "a", Start: 7, End: 30},
		{MarkerID: "b", Start: 0, End: 8},
		{MarkerID: "c", Start: 8, End: 9},
		{MarkerID: "d", Start: 25, End: 50},
		{MarkerID: "e", Start: -3, End: 2},
		{MarkerID: "f", Start: 40, End: 35},
	}

	planned := NormalizeRanges(ranges, 42)
	require.NotEmpty(t, planned)

	for i, r := range planned {
		assert.GreaterOrEqual(t, r.Start, 0)
		assert.LessOrEqual(t, r.End, 42)
		assert.Less(t, r.Start, r.End)
		if i > 0 {
			assert.LessOrEqual(t, planned[i-1].End, r.Start, "ranges %d and %d overlap", i-1, i)
		}
	}

	// Normalizing a plan again changes nothing
	assert.Equal(t, planned, NormalizeRanges(planned, 42))
}

func TestPlanRanges_Deterministic(t *testing.T) {
	sources := []model.SourceHits{{
		Source: model.EvidenceSource{ID: "s1", DisplayName: "Vendors"},
		Hits: []model.Hit{
			keyword(model.FieldContent, "Darktrace", intPtr(0), intPtr(9)),
			keyword(model.FieldContent, "trace", intPtr(4), intPtr(9)),
		},
	}}

	first := PlanRanges(sources, 19)
	second := PlanRanges(sources, 19)
	assert.Equal(t, first, second)
	assert.Equal(t, []model.HighlightRange{{MarkerID: "reader-highlight-s1-keyword-0", Start: 0, End: 9}}, first)
}
