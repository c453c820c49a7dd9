package highlight

import (
	"sort"

	"golang.org/x/net/html"

	"github.com/pexnet/sift-highlight/internal/model"
)

// OffsetResult is the outcome of projecting ranges onto an HTML fragment
type OffsetResult struct {
	HTML    string
	Applied map[string]struct{} // Marker ids realized as element ids
}

// AppliedIDs returns the realized marker ids in sorted order
func (r OffsetResult) AppliedIDs() []string {
	ids := make([]string, 0, len(r.Applied))
	for id := range r.Applied {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Highlighter rewrites sanitized HTML fragments with <mark> wrappers
type Highlighter struct {
	markClass string
}

// NewHighlighter creates a highlighter whose marks carry the given class
func NewHighlighter(markClass string) *Highlighter {
	if markClass == "" {
		markClass = model.DefaultMarkClass
	}
	return &Highlighter{markClass: markClass}
}

// ProjectOffsets wraps the content runes covered by ranges in marks.
//
// Ranges address the fragment's text content in document order and are
// re-normalized against the measured text length first, so a length mismatch
// with the plain-text content only shifts boundaries. Text inside skipped
// elements is never split. When no marker is realized the input is returned
// unchanged with an empty Applied set, which callers treat as a projection failure.
func (h *Highlighter) ProjectOffsets(src string, ranges []model.HighlightRange) OffsetResult {
	unchanged := OffsetResult{HTML: src, Applied: map[string]struct{}{}}
	if src == "" || len(ranges) == 0 {
		return unchanged
	}

	root, err := parseFragment(src)
	if err != nil {
		return unchanged
	}

	leaves, total := collectLeaves(root)
	planned := NormalizeRanges(ranges, total)
	if len(planned) == 0 {
		return unchanged
	}

	applied := make(map[string]struct{})
	for _, leaf := range leaves {
		if !leaf.eligible {
			continue
		}
		overlaps := overlapping(planned, leaf.start, leaf.end)
		if len(overlaps) == 0 {
			continue
		}
		replaceNode(leaf.node, h.splitLeaf(leaf, overlaps, applied))
	}

	if len(applied) == 0 {
		return unchanged
	}

	out, err := renderChildren(root)
	if err != nil {
		return unchanged
	}
	return OffsetResult{HTML: out, Applied: applied}
}

// overlapping returns the planned ranges intersecting [start, end).
// planned must be sorted and non-overlapping.
func overlapping(planned []model.HighlightRange, start, end int) []model.HighlightRange {
	first := sort.Search(len(planned), func(i int) bool {
		return planned[i].End > start
	})

	var out []model.HighlightRange
	for i := first; i < len(planned) && planned[i].Start < end; i++ {
		out = append(out, planned[i])
	}
	return out
}

// splitLeaf cuts a text leaf at range boundaries and wraps the covered runs
func (h *Highlighter) splitLeaf(leaf textLeaf, overlaps []model.HighlightRange, applied map[string]struct{}) []*html.Node {
	text := []rune(leaf.node.Data)

	bounds := map[int]bool{0: true, len(text): true}
	for _, r := range overlaps {
		bounds[clamp(r.Start-leaf.start, 0, len(text))] = true
		bounds[clamp(r.End-leaf.start, 0, len(text))] = true
	}
	cuts := make([]int, 0, len(bounds))
	for b := range bounds {
		cuts = append(cuts, b)
	}
	sort.Ints(cuts)

	var nodes []*html.Node
	for i := 0; i+1 < len(cuts); i++ {
		segStart, segEnd := cuts[i], cuts[i+1]
		if segEnd <= segStart {
			continue
		}
		segment := string(text[segStart:segEnd])

		covering, ok := coveringRange(overlaps, leaf.start+segStart, leaf.start+segEnd)
		if !ok {
			nodes = append(nodes, newText(segment))
			continue
		}

		attrs := []html.Attribute{{Key: "data-highlight-id", Val: covering.MarkerID}}
		if _, seen := applied[covering.MarkerID]; !seen {
			attrs = append(attrs, html.Attribute{Key: "id", Val: covering.MarkerID})
			applied[covering.MarkerID] = struct{}{}
		}
		nodes = append(nodes, newMark(h.markClass, segment, attrs...))
	}
	return nodes
}

func coveringRange(ranges []model.HighlightRange, start, end int) (model.HighlightRange, bool) {
	for _, r := range ranges {
		if r.Start <= start && r.End >= end {
			return r, true
		}
	}
	return model.HighlightRange{}, false
}
