package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/pexnet/sift-highlight/internal/extract"
)

// TermPattern compiles literal terms into one case-insensitive alternation.
// Longer terms come first so a shorter prefix cannot pre-empt them at the same
// position. Returns nil when no usable term remains.
func TermPattern(terms []string) *regexp.Regexp {
	seen := make(map[string]bool, len(terms))
	var unique []string
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key := extract.FoldKey(term)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, term)
	}
	if len(unique) == 0 {
		return nil
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return utf8.RuneCountInString(unique[i]) > utf8.RuneCountInString(unique[j])
	})

	quoted := make([]string, len(unique))
	for i, term := range unique {
		quoted[i] = regexp.QuoteMeta(term)
	}

	pattern, err := regexp.Compile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	if err != nil {
		return nil
	}
	return pattern
}

// HighlightTerms marks every occurrence of the terms in eligible text leaves.
// Marks carry no id since term matches have no offset identity.
// The input is returned unchanged when nothing matches.
func (h *Highlighter) HighlightTerms(src string, terms []string) string {
	pattern := TermPattern(terms)
	if src == "" || pattern == nil {
		return src
	}

	root, err := parseFragment(src)
	if err != nil {
		return src
	}

	leaves, _ := collectLeaves(root)
	changed := false
	for _, leaf := range leaves {
		if !leaf.eligible || strings.TrimSpace(leaf.node.Data) == "" {
			continue
		}
		if h.wrapMatches(leaf.node, pattern) {
			changed = true
		}
	}
	if !changed {
		return src
	}

	out, err := renderChildren(root)
	if err != nil {
		return src
	}
	return out
}

// HighlightTitle renders a plain-text title as escaped HTML with term marks
func (h *Highlighter) HighlightTitle(title string, terms []string) string {
	root := &html.Node{Type: html.DocumentNode}
	leaf := newText(title)
	root.AppendChild(leaf)

	if pattern := TermPattern(terms); pattern != nil && strings.TrimSpace(title) != "" {
		h.wrapMatches(leaf, pattern)
	}

	out, err := renderChildren(root)
	if err != nil {
		return html.EscapeString(title)
	}
	return out
}

// wrapMatches replaces a text node with marked and unmarked runs.
// Reports whether any match was wrapped.
func (h *Highlighter) wrapMatches(node *html.Node, pattern *regexp.Regexp) bool {
	text := node.Data
	locs := pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return false
	}

	var nodes []*html.Node
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			nodes = append(nodes, newText(text[last:loc[0]]))
		}
		nodes = append(nodes, newMark(h.markClass, text[loc[0]:loc[1]]))
		last = loc[1]
	}
	if last < len(text) {
		nodes = append(nodes, newText(text[last:]))
	}

	replaceNode(node, nodes)
	return true
}
