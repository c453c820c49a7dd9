package highlight

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipTags are never highlighted inside. Besides code and existing marks this
// covers elements whose text the serializer writes raw or reparses as text.
var skipTags = map[atom.Atom]bool{
	atom.Mark:      true,
	atom.Code:      true,
	atom.Pre:       true,
	atom.Script:    true,
	atom.Style:     true,
	atom.Textarea:  true,
	atom.Title:     true,
	atom.Noscript:  true,
	atom.Iframe:    true,
	atom.Xmp:       true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Plaintext: true,
}

// textLeaf is a text node with its absolute rune span in document order
type textLeaf struct {
	node     *html.Node
	start    int
	end      int
	eligible bool
}

// parseFragment parses sanitized HTML into a detached container element
func parseFragment(src string) (*html.Node, error) {
	container := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Div.String(),
		DataAtom: atom.Div,
	}

	nodes, err := html.ParseFragment(strings.NewReader(src), container)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// renderChildren serializes the container's children, omitting the container
func renderChildren(container *html.Node) (string, error) {
	var buf strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// collectLeaves returns every non-empty text node in document order together
// with the total rune length of the text content.
func collectLeaves(root *html.Node) ([]textLeaf, int) {
	var leaves []textLeaf
	cursor := 0

	var walk func(n *html.Node, skipped bool)
	walk = func(n *html.Node, skipped bool) {
		if n.Type == html.TextNode {
			length := utf8.RuneCountInString(n.Data)
			if length == 0 {
				return
			}
			leaves = append(leaves, textLeaf{
				node:     n,
				start:    cursor,
				end:      cursor + length,
				eligible: !skipped,
			})
			cursor += length
			return
		}

		if n.Type == html.ElementNode && skipTags[n.DataAtom] {
			skipped = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, skipped)
		}
	}

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c, false)
	}
	return leaves, cursor
}

// TextContent returns the concatenated text of an HTML fragment, like a DOM's textContent
func TextContent(src string) string {
	root, err := parseFragment(src)
	if err != nil {
		return ""
	}

	leaves, _ := collectLeaves(root)
	var buf strings.Builder
	for _, leaf := range leaves {
		buf.WriteString(leaf.node.Data)
	}
	return buf.String()
}

// replaceNode swaps old for the given sequence of nodes
func replaceNode(old *html.Node, nodes []*html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
}

func newText(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

func newMark(class, text string, attrs ...html.Attribute) *html.Node {
	mark := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Mark.String(),
		DataAtom: atom.Mark,
		Attr:     append([]html.Attribute{{Key: "class", Val: class}}, attrs...),
	}
	mark.AppendChild(newText(text))
	return mark
}
