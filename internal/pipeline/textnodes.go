package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrHTMLParse indicates the rendered HTML could not be parsed.
var ErrHTMLParse = errors.New("HTML parsing failed")

// FragmentKind identifies which kind of DOM node produced a fragment.
type FragmentKind int

const (
	// KindText is a character data node.
	KindText FragmentKind = iota
	// KindComment is an HTML comment. Comments carry text too and are
	// reported alongside text nodes.
	KindComment
)

// String returns the kind name used in logs and previews.
func (k FragmentKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	default:
		return fmt.Sprintf("FragmentKind(%d)", int(k))
	}
}

// Fragment is one unit of text taken from a parsed HTML document.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// TextNodes parses htmlContent and returns every text-bearing node in
// document order. Element, doctype and document nodes never produce
// fragments; text inside script or style elements does.
func TextNodes(htmlContent string) ([]Fragment, error) {
	doc, err := parseHTML(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	var fragments []Fragment
	collectText(doc, &fragments)
	return fragments, nil
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Fragments are parsed in a body context and gathered under a document node
// so both shapes are walked the same way.
func parseHTML(content string) (*html.Node, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		return html.Parse(strings.NewReader(content))
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// collectText walks the tree depth-first, appending text and comment nodes.
func collectText(n *html.Node, out *[]Fragment) {
	switch n.Type {
	case html.TextNode:
		*out = append(*out, Fragment{Kind: KindText, Text: n.Data})
	case html.CommentNode:
		*out = append(*out, Fragment{Kind: KindComment, Text: n.Data})
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}
