// Package format converts email HTML bodies into readable plain text.
package format

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// NewConverter creates a Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Converter turns email HTML into Markdown-flavored plain text suitable for
// feeding to a reasoning engine. Marketing emails lean heavily on nested
// layout tables, so the HTML is sanitized before conversion.
type Converter struct{}

var blankLines = regexp.MustCompile(`\n{3,}`)

// HTML2Text converts raw HTML to readable text.
func (c *Converter) HTML2Text(raw []byte) (string, error) {
	sanitized := sanitizeEmailHTML(raw)

	text, err := htmltomarkdown.ConvertString(string(sanitized))
	if err != nil {
		return "", fmt.Errorf("htmltomarkdown.ConvertString failed: %w", err)
	}

	text = blankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text), nil
}

// sanitizeEmailHTML drops non-content nodes (script, style, head metadata)
// and unwraps single-column tables used purely for layout. Semantic tables,
// recognized by headers or multiple columns, are left alone. Returns the
// input unchanged when it does not parse.
func sanitizeEmailHTML(raw []byte) []byte {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return raw
	}

	// Unwrapping can expose further layout tables, so iterate to a fixpoint
	// with a bound against pathological nesting.
	for range 10 {
		if !sanitizeNode(doc) {
			break
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return raw
	}

	return buf.Bytes()
}

func sanitizeNode(n *html.Node) bool {
	changed := false

	child := n.FirstChild
	for child != nil {
		next := child.NextSibling

		if isNoiseElement(child) {
			n.RemoveChild(child)
			changed = true
		} else if sanitizeNode(child) {
			changed = true
		}

		child = next
	}

	if n.Type == html.ElementNode && n.Data == "table" && isLayoutTable(n) {
		unwrapTable(n)
		changed = true
	}

	return changed
}

func isNoiseElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}

	switch n.Data {
	case "script", "style", "title", "meta", "link":
		return true
	}

	return false
}

// isLayoutTable treats a table as layout scaffolding when it has neither
// header cells nor more than one column.
func isLayoutTable(table *html.Node) bool {
	headers := false
	maxCols := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "th", "thead":
				headers = true
			case "tr":
				cols := 0
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						cols++
					}
				}
				if cols > maxCols {
					maxCols = cols
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return !headers && maxCols <= 1
}

// unwrapTable replaces the table with the contents of its cells, separated
// by line breaks so distinct rows stay distinct in the output.
func unwrapTable(table *html.Node) {
	parent := table.Parent
	if parent == nil {
		return
	}

	cells := collectCellContents(table)

	for i, cell := range cells {
		if i > 0 {
			parent.InsertBefore(&html.Node{Type: html.ElementNode, Data: "br"}, table)
		}
		for _, c := range cell {
			parent.InsertBefore(c, table)
		}
	}

	parent.RemoveChild(table)
}

func collectCellContents(table *html.Node) [][]*html.Node {
	var cells [][]*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "td" || node.Data == "th") {
			var content []*html.Node
			child := node.FirstChild
			for child != nil {
				next := child.NextSibling
				node.RemoveChild(child)
				content = append(content, child)
				child = next
			}
			if len(content) > 0 {
				cells = append(cells, content)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return cells
}
