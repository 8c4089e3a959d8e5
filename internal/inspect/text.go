package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Renders a raw sensor response the way a browser would show it:
// markup dropped, one visible line per line break or block element.

var ErrInvalidDocument = errors.New("response is not a parsable document")

const invisibleSelector = "head, script, style, noscript, template"

var blockElements = map[atom.Atom]struct{}{
	atom.P:       {},
	atom.Div:     {},
	atom.Tr:      {},
	atom.Li:      {},
	atom.Ul:      {},
	atom.Ol:      {},
	atom.Table:   {},
	atom.Pre:     {},
	atom.Hr:      {},
	atom.H1:      {},
	atom.H2:      {},
	atom.H3:      {},
	atom.H4:      {},
	atom.H5:      {},
	atom.H6:      {},
	atom.Section: {},
	atom.Article: {},
	atom.Header:  {},
	atom.Footer:  {},
}

var cellElements = map[atom.Atom]struct{}{
	atom.Td: {},
	atom.Th: {},
}

// VisibleText returns the text content of raw with blank lines removed and
// runs of whitespace inside a line collapsed to one space.
func VisibleText(raw string) (string, error) {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find(invisibleSelector).Remove()

	var b strings.Builder
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		for _, n := range body.Nodes {
			writeText(&b, n)
		}
	})

	return tidyLines(b.String()), nil
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}

	if n.Type != html.ElementNode {
		return
	}
	if _, ok := blockElements[n.DataAtom]; ok {
		b.WriteByte('\n')
	} else if _, ok := cellElements[n.DataAtom]; ok {
		b.WriteByte(' ')
	}
}

func tidyLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, strings.Join(fields, " "))
	}
	return strings.Join(lines, "\n")
}
