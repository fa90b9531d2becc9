package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/docsight/internal/span"
)

// HTMLParser handles HTML files. The <title> element becomes the metadata
// title; h1-h6 become heading spans.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*span.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := newPageBuilder(filename)
	b.doc.MetadataTitle = findTitle(root)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				b.heading(level, textContent(n))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "hr":
				b.breakPage()
				return
			case "p", "li", "td", "th", "blockquote", "pre", "dt", "dd":
				b.block(textContent(n), allBold(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}
	return b.document(), nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// allBold reports whether every non-blank text under n sits inside <b> or
// <strong>.
func allBold(n *html.Node) bool {
	found := false
	var walk func(*html.Node, bool) bool
	walk = func(n *html.Node, bold bool) bool {
		switch {
		case n.Type == html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				return true
			}
			found = true
			return bold
		case n.Type == html.ElementNode && (n.Data == "b" || n.Data == "strong"):
			bold = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c, bold) {
				return false
			}
		}
		return true
	}
	return walk(n, false) && found
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
