package bluebook

import (
	"strings"

	"golang.org/x/net/html"
)

// Subtrees that never contribute rendered body copy.
var prunedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"iframe":   {},
	"nav":      {},
	"header":   {},
	"footer":   {},
	"form":     {},
}

var blockElements = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "body": {},
	"br": {}, "dd": {}, "div": {}, "dl": {}, "dt": {}, "fieldset": {},
	"figcaption": {}, "figure": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {},
	"h5": {}, "h6": {}, "hr": {}, "li": {}, "main": {}, "ol": {}, "p": {},
	"pre": {}, "section": {}, "table": {}, "td": {}, "th": {}, "tr": {},
	"ul": {},
}

// mainContent picks the region to read: the main landmark, then the
// #main-content id, then the whole body.
func mainContent(doc *html.Node) *html.Node {
	if n := findElement(doc, func(n *html.Node) bool { return n.Data == "main" }); n != nil {
		return n
	}
	if n := findElement(doc, func(n *html.Node) bool { return attrValue(n, "id") == "main-content" }); n != nil {
		return n
	}
	if n := findElement(doc, func(n *html.Node) bool { return n.Data == "body" }); n != nil {
		return n
	}
	return doc
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// pruneUnwanted drops non-content subtrees in place.
func pruneUnwanted(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode {
			if _, drop := prunedElements[c.Data]; drop {
				n.RemoveChild(c)
				continue
			}
		}
		pruneUnwanted(c)
	}
}

type anchor struct {
	text string
	href string
}

func collectAnchors(root *html.Node) []anchor {
	var out []anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attrValue(n, "href"); href != "" {
				out = append(out, anchor{text: textContent(n), href: href})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// visibleText renders the pruned subtree as plain text, one line per block
// element, so the chunker can treat lines as paragraphs.
func visibleText(root *html.Node) string {
	var lines []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				current = append(current, t)
			}
			return
		case html.ElementNode, html.DocumentNode:
		default:
			return
		}

		_, block := blockElements[n.Data]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(root)
	flush()

	return strings.Join(lines, "\n")
}
