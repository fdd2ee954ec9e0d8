package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// blockElements start a new paragraph in extracted text
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"li": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"br": true, "tr": true, "table": true, "header": true, "footer": true,
}

// TextFromHTML extracts visible text from an HTML document.
// Block elements are separated by blank lines so they segment as paragraphs;
// whitespace runs inside a block collapse to single spaces.
func TextFromHTML(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	return TextFromNode(doc), nil
}

// TextFromNode extracts visible text from a parsed subtree, with the same
// paragraph rules as TextFromHTML
func TextFromNode(root *html.Node) string {
	if root == nil {
		return ""
	}

	var paragraphs []string
	var current strings.Builder

	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip script, style, noscript tags
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
			if blockElements[n.Data] {
				flush()
			}
		}

		if n.Type == html.TextNode {
			current.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			flush()
		}
	}

	walk(root)
	flush()

	return strings.Join(paragraphs, "\n\n")
}
