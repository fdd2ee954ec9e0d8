package adapters

import (
	"slices"
	"strings"

	"github.com/ppiankov/lexcore/internal/extract"
	"golang.org/x/net/html"
)

// Adapter selects the part of a fetched page that holds the document text
type Adapter interface {
	Name() string

	// CanHandle reports whether pages at url are laid out the way this
	// adapter expects
	CanHandle(url string, contentType string) bool

	// ContentRoot returns the node whose text is the document, or nil if the
	// page does not have the expected structure
	ContentRoot(doc *html.Node) *html.Node
}

// Registry picks an adapter per page, falling back to GenericAdapter
type Registry struct {
	specific []Adapter
	fallback Adapter
}

// NewRegistry returns a registry with the legal adapter installed
func NewRegistry() *Registry {
	return &Registry{
		specific: []Adapter{NewLegalAdapter()},
		fallback: NewGenericAdapter(),
	}
}

// Register adds an adapter; earlier registrations win on overlap
func (r *Registry) Register(a Adapter) {
	r.specific = append(r.specific, a)
}

// FindAdapter returns the first registered adapter that accepts the page
func (r *Registry) FindAdapter(url string, contentType string) Adapter {
	if i := slices.IndexFunc(r.specific, func(a Adapter) bool {
		return a.CanHandle(url, contentType)
	}); i >= 0 {
		return r.specific[i]
	}
	return r.fallback
}

// Extract converts an HTML page to paragraph text using the best adapter.
// When the chosen adapter finds no content root the generic one is used, and
// the returned name reflects the adapter that produced the text.
func (r *Registry) Extract(htmlContent, url, contentType string) (text string, adapterName string, err error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", "", err
	}

	chosen := r.FindAdapter(url, contentType)
	root := chosen.ContentRoot(doc)
	if root == nil {
		chosen = r.fallback
		root = chosen.ContentRoot(doc)
	}

	return extract.TextFromNode(root), chosen.Name(), nil
}

// firstElement walks n depth-first and returns the first element accepted by
// match, or nil
func firstElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for d := range n.Descendants() {
		if d.Type == html.ElementNode && match(d) {
			return d
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func tagIs(tags ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return slices.Contains(tags, n.Data)
	}
}
