package adapters

import "golang.org/x/net/html"

// GenericAdapter handles any page by guessing its main content region
type GenericAdapter struct{}

func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle accepts everything
func (a *GenericAdapter) CanHandle(string, string) bool {
	return true
}

// ContentRoot prefers <main>, then <article> or role="main", then <body>,
// then the whole document. It never returns nil.
func (a *GenericAdapter) ContentRoot(doc *html.Node) *html.Node {
	candidates := []func(*html.Node) bool{
		tagIs("main"),
		func(n *html.Node) bool { return n.Data == "article" || attr(n, "role") == "main" },
		tagIs("body"),
	}
	for _, match := range candidates {
		if root := firstElement(doc, match); root != nil {
			return root
		}
	}
	return doc
}
