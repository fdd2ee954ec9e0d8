package adapters

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// LegalAdapter locates the judgment body on court and law-report sites
type LegalAdapter struct {
	legalDomains   []string
	legalPaths     []string
	contentClasses []string
	contentIDs     []string
}

// NewLegalAdapter creates a new legal document adapter
func NewLegalAdapter() *LegalAdapter {
	return &LegalAdapter{
		legalDomains: []string{
			"indiankanoon.org",
			"sci.gov.in",
			"ecourts.gov.in",
			"judgments.ecourts.gov.in",
			"nic.in",
			"livelaw.in",
			"scconline.com",
		},
		legalPaths: []string{
			"/judgment", "/judgement", "/doc/", "/case/", "/order",
		},
		contentClasses: []string{
			"judgments", "judgment", "judgement", "judgment-text", "doc_content",
		},
		contentIDs: []string{
			"judgment", "judgement", "judgment-text", "content",
		},
	}
}

// Name returns the adapter name
func (a *LegalAdapter) Name() string {
	return "legal"
}

// CanHandle checks if this is a court or law-report URL
func (a *LegalAdapter) CanHandle(rawURL string, contentType string) bool {
	u, err := url.Parse(strings.ToLower(rawURL))
	if err != nil || u.Host == "" {
		return false
	}

	host := u.Hostname()
	for _, domain := range a.legalDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	for _, path := range a.legalPaths {
		if strings.Contains(u.Path, path) {
			return true
		}
	}

	return false
}

// ContentRoot returns the first element carrying a known judgment class or
// id, or nil when the page has none
func (a *LegalAdapter) ContentRoot(doc *html.Node) *html.Node {
	return firstElement(doc, func(n *html.Node) bool {
		if slices.Contains(a.contentIDs, attr(n, "id")) {
			return true
		}
		return slices.ContainsFunc(classes(n), func(c string) bool {
			return slices.Contains(a.contentClasses, c)
		})
	})
}
