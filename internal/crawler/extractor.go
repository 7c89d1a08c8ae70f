package crawler

import (
	"bytes"
	"regexp"

	"golang.org/x/net/html"
)

// contentContainerID is the id of the element holding a wiki page's
// article body. Navigation chrome, sidebars, and footers sit outside
// it, so scoping extraction to this subtree keeps the crawl on article
// content.
const contentContainerID = "bodyContent"

// wikiArticlePattern matches hrefs pointing at plain articles:
// a /wiki/ path with no colon anywhere after the prefix. Namespaced
// pages (/wiki/Help:Contents, /wiki/File:Logo.svg, /wiki/Special:Random)
// all carry a colon and are rejected. Fragments and query strings are
// kept as-is; dedup works on the exact string.
var wikiArticlePattern = regexp.MustCompile(`^/wiki/[^:]*$`)

// Extractor pulls article paths out of wiki page HTML.
// It is stateless and safe for concurrent use.
type Extractor struct {
	// containerID scopes extraction to the subtree with this element id.
	containerID string

	// pattern selects which href values count as article links.
	pattern *regexp.Regexp
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithContainerID overrides the element id that scopes extraction.
func WithContainerID(id string) ExtractorOption {
	return func(e *Extractor) {
		e.containerID = id
	}
}

// WithLinkPattern overrides the href filter pattern.
func WithLinkPattern(pattern *regexp.Regexp) ExtractorOption {
	return func(e *Extractor) {
		e.pattern = pattern
	}
}

// NewExtractor creates an Extractor with the wiki defaults: anchors
// inside the "bodyContent" element whose href matches /wiki/ article
// paths.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		containerID: contentContainerID,
		pattern:     wikiArticlePattern,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract parses body and returns the article paths referenced by
// anchors inside the content container, in document order with exact
// duplicates removed. A page without the container yields no paths.
// golang.org/x/net/html tolerates arbitrary malformed input, so broken
// markup degrades to fewer links rather than an error.
func (e *Extractor) Extract(body []byte) []string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		// html.Parse only fails on reader errors, which bytes.Reader
		// never produces.
		return nil
	}

	container := findElementByID(doc, e.containerID)
	if container == nil {
		return nil
	}

	seen := make(map[string]bool)
	paths := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); e.pattern.MatchString(href) && !seen[href] {
				seen[href] = true
				paths = append(paths, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(container)

	return paths
}

// findElementByID walks the tree rooted at n and returns the first
// element whose id attribute equals id, or nil.
func findElementByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
