package doi

import (
	"context"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DefaultAbstract is stored when no abstract can be found.
const DefaultAbstract = "Abstract unavailable"

var (
	jatsTag    = regexp.MustCompile(`</?jats:[A-Za-z0-9-]+[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// CleanAbstract removes JATS markup and collapses whitespace.
func CleanAbstract(s string) string {
	s = jatsTag.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// abstractMeta are the <meta> tags checked in order, keyed by the
// attribute that names them.
var abstractMeta = []struct{ attr, name string }{
	{"name", "dc.description"},
	{"name", "dc.Description"},
	{"name", "DC.Description"},
	{"name", "citation_abstract"},
	{"name", "twitter:description"},
	{"property", "og:description"},
}

// scrapeAbstract reads the DOI landing page and returns the first
// description meta tag that is not truncated. Any failure yields "".
func (c *Client) scrapeAbstract(ctx context.Context, doi string) string {
	var abstract string
	err := c.fetch(ctx, doi, "text/html", func(body io.Reader) error {
		doc, err := html.Parse(body)
		if err != nil {
			return err
		}
		abstract = AbstractFromHTML(doc)
		return nil
	})
	if err != nil {
		return ""
	}
	return abstract
}

// AbstractFromHTML returns the first usable description meta tag in doc.
// Descriptions ending in "..." are truncated teasers and are skipped.
func AbstractFromHTML(doc *html.Node) string {
	metas := map[string]string{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "name", "property":
					key = a.Key + "=" + a.Val
				case "content":
					content = a.Val
				}
			}
			if key != "" {
				if _, seen := metas[key]; !seen {
					metas[key] = content
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	for _, m := range abstractMeta {
		content := CleanAbstract(metas[m.attr+"="+m.name])
		if content == "" || strings.HasSuffix(content, "...") || strings.HasSuffix(content, "…") {
			continue
		}
		return content
	}
	return ""
}
