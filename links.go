package edgar

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// FilingDocumentSet lists the structured-data documents of one filing.
type FilingDocumentSet struct {
	Documents []string

	// LogicalName names the folder the documents are stored under. Empty
	// when no document follows the XBRL naming convention.
	LogicalName string
}

// Named reports whether a logical name was derived.
func (s FilingDocumentSet) Named() bool {
	return s.LogicalName != ""
}

// ExtractDocuments fetches a filing index page and returns the documents it
// links to that end in the configured extension, in page order.
func (c *Client) ExtractDocuments(ctx context.Context, indexURL string) FilingDocumentSet {
	log := c.log.With(zap.String("url", indexURL))

	body, err := c.get(ctx, c.http, indexURL)
	if err != nil {
		log.Warn("network error while accessing filing index", zap.Error(err))
		return FilingDocumentSet{}
	}

	doc, err := parseDocument(body)
	if err != nil {
		log.Warn("unreadable filing index", zap.Error(err))
		return FilingDocumentSet{}
	}

	set := selectDocuments(indexURL, parseAnchors(doc), c.opts.Extension)
	log.Debug("extracted filing documents",
		zap.Int("documents", len(set.Documents)),
		zap.String("logical_name", set.LogicalName),
	)
	return set
}

// parseAnchors returns the href of every link on the page.
func parseAnchors(doc *goquery.Document) []string {
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// selectDocuments resolves hrefs against the index page and keeps those
// whose path ends in ext. The first kept link that yields a name sets
// LogicalName; later links never replace it.
func selectDocuments(indexURL string, hrefs []string, ext string) FilingDocumentSet {
	var set FilingDocumentSet

	base, err := url.Parse(indexURL)
	if err != nil {
		return set
	}

	for _, href := range hrefs {
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if !strings.HasSuffix(abs.Path, ext) {
			continue
		}

		set.Documents = append(set.Documents, abs.String())
		if set.LogicalName == "" {
			set.LogicalName = LogicalName(path.Base(abs.Path))
		}
	}
	return set
}
