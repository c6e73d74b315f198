package edgar

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// annualReportForm is the form type cell text of a 10-K row. Amendments
// ("10-K/A") are listed separately and are not matched.
const annualReportForm = "10-K"

// filingRow is one data row of the EDGAR company filing table.
// Columns: Filings | Format | Description | Filing Date | File/Film Number.
type filingRow struct {
	Cells []string
	Href  string // first link in the Format column
}

// FormType returns the text of the first column.
func (r filingRow) FormType() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[0]
}

// FilingListURL is the company browse page listing up to 100 10-K filings.
func (c *Client) FilingListURL(cik string) string {
	return fmt.Sprintf("%s/cgi-bin/browse-edgar?action=getcompany&CIK=%s&type=10-K&dateb=&owner=include&count=100&search_text=",
		c.opts.BaseURL, url.QueryEscape(cik))
}

// Locate returns the index page URLs of every 10-K filed by cik, most recent
// first. Failures are logged and produce an empty result.
func (c *Client) Locate(ctx context.Context, cik string) []string {
	cik = strings.TrimSpace(cik)
	if cik == "" {
		c.log.Warn("CIK number is required")
		return nil
	}
	log := c.log.With(zap.String("cik", cik))

	listURL := c.FilingListURL(cik)
	body, err := c.get(ctx, c.http, listURL)
	if err != nil {
		log.Warn("network error while fetching 10-K filings", zap.String("url", listURL), zap.Error(err))
		return nil
	}

	doc, err := parseDocument(body)
	if err != nil {
		log.Warn("unreadable filing list", zap.String("url", listURL), zap.Error(err))
		return nil
	}

	rows, ok := parseFilingTable(doc)
	if !ok {
		log.Warn("no filing table found", zap.String("url", listURL))
		return nil
	}

	urls := selectAnnualReports(rows, c.opts.BaseURL)
	log.Debug("located 10-K filings", zap.Int("rows", len(rows)), zap.Int("filings", len(urls)))
	return urls
}

func parseDocument(body []byte) (*goquery.Document, error) {
	node, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "parse HTML")
	}
	return goquery.NewDocumentFromNode(node), nil
}

// parseFilingTable reads every row after the header of the tableFile2
// table. ok is false when the page has no such table.
func parseFilingTable(doc *goquery.Document) (rows []filingRow, ok bool) {
	table := doc.Find("table.tableFile2").First()
	if table.Length() == 0 {
		return nil, false
	}

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		var row filingRow
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			row.Cells = append(row.Cells, strings.TrimSpace(td.Text()))
			if j == 1 {
				if href, exists := td.Find("a[href]").First().Attr("href"); exists {
					row.Href = strings.TrimSpace(href)
				}
			}
		})
		rows = append(rows, row)
	})
	return rows, true
}

// selectAnnualReports keeps 10-K rows and resolves their document links
// against the site root. Rows that do not qualify are skipped.
func selectAnnualReports(rows []filingRow, root string) []string {
	base, err := url.Parse(strings.TrimRight(root, "/") + "/")
	if err != nil {
		return nil
	}

	var urls []string
	for _, row := range rows {
		if len(row.Cells) <= 3 || row.FormType() != annualReportForm {
			continue
		}
		if row.Href == "" {
			continue
		}
		ref, err := url.Parse(row.Href)
		if err != nil {
			continue
		}
		urls = append(urls, base.ResolveReference(ref).String())
	}
	return urls
}
