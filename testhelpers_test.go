package edgar

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

const browsePath = "/cgi-bin/browse-edgar"

// filingListPage is a trimmed EDGAR company browse page for CIK 1.
const filingListPage = `<html><body>
<div id="seriesDiv">
<table class="tableFile2" summary="Results">
<tr>
  <th>Filings</th><th>Format</th><th>Description</th><th>Filing Date</th><th>File/Film Number</th>
</tr>
<tr>
  <td nowrap="nowrap">10-K</td>
  <td nowrap="nowrap"><a href="/Archives/edgar/data/1/000000000123000001/0000000001-23-000001-index.htm" id="documentsbutton">&nbsp;Documents</a>&nbsp; <a href="/cgi-bin/viewer?action=view&amp;cik=1" id="interactiveDataBtn">&nbsp;Interactive Data</a></td>
  <td class="small">Annual report [Section 13 and 15(d), not S-K Item 405]</td>
  <td>2023-11-03</td>
  <td><a href="/cgi-bin/browse-edgar?action=getcompany&amp;filenum=001-36743">001-36743</a></td>
</tr>
<tr>
  <td nowrap="nowrap">10-K/A</td>
  <td nowrap="nowrap"><a href="/Archives/edgar/data/1/000000000123000009/0000000001-23-000009-index.htm">&nbsp;Documents</a></td>
  <td class="small">Amended annual report</td>
  <td>2023-06-01</td>
  <td>001-36743</td>
</tr>
<tr>
  <td nowrap="nowrap"> 10-K </td>
  <td nowrap="nowrap"><a href="/Archives/edgar/data/1/000000000122000002/0000000001-22-000002-index.htm">&nbsp;Documents</a></td>
  <td class="small">Annual report</td>
  <td>2022-10-28</td>
  <td>001-36743</td>
</tr>
<tr>
  <td>10-K</td>
  <td><a href="/Archives/edgar/data/1/000000000121000003/short-index.htm">Documents</a></td>
  <td>Too few columns</td>
</tr>
<tr>
  <td>10-K</td>
  <td>no link</td>
  <td>Annual report</td>
  <td>2021-10-29</td>
</tr>
</table>
</div>
</body></html>`

// indexPage is a filing index listing two XBRL documents among other links.
const indexPage = `<html><body>
<table class="tableFile" summary="Document Format Files">
<tr><td><a href="/ix?doc=/Archives/edgar/data/1/000000000123000001/aapl-20230101.htm">aapl-20230101.htm</a></td></tr>
<tr><td><a href="/Archives/edgar/data/1/000000000123000001/0000000001-23-000001.txt">full submission</a></td></tr>
</table>
<table class="tableFile" summary="Data Files">
<tr><td><a href="/Archives/edgar/data/1/000000000123000001/aapl-20230101.xml">aapl-20230101.xml</a></td></tr>
<tr><td><a href="aapl-20230101_htm.xml">aapl-20230101_htm.xml</a></td></tr>
</table>
</body></html>`

// noXBRLPage is an index page without any structured-data documents.
const noXBRLPage = `<html><body>
<a href="/Archives/edgar/data/1/000000000122000002/form10k.htm">form10k.htm</a>
<a href="/Archives/edgar/data/1/000000000122000002/ex21.htm">ex21.htm</a>
</body></html>`

const (
	indexPath   = "/Archives/edgar/data/1/000000000123000001/0000000001-23-000001-index.htm"
	docPath     = "/Archives/edgar/data/1/000000000123000001/aapl-20230101.xml"
	primaryPath = "/Archives/edgar/data/1/000000000123000001/aapl-20230101_htm.xml"
)

// fakeEDGAR serves canned pages and records every request.
type fakeEDGAR struct {
	srv *httptest.Server

	mu       sync.Mutex
	pages    map[string]string
	failures map[string][]int
	hits     map[string]int
	requests []*http.Request
}

func newFakeEDGAR(t *testing.T) *fakeEDGAR {
	t.Helper()
	f := &fakeEDGAR{
		pages:    make(map[string]string),
		failures: make(map[string][]int),
		hits:     make(map[string]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func requestKey(r *http.Request) string {
	if r.URL.Path == browsePath {
		return browsePath + "?CIK=" + r.URL.Query().Get("CIK")
	}
	return r.URL.Path
}

func (f *fakeEDGAR) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	key := requestKey(r)
	f.hits[key]++
	f.requests = append(f.requests, r.Clone(r.Context()))
	var status int
	if queue := f.failures[key]; len(queue) > 0 {
		status, f.failures[key] = queue[0], queue[1:]
	}
	body, ok := f.pages[key]
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

// page serves body at key (a path, or browsePath+"?CIK=n").
func (f *fakeEDGAR) page(key, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[key] = body
}

// fail makes the next requests to key answer with the given statuses.
func (f *fakeEDGAR) fail(key string, statuses ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = append(f.failures[key], statuses...)
}

func (f *fakeEDGAR) hitCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeEDGAR) request(i int) *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

func (f *fakeEDGAR) totalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeEDGAR) url(path string) string {
	return f.srv.URL + path
}

// withFiling serves the CIK 1 browse page, the filing index and its documents.
func (f *fakeEDGAR) withFiling() *fakeEDGAR {
	f.page(browsePath+"?CIK=1", filingListPage)
	f.page(indexPath, indexPage)
	f.page(docPath, `<xbrl>schema-less instance</xbrl>`)
	f.page(primaryPath, `<xbrl>primary instance</xbrl>`)
	return f
}

func testOptions(baseURL string, logger *zap.Logger) Options {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Options{
		BaseURL: baseURL,
		Logger:  logger,
		Retry: RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     2 * time.Millisecond,
		},
	}
}

func newTestClient(t *testing.T, f *fakeEDGAR, logger *zap.Logger) *Client {
	t.Helper()
	c := NewClient(testOptions(f.srv.URL, logger))
	t.Cleanup(c.Close)
	return c
}
