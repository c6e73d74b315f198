package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	VERSION = "0.1.0"

	// DefaultBaseURL is the EDGAR site root that filing links are resolved against.
	DefaultBaseURL = "https://www.sec.gov"

	// DefaultUserAgent and DefaultAccept form the browser-like header pair sent
	// with every request. EDGAR rejects clients that send neither.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	DefaultAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	DefaultTimeout = 30 * time.Second

	// DefaultExtension selects the structured-data documents on an index page.
	DefaultExtension = ".xml"

	// DefaultPrimaryMarker identifies the XBRL instance generated from the
	// inline 10-K document.
	DefaultPrimaryMarker = "_htm.xml"

	// SecEmailEnvVar is the environment variable name for SEC email
	SecEmailEnvVar = "SEC_EMAIL"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks an address before it is put in the User-Agent header.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return eris.Errorf("invalid email format: %s", email)
	}
	if strings.HasSuffix(email, "example.com") {
		return eris.Errorf("use a real email address, not example.com: %s", email)
	}
	return nil
}

// BuildUserAgent creates the declared User-Agent the SEC asks automated
// clients to send.
func BuildUserAgent(email string) string {
	return fmt.Sprintf("edgar-xbrl/%s (%s)", VERSION, email)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("SEC returned status %d for %s", e.StatusCode, e.URL)
}

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL       string
	UserAgent     string
	Accept        string
	Timeout       time.Duration
	Extension     string
	PrimaryMarker string
	Retry         RetryConfig
	Logger        *zap.Logger
}

// DefaultOptions returns the options used against the live EDGAR site.
func DefaultOptions() Options {
	return Options{
		BaseURL:       DefaultBaseURL,
		UserAgent:     DefaultUserAgent,
		Accept:        DefaultAccept,
		Timeout:       DefaultTimeout,
		Extension:     DefaultExtension,
		PrimaryMarker: DefaultPrimaryMarker,
		Retry:         DefaultRetryConfig(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BaseURL == "" {
		o.BaseURL = d.BaseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	if o.Accept == "" {
		o.Accept = d.Accept
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.Extension == "" {
		o.Extension = d.Extension
	}
	if o.PrimaryMarker == "" {
		o.PrimaryMarker = d.PrimaryMarker
	}
	o.Retry = o.Retry.withDefaults()
	if o.Logger == nil {
		o.Logger = zap.L()
	}
	return o
}

// Client runs discovery and retrieval against one EDGAR host. It keeps no
// per-run state; downloads go through a Session opened per filing.
type Client struct {
	opts Options
	http *http.Client
	log  *zap.Logger
}

// NewClient creates a Client for the given options.
func NewClient(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		opts: opts,
		http: newHTTPClient(opts.Timeout),
		log:  opts.Logger,
	}
}

// Options returns the effective options after defaults were applied.
func (c *Client) Options() Options {
	return c.opts
}

// Close releases idle connections held by the discovery client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 2
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// get issues one GET with the client's header set and returns the full body.
func (c *Client) get(ctx context.Context, hc *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", c.opts.Accept)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "request %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection goes back to the pool.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "read response from %s", rawURL)
	}
	return body, nil
}
