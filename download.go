package edgar

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DownloadedFile is a document written to disk.
type DownloadedFile struct {
	Path      string `json:"path"`
	SourceURL string `json:"sourceUrl"`
}

// IsPrimary reports whether the file name carries the primary XBRL marker.
func (f DownloadedFile) IsPrimary(marker string) bool {
	return marker != "" && strings.Contains(filepath.Base(f.Path), marker)
}

// Session downloads the documents of one filing over a single connection
// pool with a fixed header set. Close it when the filing is done.
type Session struct {
	client *Client
	http   *http.Client
	log    *zap.Logger
}

// NewSession opens a download session. Sessions are not shared between
// filings.
func (c *Client) NewSession() *Session {
	return &Session{
		client: c,
		http:   newHTTPClient(c.opts.Timeout),
		log:    c.log,
	}
}

// Close releases the session's connections.
func (s *Session) Close() {
	s.http.CloseIdleConnections()
}

// FetchOne downloads rawURL into destDir, named after the URL's last path
// segment. It makes up to RetryConfig.MaxAttempts attempts and reports false
// when all of them fail; the failure is logged, never returned.
func (s *Session) FetchOne(ctx context.Context, rawURL, destDir string) (DownloadedFile, bool) {
	log := s.log.With(zap.String("url", rawURL))

	filename := SanitizeName(urlFilename(rawURL))
	if filename == "" {
		log.Warn("cannot derive a file name from document URL")
		return DownloadedFile{}, false
	}
	target := filepath.Join(destDir, filename)

	retry := s.client.opts.Retry
	body, err := retryVal(ctx, retry, func(attempt int, err error) {
		log.Warn("failed to download document",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", retry.MaxAttempts),
			zap.Error(err),
		)
	}, func(ctx context.Context) ([]byte, error) {
		return s.client.get(ctx, s.http, rawURL)
	})
	if err != nil {
		log.Error("giving up on document", zap.Error(err))
		return DownloadedFile{}, false
	}

	if err := writeFileAtomic(target, body, 0o644); err != nil {
		log.Error("failed to save document", zap.String("path", target), zap.Error(err))
		return DownloadedFile{}, false
	}

	log.Info("downloaded", zap.String("path", target), zap.Int("bytes", len(body)))
	return DownloadedFile{Path: target, SourceURL: rawURL}, true
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so path holds either the old or the new content.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "rename into %s", path)
	}
	return nil
}
