package edgar

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RetrievalStatus is the outcome of retrieving one filing.
type RetrievalStatus int

const (
	// StatusUnknown is the zero value; no retrieval has been recorded.
	StatusUnknown RetrievalStatus = iota
	// StatusRetrieved means the folder was created and every document was attempted.
	StatusRetrieved
	// StatusNoDocuments means the index page listed no structured-data documents.
	StatusNoDocuments
	// StatusUnnamed means documents were found but none yields a folder name.
	StatusUnnamed
	// StatusFolderError means the destination folder could not be created.
	StatusFolderError
)

func (s RetrievalStatus) String() string {
	switch s {
	case StatusRetrieved:
		return "retrieved"
	case StatusNoDocuments:
		return "no-documents"
	case StatusUnnamed:
		return "unnamed"
	case StatusFolderError:
		return "folder-error"
	default:
		return "unknown"
	}
}

// MarshalText lets the status appear by name in JSON summaries.
func (s RetrievalStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status written by MarshalText.
func (s *RetrievalStatus) UnmarshalText(text []byte) error {
	for _, candidate := range []RetrievalStatus{StatusRetrieved, StatusNoDocuments, StatusUnnamed, StatusFolderError} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return eris.Errorf("unknown retrieval status %q", text)
}

// RetrievalResult is the per-filing outcome. Empty FolderName or
// PrimaryDocument means absent.
type RetrievalResult struct {
	IndexURL        string           `json:"indexUrl"`
	Accession       string           `json:"accession,omitempty"`
	Status          RetrievalStatus  `json:"status"`
	FolderName      string           `json:"folderName,omitempty"`
	PrimaryDocument string           `json:"primaryDocument,omitempty"`
	Downloaded      []DownloadedFile `json:"downloaded,omitempty"`
	Failed          []string         `json:"failed,omitempty"`
}

// Retrieved reports whether the filing's folder was populated.
func (r RetrievalResult) Retrieved() bool {
	return r.Status == StatusRetrieved
}

// RetrieveFiling downloads every structured-data document of the filing at
// indexURL into downloadRoot/<logical name>. Documents are fetched in page
// order over one Session; a failed document does not stop the rest. The last
// downloaded file carrying the primary marker is reported as the primary
// document.
func (c *Client) RetrieveFiling(ctx context.Context, indexURL, downloadRoot string) RetrievalResult {
	result := RetrievalResult{IndexURL: indexURL}
	if meta, err := ExtractMetadataFromURL(indexURL); err == nil {
		result.Accession = meta.Accession
	}
	log := c.log.With(zap.String("index_url", indexURL))

	set := c.ExtractDocuments(ctx, indexURL)
	if len(set.Documents) == 0 {
		log.Warn("no files found for filing")
		result.Status = StatusNoDocuments
		return result
	}
	if !set.Named() {
		log.Warn("no document follows the XBRL naming convention, skipping filing",
			zap.Int("documents", len(set.Documents)))
		result.Status = StatusUnnamed
		return result
	}

	destDir := filepath.Join(downloadRoot, set.LogicalName)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		log.Error("failed to create filing folder", zap.String("path", destDir), zap.Error(err))
		result.Status = StatusFolderError
		return result
	}
	result.Status = StatusRetrieved
	result.FolderName = set.LogicalName

	sess := c.NewSession()
	defer sess.Close()

	for i, docURL := range set.Documents {
		if ctx.Err() != nil {
			log.Warn("retrieval canceled", zap.Int("remaining", len(set.Documents)-i), zap.Error(ctx.Err()))
			result.Failed = append(result.Failed, set.Documents[i:]...)
			break
		}

		file, ok := sess.FetchOne(ctx, docURL, destDir)
		if !ok {
			result.Failed = append(result.Failed, docURL)
			continue
		}
		result.Downloaded = append(result.Downloaded, file)

		if file.IsPrimary(c.opts.PrimaryMarker) {
			if result.PrimaryDocument != "" {
				log.Debug("replacing primary document",
					zap.String("previous", result.PrimaryDocument),
					zap.String("path", file.Path))
			}
			result.PrimaryDocument = file.Path
		}
	}

	log.Info("filing retrieved",
		zap.String("folder", result.FolderName),
		zap.String("primary", result.PrimaryDocument),
		zap.Int("downloaded", len(result.Downloaded)),
		zap.Int("failed", len(result.Failed)),
	)
	return result
}
