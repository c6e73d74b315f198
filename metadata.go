package edgar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rotisserie/eris"
)

// FilingMetadata identifies a filing from its EDGAR archive URL.
type FilingMetadata struct {
	CIK       string
	Accession string
}

var archivePathPattern = regexp.MustCompile(`/edgar/data/(\d+)/(\d+)/`)

// ExtractMetadataFromURL parses SEC EDGAR URLs to extract CIK and accession number
// Example URL: https://www.sec.gov/Archives/edgar/data/320193/000032019323000106/0000320193-23-000106-index.htm
func ExtractMetadataFromURL(rawURL string) (*FilingMetadata, error) {
	matches := archivePathPattern.FindStringSubmatch(rawURL)
	if len(matches) < 3 {
		return nil, eris.Errorf("could not extract CIK and accession from URL %s", rawURL)
	}

	// Format accession number: 0000320193-23-000106
	accession := matches[2]
	if len(accession) == 18 {
		accession = accession[:10] + "-" + accession[10:12] + "-" + accession[12:]
	}

	return &FilingMetadata{
		CIK:       matches[1],
		Accession: accession,
	}, nil
}

// WriteSummary saves a run summary as indented JSON, creating parent
// directories as needed.
func WriteSummary(path string, summary *RunSummary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "create summary directory")
		}
	}

	data, err := FormatJSON(summary)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return eris.Wrap(err, "save summary")
	}
	return nil
}

// FormatJSON returns pretty-printed JSON for a run summary
func FormatJSON(summary *RunSummary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "marshal summary")
	}
	return data, nil
}
