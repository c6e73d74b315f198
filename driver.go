package edgar

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CompanyResult contains what a run produced for one company
type CompanyResult struct {
	Company CompanyRef        `json:"company"`
	Folder  string            `json:"folder,omitempty"`
	Filings []RetrievalResult `json:"filings"`

	// FolderError is set when the company folder could not be created; no
	// filings were retrieved.
	FolderError string `json:"folderError,omitempty"`
}

// RunSummary contains the results of a run over a company list
type RunSummary struct {
	RunID      string          `json:"runId"`
	Root       string          `json:"root"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Companies  []CompanyResult `json:"companies"`

	CompaniesWithoutFilings int  `json:"companiesWithoutFilings"`
	CompaniesFailed         int  `json:"companiesFailed"`
	FilingsFound            int  `json:"filingsFound"`
	FilingsRetrieved        int  `json:"filingsRetrieved"`
	DocumentsDownloaded     int  `json:"documentsDownloaded"`
	DocumentsFailed         int  `json:"documentsFailed"`
	Canceled                bool `json:"canceled,omitempty"`
}

func (s *RunSummary) add(filing RetrievalResult) {
	s.FilingsFound++
	if filing.Retrieved() {
		s.FilingsRetrieved++
	}
	s.DocumentsDownloaded += len(filing.Downloaded)
	s.DocumentsFailed += len(filing.Failed)
}

// Run processes every company in order: it locates the company's 10-K
// filings and retrieves each one into
// downloadRoot/"{cik} - {name}"/<logical name>. A company with no filings is
// logged and skipped. Only failing to create downloadRoot is an error.
func (c *Client) Run(ctx context.Context, companies []CompanyRef, downloadRoot string) (*RunSummary, error) {
	if err := os.MkdirAll(downloadRoot, 0o755); err != nil {
		return nil, eris.Wrapf(err, "create download root %s", downloadRoot)
	}

	summary := &RunSummary{
		RunID:     uuid.New().String(),
		Root:      downloadRoot,
		StartedAt: time.Now().UTC(),
		Companies: make([]CompanyResult, 0, len(companies)),
	}
	log := c.log.With(zap.String("run_id", summary.RunID))
	log.Info("starting run", zap.Int("companies", len(companies)), zap.String("root", downloadRoot))

	for _, company := range companies {
		if ctx.Err() != nil {
			summary.Canceled = true
			log.Warn("run canceled", zap.Error(ctx.Err()))
			break
		}
		summary.Companies = append(summary.Companies, c.runCompany(ctx, log, company, downloadRoot, summary))
	}

	summary.FinishedAt = time.Now().UTC()
	log.Info("run finished",
		zap.Int("filings_found", summary.FilingsFound),
		zap.Int("filings_retrieved", summary.FilingsRetrieved),
		zap.Int("documents_downloaded", summary.DocumentsDownloaded),
		zap.Int("documents_failed", summary.DocumentsFailed),
	)
	return summary, nil
}

func (c *Client) runCompany(ctx context.Context, log *zap.Logger, company CompanyRef, downloadRoot string, summary *RunSummary) CompanyResult {
	result := CompanyResult{Company: company, Filings: []RetrievalResult{}}
	log = log.With(zap.String("cik", company.CIK), zap.String("company", company.Name))
	log.Info("processing company")

	urls := c.Locate(ctx, company.CIK)
	if len(urls) == 0 {
		log.Warn("no 10-K filings found")
		summary.CompaniesWithoutFilings++
		return result
	}

	folder := CompanyFolder(company)
	companyDir := filepath.Join(downloadRoot, folder)
	if err := os.MkdirAll(companyDir, 0o755); err != nil {
		log.Error("failed to create company folder", zap.String("path", companyDir), zap.Error(err))
		result.FolderError = err.Error()
		summary.CompaniesFailed++
		return result
	}
	result.Folder = folder

	for _, indexURL := range urls {
		if ctx.Err() != nil {
			break
		}
		filing := c.RetrieveFiling(ctx, indexURL, companyDir)
		summary.add(filing)
		result.Filings = append(result.Filings, filing)
		log.Info("downloaded to folder",
			zap.String("folder", filing.FolderName),
			zap.String("main_xbrl_file", filing.PrimaryDocument),
			zap.Stringer("status", filing.Status),
		)
	}
	return result
}
