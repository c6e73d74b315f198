package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	edgar "github.com/RxDataLab/edgar-xbrl"
)

var (
	runCompanies string
	runOut       string
	runSummary   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Download 10-K XBRL files for every company in a list",
	Long: "Reads a JSON list of {\"CIK\": ..., \"company_name\": ...} entries (or the YAML equivalent)\n" +
		"and downloads every 10-K filing's XBRL documents.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		companiesPath := firstNonEmpty(runCompanies, cfg.Download.Companies)
		root := firstNonEmpty(runOut, cfg.Download.Root)

		companies, err := edgar.LoadCompanies(companiesPath)
		if err != nil {
			return eris.Wrap(err, "load companies")
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		summary, err := client.Run(ctx, companies, root)
		if err != nil {
			return err
		}

		if runSummary != "" {
			if err := edgar.WriteSummary(runSummary, summary); err != nil {
				return err
			}
			zap.L().Info("wrote run summary", zap.String("path", runSummary))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d companies, %d/%d filings retrieved, %d documents downloaded, %d failed\n",
			len(summary.Companies), summary.FilingsRetrieved, summary.FilingsFound,
			summary.DocumentsDownloaded, summary.DocumentsFailed)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runCompanies, "companies", "", "company list file (default from config: download.companies)")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "download root (default from config: download.root)")
	runCmd.Flags().StringVar(&runSummary, "summary", "", "write a JSON run summary to this path")
	rootCmd.AddCommand(runCmd)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
