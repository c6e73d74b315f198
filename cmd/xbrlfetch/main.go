package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	edgar "github.com/RxDataLab/edgar-xbrl"
	"github.com/RxDataLab/edgar-xbrl/internal/config"
)

var (
	cfg        *config.Config
	configPath string
	email      string
)

var rootCmd = &cobra.Command{
	Use:   "xbrlfetch",
	Short: "Download 10-K XBRL files from SEC EDGAR",
	Long: "Finds every 10-K a company filed on EDGAR and downloads the XBRL documents of each filing into\n" +
		"<root>/<cik> - <company name>/<filing name>/.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		if email != "" {
			cfg.HTTP.Email = email
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), edgar.VERSION)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&email, "email", "", "contact email declared in the User-Agent (or set "+edgar.SecEmailEnvVar+")")
	rootCmd.AddCommand(versionCmd)
}

// newClient builds an EDGAR client from the loaded configuration.
func newClient() (*edgar.Client, error) {
	opts, err := cfg.ClientOptions()
	if err != nil {
		return nil, err
	}
	return edgar.NewClient(opts), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
