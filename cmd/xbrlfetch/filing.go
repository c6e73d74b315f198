package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var filingOut string

var locateCmd = &cobra.Command{
	Use:   "locate <cik>",
	Short: "List the 10-K filing index pages of a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		urls := client.Locate(cmd.Context(), args[0])
		if len(urls) == 0 {
			return eris.Errorf("no 10-K filings found for CIK %s", args[0])
		}
		for _, u := range urls {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

var filingCmd = &cobra.Command{
	Use:   "filing <index-url>",
	Short: "Download the XBRL documents of a single filing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		root := firstNonEmpty(filingOut, cfg.Download.Root)
		if err := os.MkdirAll(root, 0o755); err != nil {
			return eris.Wrapf(err, "create %s", root)
		}

		result := client.RetrieveFiling(cmd.Context(), args[0], root)
		if !result.Retrieved() {
			return eris.Errorf("filing not retrieved: %s", result.Status)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Downloaded to folder: %s, Main XBRL File: %s\n", result.FolderName, result.PrimaryDocument)
		return nil
	},
}

func init() {
	filingCmd.Flags().StringVarP(&filingOut, "out", "o", "", "download root (default from config: download.root)")
	rootCmd.AddCommand(locateCmd, filingCmd)
}
