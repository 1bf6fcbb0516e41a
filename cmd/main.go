package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "webcontent",
		Short: "Fetch web pages and return their visible text",
		Long: `webcontent fetches a page by URL, strips markup, scripts and styles,
and returns the visible body text with whitespace collapsed.

Run "webcontent serve" for the HTTP API or "webcontent extract <url>" for a
single page.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to config file")
	root.AddCommand(newServeCmd(), newExtractCmd())
	return root
}
