package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/xhad/webcontent/internal/types"
	cfgPkg "github.com/xhad/webcontent/pkg/config"
	"github.com/xhad/webcontent/pkg/extractor"
	"github.com/xhad/webcontent/pkg/fetcher"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Print the visible text of a single page",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtractCmd,
	}

	cmd.Flags().Duration("timeout", cfgPkg.DefaultFetchTimeout, "Fetch timeout")
	cmd.Flags().String("user-agent", "", "User-Agent header for the fetch")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Bool("quiet", false, "Only print the extracted text")
	return cmd
}

func runExtractCmd(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	f := fetcher.NewWithConfig(fetcher.FetcherConfig{
		Timeout:      config.Fetcher.Timeout,
		UserAgent:    config.Fetcher.UserAgent,
		MaxBodyBytes: config.Fetcher.MaxBodyBytes,
	})

	status := io.Writer(os.Stderr)
	if quiet {
		status = io.Discard
	}
	return runExtract(cmd.Context(), cmd.OutOrStdout(), status, f, extractor.New(), args[0])
}

func getSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// runExtract fetches url, extracts its text to out and reports progress to status.
func runExtract(ctx context.Context, out, status io.Writer, f types.Fetcher, e types.Extractor, url string) error {
	if url == "" {
		return errors.New("URL is required")
	}

	spinner := getSpinner(status, fmt.Sprintf(" Fetching %s", url))
	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				spinner.Add(1)
			}
		}
	}()

	html, err := f.Fetch(ctx, url)
	close(stop)
	<-stopped
	spinner.Finish()
	if err != nil {
		color.New(color.FgRed).Fprintf(status, "✗ Failed to fetch %s: %v\n", url, err)
		return err
	}

	content, err := e.Extract(html)
	if err != nil {
		color.New(color.FgRed).Fprintf(status, "✗ Failed to extract text: %v\n", err)
		return err
	}

	color.New(color.FgGreen).Fprintf(status, "✓ Extracted %d characters\n", len(content))
	_, err = fmt.Fprintln(out, content)
	return err
}
