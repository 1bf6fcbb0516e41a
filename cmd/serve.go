package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xhad/webcontent/internal/logging"
	cfgPkg "github.com/xhad/webcontent/pkg/config"
	"github.com/xhad/webcontent/pkg/extractor"
	"github.com/xhad/webcontent/pkg/fetcher"
	"github.com/xhad/webcontent/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().Int("port", cfgPkg.DefaultPort, "Port to listen on")
	cmd.Flags().StringSlice("allowed-origins", nil, "Origins allowed by CORS (default any)")
	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().Bool("json-logs", false, "Write logs as JSON lines")
	cmd.Flags().Bool("quiet", false, "Only log errors")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.New(logging.Options{
		Debug: config.Log.Debug,
		Quiet: config.Log.Quiet,
		JSON:  config.Log.JSON,
	})

	gin.SetMode(gin.ReleaseMode)

	f := fetcher.NewWithConfig(fetcher.FetcherConfig{
		Timeout:      config.Fetcher.Timeout,
		UserAgent:    config.Fetcher.UserAgent,
		MaxBodyBytes: config.Fetcher.MaxBodyBytes,
		Logger:       &log,
	})

	srv, err := server.New(server.Config{
		Port:           config.Server.Port,
		AllowedOrigins: config.Server.AllowedOrigins,
		Logger:         &log,
	}, f, extractor.New())
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// loadConfig reads the config file and applies any flags the user set.
func loadConfig(cmd *cobra.Command) (*cfgPkg.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	config, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		config.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("allowed-origins") {
		config.Server.AllowedOrigins, _ = flags.GetStringSlice("allowed-origins")
	}
	if flags.Changed("debug") {
		config.Log.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("quiet") {
		config.Log.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("json-logs") {
		config.Log.JSON, _ = flags.GetBool("json-logs")
	}
	if flags.Changed("timeout") {
		config.Fetcher.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("user-agent") {
		config.Fetcher.UserAgent, _ = flags.GetString("user-agent")
	}

	if errs := config.Validate(); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	return config, nil
}
