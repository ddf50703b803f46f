package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/bluebird/internal/config"
	"github.com/teemow/bluebird/internal/logging"
)

// rootCmd represents the base command for the bluebird application
var rootCmd = &cobra.Command{
	Use:   "bluebird",
	Short: "Rewrites email drafts with the Bluebird service",
	Long: `bluebird rewrites the body of an email draft through the Bluebird rewriting
service and lets you rate the result.

It can run as:
  - A one-shot CLI on a local HTML/Markdown file or a Gmail draft
  - An interactive terminal pane
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

var (
	configPath string
	debugMode  bool
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "bluebird version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newRewriteCmd())
	rootCmd.AddCommand(newPaneCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDevServiceCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newDraftsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

// loadRuntime reads the config and installs the stderr logger as the slog
// default.
func loadRuntime() (*config.Config, *slog.Logger, error) {
	logger := slog.New(slogHandler())
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("config loaded", slog.String("path", configPath))
	return cfg, logger, nil
}

func slogHandler() slog.Handler {
	return logging.NewHandler(os.Stderr, debugMode)
}
