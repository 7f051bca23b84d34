// Package cmd holds the hushhush command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"hushhush/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "dev"

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hushhush",
		Short:         "HushHush crowdfunded secrets API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			return configureLogging(cfg.LogLevel, cfg.LogFormat)
		},
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())

	return root
}

// Execute runs the command line until ctx is cancelled
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// configureLogging sets the logrus level and formatter
func configureLogging(level, format string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	log.SetLevel(parsed)
	log.SetOutput(os.Stdout)

	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", format)
	}
	return nil
}
