// Package main provides the entry point for the loopiaBrandFinder application.
//
// loopiaBrandFinder turns a free-text concept into brandable names and finds
// the ones whose domain can still be registered. It provides these commands:
//
//  1. search - Generates, scores and ranks names, then checks availability on
//     the primary extension, relaxing its constraints stage by stage until
//     enough names are free or a budget runs out.
//
//  2. generate - Prints the ranked offline pool without any lookups.
//
//  3. serve - Exposes search and generate as a JSON API.
//
//  4. init - Writes a configuration file with the defaults.
//
// Packages are organized by functionality:
//
// - cmd/loopiaBrandFinder: Main application entry point
// - internal/lexicon: Embedded word lists and morphemes
// - internal/generator: Seeded candidate generation
// - internal/meaning: Morpheme explanations and pronounceability
// - internal/scoring: Hard filters and the composite score
// - internal/available: Availability providers, retries and caching
// - internal/search: The relaxation ladder
// - internal/server: JSON API
// - pkg/api: Loopia API client
// - pkg/config: Configuration handling
// - pkg/domain: Models
// - pkg/util: Utility functions
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/uberswe/LoopiaBrandFinder/pkg/config"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

var (
	configFile string
	logLevel   string

	// cfg is loaded before any subcommand runs
	cfg *domain.Config
)

var rootCmd = &cobra.Command{
	Use:           "loopiaBrandFinder",
	Short:         "Find brandable names with a free domain",
	Long:          "loopiaBrandFinder generates brandable names from a concept, scores them and checks which ones can still be registered.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		setupLogger(logLevel)

		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		if !cmd.Flags().Changed("log-level") {
			setupLogger(cfg.LogLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultConfigFileName, "Path to configuration file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
}

func setupLogger(level string) {
	zerolog.TimeFieldFormat = "2006-01-02 15:04:05.000000"

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.StampMicro,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func main() {
	// A missing .env is fine, credentials may come from the config file.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
