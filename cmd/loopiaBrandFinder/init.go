package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/uberswe/LoopiaBrandFinder/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	// Skip the root hook, the file may not exist yet.
	PersistentPreRunE: func(*cobra.Command, []string) error {
		setupLogger(logLevel)
		return nil
	},
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("%s already exists, use --force to overwrite it", configFile)
	}
	defaults := config.Default()
	// Credentials stay in the environment.
	defaults.Username, defaults.Password = "", ""
	if err := config.Save(defaults, configFile); err != nil {
		return err
	}
	log.Info().Str("file", configFile).Msg("Configuration written")
	return nil
}
