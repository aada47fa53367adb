package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	searchFlags requestFlags
	searchDry   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Find brandable names whose domain is free",
	Long: `Generates and ranks names for the concept, then checks availability on the
primary extension. When too few names are free it relaxes keyword position,
length, two-word mode, suffixes, generic affixes and keyword matching, in that
order, until the requested count is found or a budget runs out.`,
	RunE: runSearch,
}

func init() {
	searchFlags.register(searchCmd)
	searchCmd.Flags().BoolVar(&searchDry, "dry", false, "Dry-run, every domain is reported free and no provider is called")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req, err := searchFlags.request(args)
	if err != nil {
		return err
	}
	engine, closeFn, err := newEngine(searchDry)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := engine.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	if searchFlags.jsonOut {
		return writeJSON(os.Stdout, res)
	}
	displayPicks(os.Stdout, res.Picks)
	displaySummary(os.Stdout, res.Summary)
	return nil
}
