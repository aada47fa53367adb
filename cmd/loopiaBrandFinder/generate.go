package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/internal/search"
)

var generateFlags requestFlags

var generateCmd = &cobra.Command{
	Use:   "generate [keywords...]",
	Short: "Print ranked names without checking availability",
	RunE:  runGenerate,
}

func init() {
	generateFlags.register(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, args []string) error {
	req, err := generateFlags.request(args)
	if err != nil {
		return err
	}
	engine := search.NewEngine(lexicon.Default(), nil, search.OptionsFromConfig(cfg))
	cands, err := engine.Generate(req)
	if err != nil {
		return err
	}
	if generateFlags.jsonOut {
		return writeJSON(os.Stdout, cands)
	}
	displayPicks(os.Stdout, cands)
	return nil
}
