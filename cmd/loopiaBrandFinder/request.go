package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/uberswe/LoopiaBrandFinder/internal/available"
	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/internal/search"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

// requestFlags are the flags shared by search and generate
type requestFlags struct {
	keywords        string
	industry        string
	vibe            string
	maxLength       int
	count           int
	tld             string
	seed            string
	keywordMode     string
	keywordPosition string
	style           string
	block           []string
	allow           []string
	hyphen          bool
	digits          bool
	meaningFirst    bool
	twoWord         bool
	suffix          bool
	showAny         bool
	jsonOut         bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.keywords, "keywords", "k", "", "Concept keywords, e.g. \"eco, green\" (positional args are appended)")
	fl.StringVarP(&f.industry, "industry", "i", "", "Industry: "+industryList())
	fl.StringVarP(&f.vibe, "vibe", "v", "", "Vibe: luxury, futuristic, playful, trustworthy or minimal")
	fl.IntVar(&f.maxLength, "max-length", domain.DefaultMaxLength, "Maximum name length")
	fl.IntVarP(&f.count, "count", "n", domain.DefaultCount, "Number of names wanted")
	fl.StringVar(&f.tld, "tld", "", "Primary extension (default from config)")
	fl.StringVar(&f.seed, "seed", "", "Seed for reproducible pools (default derived from the concept)")
	fl.StringVar(&f.keywordMode, "keyword-mode", "", "Keyword inclusion: exact, partial or none")
	fl.StringVar(&f.keywordPosition, "keyword-position", "", "Keyword position: prefix, suffix or anywhere")
	fl.StringVar(&f.style, "style", "", "Style: real_words or brandable_blends")
	fl.StringSliceVar(&f.block, "block", nil, "Substrings a name must not contain")
	fl.StringSliceVar(&f.allow, "allow", nil, "Substrings exempt from the ugly pattern checks")
	fl.BoolVar(&f.hyphen, "hyphen", false, "Allow hyphens")
	fl.BoolVar(&f.digits, "digits", false, "Allow digits")
	fl.BoolVar(&f.meaningFirst, "meaning-first", false, "Weigh morpheme meaning into the score")
	fl.BoolVar(&f.twoWord, "two-word", false, "Prefer two-word names")
	fl.BoolVar(&f.suffix, "suffix", false, "Allow tasteful suffixes from the start")
	fl.BoolVar(&f.showAny, "show-any", false, "Check names below the quality floor too")
	fl.BoolVar(&f.jsonOut, "json", false, "Print JSON instead of a table")
}

func (f *requestFlags) request(args []string) (domain.Request, error) {
	keywords := strings.TrimSpace(strings.Join(append([]string{f.keywords}, args...), " "))
	if keywords == "" {
		return domain.Request{}, fmt.Errorf("no keywords given, use --keywords or positional arguments")
	}
	return domain.Request{
		Keywords:   keywords,
		Industry:   domain.Industry(f.industry),
		Vibe:       domain.Vibe(f.vibe),
		MaxLength:  f.maxLength,
		Count:      f.count,
		PrimaryTLD: f.tld,
		Controls: domain.SearchControls{
			Seed:             f.seed,
			KeywordMode:      domain.KeywordMode(f.keywordMode),
			KeywordPosition:  domain.KeywordPosition(f.keywordPosition),
			Style:            domain.Style(f.style),
			BlockList:        f.block,
			AllowList:        f.allow,
			AllowHyphen:      f.hyphen,
			AllowDigits:      f.digits,
			MeaningFirst:     f.meaningFirst,
			PreferTwoWord:    f.twoWord,
			SuffixTolerant:   f.suffix,
			ShowAnyAvailable: f.showAny,
		},
	}, nil
}

func industryList() string {
	names := make([]string, len(domain.Industries))
	for i, ind := range domain.Industries {
		names[i] = string(ind)
	}
	return strings.Join(names, ", ")
}

// newEngine wires the configured provider and cache into a search engine.
// The returned close function releases the cache.
func newEngine(dry bool) (*search.Engine, func(), error) {
	provider, err := available.NewProvider(cfg, dry)
	if err != nil {
		return nil, nil, err
	}
	store, err := available.NewStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open availability cache: %w", err)
	}

	log.Info().
		Str("provider", provider.Name()).
		Str("cache", cfg.Cache.Driver).
		Str("tld", cfg.PrimaryTLD).
		Msg("Search engine ready")

	engine := search.NewEngine(lexicon.Default(), available.NewService(provider, store), search.OptionsFromConfig(cfg))
	closeFn := func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close availability cache")
		}
	}
	return engine, closeFn, nil
}
