// Package lexicon holds the static word lists and the morpheme dictionary the
// generator and scorers draw from. A Lexicon is loaded once and never mutated;
// accessors hand out copies.
package lexicon

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/lexicon.yaml
var lexiconYAML []byte

//go:embed data/morphemes.yaml
var morphemesYAML []byte

// IndustryEntry is the word list of one industry
type IndustryEntry struct {
	Roots []string `yaml:"roots"`
	Hints []string `yaml:"hints"` // morpheme fragments associated with the industry
}

// VibeEntry is the flavor of one vibe
type VibeEntry struct {
	Modifiers []string `yaml:"modifiers"`
	Nouns     []string `yaml:"nouns"`
	Suffixes  []string `yaml:"suffixes"`
	Vowels    string   `yaml:"vowels"` // preferred linking and swap vowels
	Hints     []string `yaml:"hints"`
}

// GenericEntry holds vibe- and industry-independent word lists
type GenericEntry struct {
	Prefixes         []string `yaml:"prefixes"`
	SoftPrefixes     []string `yaml:"soft_prefixes"`
	Suffixes         []string `yaml:"suffixes"`
	TastefulSuffixes []string `yaml:"tasteful_suffixes"`
	RealWordSuffixes []string `yaml:"real_word_suffixes"`
	Fillers          []string `yaml:"fillers"`
	Emotive          []string `yaml:"emotive"`
	Verbs            []string `yaml:"verbs"`
	Connectors       []string `yaml:"connectors"`
	TrustRoots       []string `yaml:"trust_roots"`
	ClutterSuffixes  []string `yaml:"clutter_suffixes"`
	DigitSuffixes    []string `yaml:"digit_suffixes"`
}

// Patterns are letter sequences the filters and scorers look for
type Patterns struct {
	Reject       []string `yaml:"reject"`
	Penalize     []string `yaml:"penalize"`
	RareClusters []string `yaml:"rare_clusters"`
}

type lexiconFile struct {
	Industries map[domain.Industry]IndustryEntry `yaml:"industries"`
	Vibes      map[domain.Vibe]VibeEntry         `yaml:"vibes"`
	Generic    GenericEntry                      `yaml:"generic"`
	Patterns   Patterns                          `yaml:"patterns"`
}

// Lexicon is the immutable reference data
type Lexicon struct {
	industries map[domain.Industry]IndustryEntry
	vibes      map[domain.Vibe]VibeEntry
	generic    GenericEntry
	patterns   Patterns
	morphemes  []domain.MorphemeEntry // sorted by fragment
	index      map[string]int
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the lexicon built from the embedded data files.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Load(lexiconYAML, morphemesYAML)
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded data is invalid: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// Load parses a lexicon and a morpheme dictionary.
func Load(lexiconData, morphemeData []byte) (*Lexicon, error) {
	var file lexiconFile
	if err := yaml.Unmarshal(lexiconData, &file); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if _, ok := file.Industries[domain.IndustryGeneral]; !ok {
		return nil, fmt.Errorf("lexicon has no %q industry", domain.IndustryGeneral)
	}

	var entries []domain.MorphemeEntry
	if err := yaml.Unmarshal(morphemeData, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse morphemes: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Fragment < entries[j].Fragment })

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Fragment == "" {
			return nil, fmt.Errorf("morpheme %d has an empty fragment", i)
		}
		if _, dup := index[e.Fragment]; dup {
			return nil, fmt.Errorf("duplicate morpheme fragment %q", e.Fragment)
		}
		if e.Weight <= 0 {
			entries[i].Weight = 1
		}
		index[e.Fragment] = i
	}

	return &Lexicon{
		industries: file.Industries,
		vibes:      file.Vibes,
		generic:    file.Generic,
		patterns:   file.Patterns,
		morphemes:  entries,
		index:      index,
	}, nil
}

// Industry returns the word list for an industry, falling back to general.
func (l *Lexicon) Industry(industry domain.Industry) IndustryEntry {
	entry, ok := l.industries[industry]
	if !ok {
		entry = l.industries[domain.IndustryGeneral]
	}
	return IndustryEntry{Roots: slices.Clone(entry.Roots), Hints: slices.Clone(entry.Hints)}
}

// Vibe returns the flavor of a vibe. The zero VibeEntry is returned for no vibe.
func (l *Lexicon) Vibe(vibe domain.Vibe) VibeEntry {
	entry := l.vibes[vibe]
	return VibeEntry{
		Modifiers: slices.Clone(entry.Modifiers),
		Nouns:     slices.Clone(entry.Nouns),
		Suffixes:  slices.Clone(entry.Suffixes),
		Vowels:    entry.Vowels,
		Hints:     slices.Clone(entry.Hints),
	}
}

// Generic returns the shared word lists.
func (l *Lexicon) Generic() GenericEntry {
	g := l.generic
	return GenericEntry{
		Prefixes:         slices.Clone(g.Prefixes),
		SoftPrefixes:     slices.Clone(g.SoftPrefixes),
		Suffixes:         slices.Clone(g.Suffixes),
		TastefulSuffixes: slices.Clone(g.TastefulSuffixes),
		RealWordSuffixes: slices.Clone(g.RealWordSuffixes),
		Fillers:          slices.Clone(g.Fillers),
		Emotive:          slices.Clone(g.Emotive),
		Verbs:            slices.Clone(g.Verbs),
		Connectors:       slices.Clone(g.Connectors),
		TrustRoots:       slices.Clone(g.TrustRoots),
		ClutterSuffixes:  slices.Clone(g.ClutterSuffixes),
		DigitSuffixes:    slices.Clone(g.DigitSuffixes),
	}
}

// Patterns returns the reject/penalize letter patterns.
func (l *Lexicon) Patterns() Patterns {
	return Patterns{
		Reject:       slices.Clone(l.patterns.Reject),
		Penalize:     slices.Clone(l.patterns.Penalize),
		RareClusters: slices.Clone(l.patterns.RareClusters),
	}
}

// OtherIndustryRoots returns the roots of every industry except the given one
// and general, in a stable order without duplicates.
func (l *Lexicon) OtherIndustryRoots(industry domain.Industry) []string {
	own := make(map[string]bool)
	for _, r := range l.industries[industry].Roots {
		own[r] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, ind := range domain.Industries {
		if ind == industry || ind == domain.IndustryGeneral {
			continue
		}
		for _, r := range l.industries[ind].Roots {
			if own[r] || seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// Morphemes returns every morpheme sorted by fragment.
func (l *Lexicon) Morphemes() []domain.MorphemeEntry {
	return slices.Clone(l.morphemes)
}

// Morpheme looks up a morpheme by fragment.
func (l *Lexicon) Morpheme(fragment string) (domain.MorphemeEntry, bool) {
	i, ok := l.index[fragment]
	if !ok {
		return domain.MorphemeEntry{}, false
	}
	return l.morphemes[i], true
}
