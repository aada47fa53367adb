// Package generator builds pools of pronounceable candidate names from a
// keyword/industry/vibe context. Output depends only on the parameters and the
// seed: the same Params always produce the same ordered pool.
package generator

import (
	"strings"

	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

const (
	defaultPoolSize = 120
	maxPoolSize     = 2000
	// attemptsPerSlot bounds the work when the root set cannot fill the pool.
	attemptsPerSlot = 12
)

// Params is the input of one generation pass
type Params struct {
	Keywords       []string
	Industry       domain.Industry
	Vibe           domain.Vibe
	Style          domain.Style
	MinLength      int
	MaxLength      int
	PoolSize       int
	Seed           string
	PreferTwoWord  bool
	SuffixTolerant bool // adds tasteful suffixes to the suffix pool
	GenericAffixes bool // adds get/try/hub style affixes
	AllowHyphen    bool
	AllowDigits    bool
}

func (p Params) clamp() Params {
	if p.MaxLength == 0 {
		p.MaxLength = domain.DefaultMaxLength
	}
	p.MaxLength = min(max(p.MaxLength, domain.MinNameLength+1), domain.MaxNameLength)
	p.MinLength = min(max(p.MinLength, domain.MinNameLength), p.MaxLength)
	switch {
	case p.PoolSize <= 0:
		p.PoolSize = defaultPoolSize
	case p.PoolSize > maxPoolSize:
		p.PoolSize = maxPoolSize
	}
	return p
}

// Generator produces candidate pools from a lexicon
type Generator struct {
	lex *lexicon.Lexicon
}

// New creates a generator backed by lex.
func New(lex *lexicon.Lexicon) *Generator {
	return &Generator{lex: lex}
}

// Generate returns up to p.PoolSize unique candidates. It gives up after
// PoolSize*12 attempts, so a tiny root set at a short length yields a smaller
// pool rather than spinning.
func (g *Generator) Generate(p Params) []domain.Candidate {
	p = p.clamp()
	rng := NewRand(p.Seed)
	b := g.newBuilder(p, rng)
	weights := strategyWeights(p, b)

	seen := make(map[string]bool, p.PoolSize)
	out := make([]domain.Candidate, 0, p.PoolSize)
	for attempt := 0; attempt < p.PoolSize*attemptsPerSlot && len(out) < p.PoolSize; attempt++ {
		strategy := pickStrategy(rng, weights)
		name, roots := b.build(strategy)
		if name == "" {
			continue
		}
		name = Compact(name, p.MinLength, p.MaxLength, b.fillers, p.Keywords)
		if len(name) < p.MinLength || seen[name] || !util.IsValidLabel(name, p.AllowHyphen, p.AllowDigits) {
			continue
		}
		seen[name] = true
		out = append(out, domain.Candidate{
			Name:        name,
			Strategy:    strategy,
			Roots:       roots,
			KeywordHits: KeywordHits(name, p.Keywords),
		})
	}
	return out
}

// KeywordHits returns the keywords literally contained in name.
func KeywordHits(name string, keywords []string) []string {
	var hits []string
	for _, k := range keywords {
		if k != "" && strings.Contains(name, k) {
			hits = append(hits, k)
		}
	}
	return hits
}
