// Package scoring turns generated candidates into ranked, explained scores.
//
// The composite score is unbounded and usually lands between -10 and 30. It
// sums these factors, each reported in the breakdown map:
//
//	length           distance from the style's ideal length
//	pronounceability pronounceability delta around 60
//	memorability     syllable shape and length bonus
//	relevance        keyword, industry root and vibe term hits
//	meaning          meaning score boost, only when meaning-first is on
//	ugly             awkward letter patterns, hyphens and digits
//	generic          filler affixes such as get-, -hub, -app
//	offtopic         roots of unrelated industries
//	position         keyword outside the requested position
//	style            conformance with real words or invented blends
//	vibe             the vibe's letter and sound palette
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/internal/meaning"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

// Breakdown keys
const (
	FactorLength           = "length"
	FactorPronounceability = "pronounceability"
	FactorMemorability     = "memorability"
	FactorRelevance        = "relevance"
	FactorMeaning          = "meaning"
	FactorUgly             = "ugly"
	FactorGeneric          = "generic"
	FactorOffTopic         = "offtopic"
	FactorPosition         = "position"
	FactorStyle            = "style"
	FactorVibe             = "vibe"
)

// factors lists the breakdown keys in summing order
var factors = []string{
	FactorLength, FactorPronounceability, FactorMemorability, FactorRelevance, FactorMeaning,
	FactorUgly, FactorGeneric, FactorOffTopic, FactorPosition, FactorStyle, FactorVibe,
}

// Band thresholds
const (
	HighBand   = 22.0
	MediumBand = 15.0
)

// Context is everything about a request that affects scoring
type Context struct {
	Keywords        []string
	Industry        domain.Industry
	Vibe            domain.Vibe
	Style           domain.Style
	MaxLength       int
	KeywordPosition domain.KeywordPosition
	MeaningFirst    bool
	AllowList       []string
}

// Scorer scores candidates for one request context. Implementations must be
// deterministic: the same candidate always gets the same score.
type Scorer interface {
	Score(c domain.Candidate) domain.ScoredCandidate
}

// Factory builds a Scorer for a request context
type Factory func(lex *lexicon.Lexicon, ctx Context) Scorer

// BrandScorer is the default multi-factor Scorer
type BrandScorer struct {
	ctx      Context
	meaning  *meaning.Engine
	generic  lexicon.GenericEntry
	vibe     lexicon.VibeEntry
	patterns lexicon.Patterns

	industryRoots []string
	otherRoots    []string
}

// NewBrandScorer creates the default scorer for ctx.
func NewBrandScorer(lex *lexicon.Lexicon, ctx Context) *BrandScorer {
	if ctx.MaxLength <= 0 {
		ctx.MaxLength = domain.DefaultMaxLength
	}
	engine := meaning.NewEngine(lex, meaning.Context{
		Keywords: ctx.Keywords,
		Industry: ctx.Industry,
		Vibe:     ctx.Vibe,
	}, meaning.DefaultTopN)
	return &BrandScorer{
		ctx:           ctx,
		meaning:       engine,
		generic:       lex.Generic(),
		vibe:          lex.Vibe(ctx.Vibe),
		patterns:      lex.Patterns(),
		industryRoots: lex.Industry(ctx.Industry).Roots,
		otherRoots:    lex.OtherIndustryRoots(ctx.Industry),
	}
}

// DefaultFactory builds BrandScorers
func DefaultFactory(lex *lexicon.Lexicon, ctx Context) Scorer {
	return NewBrandScorer(lex, ctx)
}

// Score computes the composite score, band and explanations of c.
func (s *BrandScorer) Score(c domain.Candidate) domain.ScoredCandidate {
	name := c.Name
	pron := meaning.Pronounceability(name)
	ex := s.meaning.Explain(c)
	exempt := allowListed(name, s.ctx.AllowList)

	breakdown := map[string]float64{
		FactorLength:           s.lengthFit(name),
		FactorPronounceability: float64(pron-60) / 4,
		FactorMemorability:     memorability(name),
		FactorRelevance:        s.relevance(name),
		FactorOffTopic:         s.offTopic(name),
		FactorPosition:         s.position(name),
		FactorStyle:            s.styleFit(c, pron),
		FactorVibe:             s.vibeFit(name),
	}
	if s.ctx.MeaningFirst {
		breakdown[FactorMeaning] = float64(ex.Score) * 0.12
	}
	if exempt {
		breakdown[FactorUgly] = 0
		breakdown[FactorGeneric] = 0
	} else {
		breakdown[FactorUgly] = s.ugly(name)
		breakdown[FactorGeneric] = s.genericPenalty(name)
	}

	total := 0.0
	for _, f := range factors {
		total += breakdown[f]
	}
	total = round2(total)

	return domain.ScoredCandidate{
		Candidate:             c,
		Score:                 total,
		ScoreBreakdown:        breakdown,
		QualityBand:           Band(total),
		MeaningScore:          ex.Score,
		MeaningBreakdown:      ex.Phrase,
		PronounceabilityScore: pron,
		BrandableScore:        BrandableScore(total),
	}
}

// idealLength depends on the style; invented blends read best a little shorter.
func (s *BrandScorer) idealLength() int {
	ideal := 6
	if s.ctx.Style == domain.StyleRealWords {
		ideal = 7
	}
	return min(ideal, s.ctx.MaxLength)
}

func (s *BrandScorer) lengthFit(name string) float64 {
	dist := math.Abs(float64(len(name) - s.idealLength()))
	return 4 - 1.2*dist
}

func memorability(name string) float64 {
	if name == "" {
		return 0
	}
	score := 0.0
	switch syl := meaning.Syllables(name); {
	case syl == 2:
		score += 4
	case syl == 3:
		score += 3
	case syl == 1:
		score += 2
	case syl >= 4:
		score -= 2
	}
	switch n := len(name); {
	case n <= 6:
		score += 3
	case n <= 8:
		score += 2
	case n <= 10:
		score++
	}
	if strings.ContainsRune("aeioy", rune(name[len(name)-1])) {
		score++
	}
	return score
}

func (s *BrandScorer) relevance(name string) float64 {
	keyword := 0.0
	for _, k := range s.ctx.Keywords {
		if k != "" && strings.Contains(name, k) {
			keyword += 4
		}
	}
	industry := 0.0
	for _, r := range s.industryRoots {
		if strings.Contains(name, r) {
			industry += 3
		}
	}
	vibe := 0.0
	for _, list := range [][]string{s.vibe.Modifiers, s.vibe.Nouns, s.vibe.Hints} {
		for _, w := range list {
			if len(w) >= 3 && strings.Contains(name, w) {
				vibe += 2
			}
		}
	}
	return math.Min(keyword, 8) + math.Min(industry, 6) + math.Min(vibe, 4)
}

func (s *BrandScorer) offTopic(name string) float64 {
	for _, r := range s.otherRoots {
		if len(r) < 4 || !strings.Contains(name, r) || containsAny(r, s.ctx.Keywords) {
			continue
		}
		return -4
	}
	return 0
}

func (s *BrandScorer) position(name string) float64 {
	if len(s.ctx.Keywords) == 0 {
		return 0
	}
	for _, k := range s.ctx.Keywords {
		switch s.ctx.KeywordPosition {
		case domain.PositionPrefix:
			if strings.HasPrefix(name, k) {
				return 0
			}
		case domain.PositionSuffix:
			if strings.HasSuffix(name, k) {
				return 0
			}
		default:
			return 0
		}
	}
	return -4
}

func (s *BrandScorer) styleFit(c domain.Candidate, pron int) float64 {
	whole := len(c.Roots) > 0
	for _, r := range c.Roots {
		if !strings.Contains(c.Name, r) {
			whole = false
			break
		}
	}
	switch s.ctx.Style {
	case domain.StyleRealWords:
		if whole {
			return 3
		}
	case domain.StyleBrandableBlends:
		if !whole && pron >= 70 {
			return 3
		}
	}
	return 0
}

func (s *BrandScorer) ugly(name string) float64 {
	penalty := 0.0
	for _, p := range s.patterns.Penalize {
		if strings.Contains(name, p) {
			penalty -= 3
		}
	}
	if strings.Contains(name, "-") {
		penalty -= 3
	}
	if strings.IndexFunc(name, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 {
		penalty -= 3
	}
	return math.Max(penalty, -9)
}

func (s *BrandScorer) genericPenalty(name string) float64 {
	penalty := 0.0
	for _, p := range s.generic.Prefixes {
		if strings.HasPrefix(name, p) && len(name) > len(p)+2 && !containsAny(p, s.ctx.Keywords) {
			penalty -= 3
			break
		}
	}
	for _, suf := range s.generic.Suffixes {
		if strings.HasSuffix(name, suf) && !containsAny(suf, s.ctx.Keywords) {
			penalty -= 3
			break
		}
	}
	for _, f := range s.generic.Fillers {
		if len(f) >= 3 && strings.Contains(name, f) && !containsAny(f, s.ctx.Keywords) {
			penalty -= 3
			break
		}
	}
	return math.Max(penalty, -6)
}

// Band buckets a composite score.
func Band(score float64) domain.QualityBand {
	switch {
	case score >= HighBand:
		return domain.BandHigh
	case score >= MediumBand:
		return domain.BandMedium
	default:
		return domain.BandLow
	}
}

// BrandableScore maps a composite score onto 1-10.
func BrandableScore(score float64) int {
	v := int(math.Round((score + 10) / 4))
	return min(max(v, 1), 10)
}

// Rank sorts candidates by score descending, breaking ties by name.
func Rank(list []domain.ScoredCandidate) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].Name < list[j].Name
	})
}

// containsAny reports whether any word in words contains s.
func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(w, s) {
			return true
		}
	}
	return false
}

func allowListed(name string, allow []string) bool {
	for _, a := range allow {
		if a != "" && strings.Contains(name, a) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
