// Package meaning explains generated names in terms of recognizable
// fragments and rates how easy they are to pronounce.
package meaning

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

// DefaultTopN is the number of morphemes kept for a context
const DefaultTopN = 24

const (
	exactOverlap     = 1.0
	prefixOverlap    = 0.82
	substringOverlap = 0.68
	industryHint     = 0.6
	vibeHint         = 0.45

	maxExplained  = 3
	minRootLength = 3
)

// Context is the search context a set of morphemes is selected for
type Context struct {
	Keywords []string
	Industry domain.Industry
	Vibe     domain.Vibe
}

// Explanation describes what a name is built from
type Explanation struct {
	Fragments []domain.MorphemeEntry // in the order they appear in the name
	DictRoot  string                 // a whole keyword or source root found in the name
	Coverage  float64                // share of the name covered by fragments and the root
	Phrase    string
	Score     int // 0-100
}

// Engine selects the morphemes relevant to one context and explains names against them.
type Engine struct {
	lex      *lexicon.Lexicon
	ctx      Context
	selected []domain.MorphemeEntry
}

type rankedMorpheme struct {
	entry domain.MorphemeEntry
	score float64
}

// NewEngine scores every morpheme against the context and keeps the best topN.
// A topN of zero or less uses DefaultTopN.
func NewEngine(lex *lexicon.Lexicon, ctx Context, topN int) *Engine {
	if topN <= 0 {
		topN = DefaultTopN
	}
	industryHints := toSet(lex.Industry(ctx.Industry).Hints)
	vibeHints := toSet(lex.Vibe(ctx.Vibe).Hints)

	var ranked []rankedMorpheme
	for _, m := range lex.Morphemes() {
		s := overlap(m.Fragment, ctx.Keywords)
		if industryHints[m.Fragment] {
			s += industryHint
		}
		if vibeHints[m.Fragment] {
			s += vibeHint
		}
		if s <= 0 {
			continue
		}
		ranked = append(ranked, rankedMorpheme{entry: m, score: s * m.Weight})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].entry.Fragment < ranked[j].entry.Fragment
	})

	selected := make([]domain.MorphemeEntry, 0, min(topN, len(ranked)))
	for i := 0; i < len(ranked) && i < topN; i++ {
		selected = append(selected, ranked[i].entry)
	}
	return &Engine{lex: lex, ctx: ctx, selected: selected}
}

// overlap returns the best token overlap of fragment with any keyword.
func overlap(fragment string, keywords []string) float64 {
	best := 0.0
	for _, k := range keywords {
		var s float64
		switch {
		case k == fragment:
			s = exactOverlap
		case strings.HasPrefix(k, fragment), strings.HasPrefix(fragment, k):
			s = prefixOverlap
		case strings.Contains(k, fragment), strings.Contains(fragment, k):
			s = substringOverlap
		}
		best = max(best, s)
	}
	return best
}

// Selected returns the morphemes kept for the context, best first.
func (e *Engine) Selected() []domain.MorphemeEntry {
	return slices.Clone(e.selected)
}

type span struct {
	start, end int
	entry      domain.MorphemeEntry
}

// Explain finds up to three non-overlapping fragments inside the candidate's
// name, longest first, and scores how well they account for it.
func (e *Engine) Explain(c domain.Candidate) Explanation {
	name := c.Name
	pool := e.fragmentPool(c)

	taken := make([]bool, len(name))
	var spans []span
	for _, m := range pool {
		if len(spans) == maxExplained {
			break
		}
		idx := freeIndex(name, m.Fragment, taken)
		if idx < 0 {
			continue
		}
		for i := idx; i < idx+len(m.Fragment); i++ {
			taken[i] = true
		}
		spans = append(spans, span{start: idx, end: idx + len(m.Fragment), entry: m})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	root := e.dictRoot(c)
	if root != "" {
		idx := strings.Index(name, root)
		for i := idx; i < idx+len(root); i++ {
			taken[i] = true
		}
	}

	covered := 0
	for _, t := range taken {
		if t {
			covered++
		}
	}
	coverage := 0.0
	if len(name) > 0 {
		coverage = float64(covered) / float64(len(name))
	}

	ex := Explanation{DictRoot: root, Coverage: coverage}
	for _, s := range spans {
		ex.Fragments = append(ex.Fragments, s.entry)
	}
	ex.Phrase = phrase(name, ex.Fragments, root)
	ex.Score = Score(coverage, root != "", Pronounceability(name), len(ex.Fragments))
	return ex
}

// Score combines fragment coverage, a dictionary root bonus, pronounceability
// and the number of explaining fragments into 0-100.
func Score(coverage float64, dictRoot bool, pronounceability, fragments int) int {
	s := coverage * 45
	if dictRoot {
		s += 15
	}
	s += float64(pronounceability) * 0.2
	switch {
	case fragments >= 2:
		s += 20
	case fragments == 1:
		s += 10
	}
	return min(max(int(math.Round(s)), 0), 100)
}

// fragmentPool returns the selected morphemes plus any morpheme that starts one
// of the candidate's source roots, longest fragment first.
func (e *Engine) fragmentPool(c domain.Candidate) []domain.MorphemeEntry {
	pool := slices.Clone(e.selected)
	seen := make(map[string]bool, len(pool))
	for _, m := range pool {
		seen[m.Fragment] = true
	}
	for _, root := range c.Roots {
		for n := len(root); n >= minRootLength; n-- {
			m, ok := e.lex.Morpheme(root[:n])
			if ok && !seen[m.Fragment] {
				seen[m.Fragment] = true
				pool = append(pool, m)
				break
			}
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if len(pool[i].Fragment) != len(pool[j].Fragment) {
			return len(pool[i].Fragment) > len(pool[j].Fragment)
		}
		return pool[i].Fragment < pool[j].Fragment
	})
	return pool
}

// dictRoot returns the longest keyword or source root found whole in the name.
func (e *Engine) dictRoot(c domain.Candidate) string {
	best := ""
	for _, w := range append(slices.Clone(e.ctx.Keywords), c.Roots...) {
		if len(w) >= minRootLength && len(w) > len(best) && strings.Contains(c.Name, w) {
			best = w
		}
	}
	return best
}

func freeIndex(name, fragment string, taken []bool) int {
	for start := 0; start+len(fragment) <= len(name); {
		idx := strings.Index(name[start:], fragment)
		if idx < 0 {
			return -1
		}
		idx += start
		free := true
		for i := idx; i < idx+len(fragment); i++ {
			if taken[i] {
				free = false
				break
			}
		}
		if free {
			return idx
		}
		start = idx + 1
	}
	return -1
}

func phrase(name string, fragments []domain.MorphemeEntry, root string) string {
	if len(fragments) == 0 {
		if root != "" {
			return fmt.Sprintf("%s: built on the word %q", name, root)
		}
		return fmt.Sprintf("%s: invented name with no recognizable fragments", name)
	}
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = fmt.Sprintf("%s (%s)", f.Fragment, f.Meaning)
	}
	return fmt.Sprintf("%s: %s", name, strings.Join(parts, " + "))
}

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}
