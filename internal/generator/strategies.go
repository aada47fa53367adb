package generator

import (
	"slices"
	"strings"

	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

type weightedStrategy struct {
	strategy domain.Strategy
	weight   float64
}

// builder holds the fragment pools of one generation pass.
type builder struct {
	rng *Rand

	keywords     []string
	industry     []string
	hints        []string
	vibeMods     []string
	vibeNouns    []string
	vibeSuffixes []string
	emotive      []string
	verbs        []string
	prefixes     []string
	suffixes     []string
	realSuffixes []string
	digits       []string
	fillers      []string
	vowels       string

	allowHyphen bool
	allowDigits bool
}

func (g *Generator) newBuilder(p Params, rng *Rand) *builder {
	ind := g.lex.Industry(p.Industry)
	vibe := g.lex.Vibe(p.Vibe)
	gen := g.lex.Generic()

	b := &builder{
		rng:          rng,
		keywords:     p.Keywords,
		industry:     ind.Roots,
		hints:        append(ind.Hints, vibe.Hints...),
		vibeMods:     vibe.Modifiers,
		vibeNouns:    vibe.Nouns,
		vibeSuffixes: vibe.Suffixes,
		emotive:      gen.Emotive,
		verbs:        gen.Verbs,
		prefixes:     gen.SoftPrefixes,
		suffixes:     vibe.Suffixes,
		realSuffixes: gen.RealWordSuffixes,
		digits:       gen.DigitSuffixes,
		fillers:      gen.Fillers,
		vowels:       vibe.Vowels,
		allowHyphen:  p.AllowHyphen,
		allowDigits:  p.AllowDigits,
	}
	if b.vowels == "" {
		b.vowels = strings.Join(gen.Connectors, "")
	}
	if b.vowels == "" {
		b.vowels = "aeio"
	}
	if len(b.vibeMods) == 0 {
		b.vibeMods = gen.Emotive
	}
	if len(b.vibeNouns) == 0 {
		b.vibeNouns = g.lex.Industry(domain.IndustryGeneral).Roots
	}
	if len(b.suffixes) == 0 {
		b.suffixes = slices.Clip(gen.TastefulSuffixes[:min(3, len(gen.TastefulSuffixes))])
	}
	if p.SuffixTolerant {
		b.suffixes = append(b.suffixes, gen.TastefulSuffixes...)
	}
	if p.GenericAffixes {
		b.prefixes = append(b.prefixes, gen.Prefixes...)
		b.suffixes = append(b.suffixes, gen.Suffixes...)
	}
	if len(b.vibeSuffixes) == 0 {
		b.vibeSuffixes = b.suffixes
	}
	return b
}

// strategyWeights returns the draw weights in a fixed order so the weighted
// pick stays deterministic.
func strategyWeights(p Params, b *builder) []weightedStrategy {
	w := []weightedStrategy{
		{domain.StrategyTwoWord, 10},
		{domain.StrategySemanticCompound, 8},
		{domain.StrategyWordplayBlend, 7},
		{domain.StrategyEmotiveRoot, 6},
		{domain.StrategyActionNoun, 6},
		{domain.StrategyRootSuffix, 8},
		{domain.StrategyPrefixRoot, 5},
		{domain.StrategyVibeNounRoot, 6},
		{domain.StrategyPortmanteau, 8},
		{domain.StrategyVowelBlend, 7},
		{domain.StrategyRealWordTwist, 5},
		{domain.StrategyVowelSwap, 5},
		{domain.StrategyLetterOmission, 4},
		{domain.StrategyMoodPairing, 5},
	}
	for i := range w {
		switch w[i].strategy {
		case domain.StrategyTwoWord:
			if p.PreferTwoWord {
				w[i].weight *= 3
			}
		case domain.StrategySemanticCompound, domain.StrategyMoodPairing:
			if p.PreferTwoWord {
				w[i].weight *= 1.5
			}
		case domain.StrategyRootSuffix:
			if p.SuffixTolerant {
				w[i].weight *= 1.5
			}
		case domain.StrategyPrefixRoot:
			if p.GenericAffixes {
				w[i].weight *= 1.5
			}
		}
		switch {
		case p.Style == domain.StyleRealWords && isWordStrategy(w[i].strategy):
			w[i].weight *= 1.5
		case p.Style == domain.StyleBrandableBlends && !isWordStrategy(w[i].strategy):
			w[i].weight *= 1.5
		}
		if w[i].strategy == domain.StrategySemanticCompound && len(b.hints) == 0 {
			w[i].weight = 0
		}
	}
	return w
}

// isWordStrategy reports whether a strategy keeps its fragments as whole words.
func isWordStrategy(s domain.Strategy) bool {
	switch s {
	case domain.StrategyTwoWord, domain.StrategySemanticCompound, domain.StrategyEmotiveRoot,
		domain.StrategyActionNoun, domain.StrategyMoodPairing, domain.StrategyVibeNounRoot,
		domain.StrategyRealWordTwist:
		return true
	}
	return false
}

func pickStrategy(rng *Rand, weights []weightedStrategy) domain.Strategy {
	total := 0.0
	for _, w := range weights {
		total += w.weight
	}
	target := rng.Float64() * total
	for _, w := range weights {
		if target < w.weight {
			return w.strategy
		}
		target -= w.weight
	}
	return weights[len(weights)-1].strategy
}

// primary picks the root the name is built around, favouring the caller's keywords.
func (b *builder) primary() string {
	if len(b.keywords) > 0 && b.rng.Chance(0.7) {
		return b.rng.Pick(b.keywords)
	}
	return b.rng.Pick(b.industry)
}

// secondary picks a companion fragment different from first.
func (b *builder) secondary(first string) string {
	for i := 0; i < 4; i++ {
		var s string
		if b.rng.Chance(0.65) {
			s = b.rng.Pick(b.industry)
		} else {
			s = b.rng.Pick(b.vibeNouns)
		}
		if s != first && s != "" {
			return s
		}
	}
	return ""
}

func (b *builder) link() byte {
	return b.vowels[b.rng.Intn(len(b.vowels))]
}

func (b *builder) join(a, c string) string {
	return ReadableJoin(a, c, b.link())
}

// build composes one raw name. The result may still be too long; the caller compacts it.
func (b *builder) build(s domain.Strategy) (string, []string) {
	switch s {
	case domain.StrategyTwoWord:
		a := b.primary()
		c := b.secondary(a)
		if c == "" {
			return "", nil
		}
		if b.rng.Chance(0.4) {
			a, c = c, a
		}
		if b.allowHyphen && b.rng.Chance(0.2) {
			return a + "-" + c, []string{a, c}
		}
		return b.join(a, c), []string{a, c}

	case domain.StrategySemanticCompound:
		a := b.primary()
		frag := b.rng.Pick(b.hints)
		if strings.Contains(a, frag) {
			return "", nil
		}
		if b.rng.Chance(0.5) {
			return b.join(frag, a), []string{frag, a}
		}
		return b.join(a, frag), []string{a, frag}

	case domain.StrategyWordplayBlend:
		a := b.primary()
		c := b.secondary(a)
		if c == "" {
			return "", nil
		}
		if len(a) < 2 {
			return "", nil
		}
		head := a[:min(len(a), max(2, (len(a)*2+2)/3))]
		tail := c[len(c)/3:]
		return b.join(head, tail), []string{a, c}

	case domain.StrategyEmotiveRoot:
		mod, root := b.rng.Pick(b.emotive), b.primary()
		return b.join(mod, root), []string{mod, root}

	case domain.StrategyActionNoun:
		verb, root := b.rng.Pick(b.verbs), b.primary()
		return b.join(verb, root), []string{verb, root}

	case domain.StrategyRootSuffix:
		root := b.primary()
		if b.allowDigits && b.rng.Chance(0.15) {
			d := b.rng.Pick(b.digits)
			return root + d, []string{root, d}
		}
		suffix := b.rng.Pick(b.suffixes)
		return b.join(root, suffix), []string{root, suffix}

	case domain.StrategyPrefixRoot:
		prefix, root := b.rng.Pick(b.prefixes), b.primary()
		return b.join(prefix, root), []string{prefix, root}

	case domain.StrategyVibeNounRoot:
		noun, root := b.rng.Pick(b.vibeNouns), b.primary()
		if noun == root {
			return "", nil
		}
		if b.rng.Chance(0.5) {
			return b.join(noun, root), []string{noun, root}
		}
		return b.join(root, noun), []string{root, noun}

	case domain.StrategyPortmanteau:
		a := b.primary()
		c := b.secondary(a)
		if c == "" {
			return "", nil
		}
		head := a[:firstSyllableEnd(a)]
		tail := c[firstVowel(c):]
		return b.join(head, tail), []string{a, c}

	case domain.StrategyVowelBlend:
		a := b.primary()
		c := b.secondary(a)
		if c == "" {
			return "", nil
		}
		stem := strings.TrimRight(a, "aeiouy")
		if len(stem) < 2 {
			stem = a
		}
		rest := strings.TrimLeft(c, "aeiou")
		if rest == "" {
			rest = c
		}
		return stem + string(b.link()) + rest, []string{a, c}

	case domain.StrategyRealWordTwist:
		root := b.primary()
		suffix := b.rng.Pick(b.realSuffixes)
		if strings.HasSuffix(root, "e") && suffix != "" && strings.ContainsRune("aeiou", rune(suffix[0])) {
			root = strings.TrimSuffix(root, "e")
		}
		return b.join(root, suffix), []string{root, suffix}

	case domain.StrategyVowelSwap:
		root := b.primary()
		swapped := b.swapVowel(root)
		if swapped == root {
			return "", nil
		}
		if b.rng.Chance(0.6) {
			suffix := b.rng.Pick(b.vibeSuffixes)
			return b.join(swapped, suffix), []string{root, suffix}
		}
		return swapped, []string{root}

	case domain.StrategyLetterOmission:
		a := b.primary()
		c := b.secondary(a)
		if c == "" {
			return "", nil
		}
		joined := b.join(a, c)
		positions := omittablePositions(joined)
		if len(positions) == 0 {
			return joined, []string{a, c}
		}
		i := positions[b.rng.Intn(len(positions))]
		return joined[:i] + joined[i+1:], []string{a, c}

	case domain.StrategyMoodPairing:
		mod, root := b.rng.Pick(b.vibeMods), b.rng.Pick(b.industry)
		return b.join(mod, root), []string{mod, root}
	}
	return "", nil
}

func (b *builder) swapVowel(word string) string {
	var positions []int
	for i := 0; i < len(word); i++ {
		if strings.ContainsRune("aeiou", rune(word[i])) {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return word
	}
	i := positions[b.rng.Intn(len(positions))]
	for tries := 0; tries < 4; tries++ {
		v := b.link()
		if v != word[i] {
			return word[:i] + string(v) + word[i+1:]
		}
	}
	return word
}

// firstSyllableEnd returns the index just past the first vowel group and one
// trailing consonant, never less than 2.
func firstSyllableEnd(word string) int {
	i := 0
	for i < len(word) && !util.IsVowelAt(word, i) {
		i++
	}
	for i < len(word) && util.IsVowelAt(word, i) {
		i++
	}
	if i < len(word) {
		i++
	}
	return min(max(i, 2), len(word))
}

func firstVowel(word string) int {
	for i := 0; i < len(word); i++ {
		if util.IsVowelAt(word, i) {
			return i
		}
	}
	return 0
}

// omittablePositions lists interior vowels sitting between two consonants.
func omittablePositions(name string) []int {
	var out []int
	for i := 1; i < len(name)-1; i++ {
		if util.IsConsonantAt(name, i-1) && util.IsVowelAt(name, i) && util.IsConsonantAt(name, i+1) {
			out = append(out, i)
		}
	}
	return out
}
