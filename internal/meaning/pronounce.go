package meaning

import (
	"strings"
	"sync"

	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

const pronounceBaseline = 58

var defaultRareClusters = sync.OnceValue(func() []string {
	return lexicon.Default().Patterns().RareClusters
})

// Pronounceability rates how easily a name is said aloud, 0-100, using the
// rare-letter clusters of the embedded lexicon.
func Pronounceability(name string) int {
	return PronounceabilityWith(name, defaultRareClusters())
}

// PronounceabilityWith is Pronounceability with an explicit rare cluster list.
//
// Starting from a baseline of 58:
//   - vowel ratio within [0.28, 0.62] adds 18, anything else costs 16
//   - a run of four or more consonants costs 18
//   - a tripled letter costs 12
//   - a rare-letter cluster costs 8
//   - two or three syllables add 10
func PronounceabilityWith(name string, rareClusters []string) int {
	if name == "" {
		return 0
	}
	score := pronounceBaseline

	ratio := util.VowelRatio(name)
	if ratio >= 0.28 && ratio <= 0.62 {
		score += 18
	} else {
		score -= 16
	}
	if util.LongestConsonantRun(name) >= 4 {
		score -= 18
	}
	if util.HasTripledLetter(name) {
		score -= 12
	}
	for _, c := range rareClusters {
		if c != "" && strings.Contains(name, c) {
			score -= 8
			break
		}
	}
	if s := Syllables(name); s >= 2 && s <= 3 {
		score += 10
	}
	return min(max(score, 0), 100)
}

// Syllables estimates the syllable count as the number of vowel groups.
func Syllables(name string) int {
	return util.CountVowelGroups(name)
}
