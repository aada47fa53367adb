package meaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

func ecoEngine() *Engine {
	return NewEngine(lexicon.Default(), Context{
		Keywords: []string{"eco", "green"},
		Industry: domain.IndustrySustainability,
		Vibe:     domain.VibeMinimal,
	}, DefaultTopN)
}

func TestSelectedRanksExactKeywordFirst(t *testing.T) {
	selected := ecoEngine().Selected()
	require.NotEmpty(t, selected)
	assert.LessOrEqual(t, len(selected), DefaultTopN)
	assert.Equal(t, "eco", selected[0].Fragment)

	fragments := make([]string, len(selected))
	for i, m := range selected {
		fragments[i] = m.Fragment
	}
	assert.Contains(t, fragments, "green")
	assert.Contains(t, fragments, "terr")
}

func TestSelectedHonoursTopN(t *testing.T) {
	e := NewEngine(lexicon.Default(), Context{Keywords: []string{"eco"}, Industry: domain.IndustrySustainability}, 2)
	assert.Len(t, e.Selected(), 2)
}

func TestExplain(t *testing.T) {
	ex := ecoEngine().Explain(domain.Candidate{Name: "ecoleaf", Roots: []string{"eco", "leaf"}})

	require.Len(t, ex.Fragments, 2)
	assert.Equal(t, "eco", ex.Fragments[0].Fragment)
	assert.Equal(t, "leaf", ex.Fragments[1].Fragment)
	assert.Equal(t, "leaf", ex.DictRoot)
	assert.InDelta(t, 1.0, ex.Coverage, 0.001)
	assert.Equal(t, "ecoleaf: eco (ecology) + leaf (foliage)", ex.Phrase)
	assert.Equal(t, 97, ex.Score)
}

func TestExplainInventedName(t *testing.T) {
	ex := ecoEngine().Explain(domain.Candidate{Name: "zyxqt"})

	assert.Empty(t, ex.Fragments)
	assert.Empty(t, ex.DictRoot)
	assert.Zero(t, ex.Coverage)
	assert.Contains(t, ex.Phrase, "invented")
	assert.Less(t, ex.Score, 20)
}

func TestExplainCapsFragments(t *testing.T) {
	e := NewEngine(lexicon.Default(), Context{Keywords: []string{"nova", "core", "eco", "lum"}}, DefaultTopN)
	ex := e.Explain(domain.Candidate{Name: "ecolumnovacore"})
	assert.Len(t, ex.Fragments, 3)
}

func TestPronounceability(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		// ratio 4/7, two syllables or more
		{"ecoleaf", 86},
		// no vowels at all, consonant run, rare cluster
		{"zxqvbt", 58 - 16 - 18 - 8},
		// one syllable, balanced ratio
		{"boat", 58 + 18},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pronounceability(tt.name))
		})
	}
}

func TestPronounceabilityPenalties(t *testing.T) {
	assert.Equal(t, 74, Pronounceability("bolooon"))
	assert.Equal(t, 86, Pronounceability("bolon"))
	assert.Equal(t, 8, PronounceabilityWith("zaqza", nil)-PronounceabilityWith("zaqza", []string{"aq"}))
}

func TestScoreBounds(t *testing.T) {
	assert.Equal(t, 100, Score(1, true, 100, 3))
	assert.Equal(t, 0, Score(0, false, 0, 0))
	assert.Equal(t, 10, Score(0, false, 0, 1))
}

func TestSyllables(t *testing.T) {
	assert.Equal(t, 3, Syllables("lumora"))
	assert.Equal(t, 1, Syllables("bolt"))
}
