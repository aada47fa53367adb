package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

func TestDefaultLexiconLoads(t *testing.T) {
	lex := Default()
	require.NotNil(t, lex)

	for _, ind := range domain.Industries {
		entry := lex.Industry(ind)
		assert.NotEmpty(t, entry.Roots, "industry %s has no roots", ind)
	}
	for _, vibe := range []domain.Vibe{domain.VibeLuxury, domain.VibeFuturistic, domain.VibePlayful, domain.VibeTrustworthy, domain.VibeMinimal} {
		entry := lex.Vibe(vibe)
		assert.NotEmpty(t, entry.Modifiers, "vibe %s", vibe)
		assert.NotEmpty(t, entry.Nouns, "vibe %s", vibe)
		assert.NotEmpty(t, entry.Vowels, "vibe %s", vibe)
	}
	assert.NotEmpty(t, lex.Generic().Connectors)
	assert.NotEmpty(t, lex.Patterns().Reject)
}

func TestRootsAreLowercaseLetters(t *testing.T) {
	lex := Default()
	for _, ind := range domain.Industries {
		for _, r := range lex.Industry(ind).Roots {
			assert.True(t, util.IsLetterOnly(r), "root %q", r)
		}
	}
	for _, m := range lex.Morphemes() {
		assert.True(t, util.IsLetterOnly(m.Fragment), "fragment %q", m.Fragment)
		assert.Positive(t, m.Weight)
	}
}

func TestUnknownIndustryFallsBackToGeneral(t *testing.T) {
	lex := Default()
	assert.Equal(t, lex.Industry(domain.IndustryGeneral), lex.Industry("aerospace"))
}

func TestAccessorsReturnCopies(t *testing.T) {
	lex := Default()
	roots := lex.Industry(domain.IndustrySustainability).Roots
	roots[0] = "mutated"
	assert.NotEqual(t, "mutated", lex.Industry(domain.IndustrySustainability).Roots[0])
}

func TestMorphemeLookup(t *testing.T) {
	lex := Default()
	m, ok := lex.Morpheme("eco")
	require.True(t, ok)
	assert.Equal(t, "ecology", m.Meaning)
	assert.Equal(t, domain.CategoryNature, m.Category)

	_, ok = lex.Morpheme("zzz")
	assert.False(t, ok)
}

func TestOtherIndustryRoots(t *testing.T) {
	lex := Default()
	others := lex.OtherIndustryRoots(domain.IndustrySustainability)
	assert.Contains(t, others, "pixel")
	assert.NotContains(t, others, "green")
}

func TestLoadRejectsDuplicateFragments(t *testing.T) {
	lexData := []byte("industries:\n  general:\n    roots: [nova]\n")
	morphemes := []byte("- {fragment: eco, meaning: a}\n- {fragment: eco, meaning: b}\n")
	_, err := Load(lexData, morphemes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadRequiresGeneralIndustry(t *testing.T) {
	_, err := Load([]byte("industries:\n  food:\n    roots: [bite]\n"), []byte("[]"))
	require.Error(t, err)
}
