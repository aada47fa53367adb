package scoring

import (
	"math"
	"strings"

	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

// vibeFit rewards the letter palette of the requested vibe.
func (s *BrandScorer) vibeFit(name string) float64 {
	switch s.ctx.Vibe {
	case domain.VibeLuxury:
		return luxuryFit(name)
	case domain.VibeFuturistic:
		return futuristicFit(name)
	case domain.VibePlayful:
		return playfulFit(name)
	case domain.VibeTrustworthy:
		return s.trustworthyFit(name)
	case domain.VibeMinimal:
		return s.minimalFit(name)
	}
	return 0
}

// luxury: smooth liquids and nasals, soft vowel endings, few hard stops
func luxuryFit(name string) float64 {
	score := 0.0
	if countAny(name, "lrmn") >= 2 {
		score += 2
	}
	if hasAnySuffix(name, "a", "e", "ia", "elle", "ora", "o") {
		score += 2
	}
	score -= math.Min(float64(countAny(name, "kxzq")), 3)
	return score
}

// futuristic: sharp technical letters and machine-like endings
func futuristicFit(name string) float64 {
	score := math.Min(float64(countAny(name, "xzqvk"))*2, 4)
	if hasAnySuffix(name, "x", "on", "ix", "ex", "ium", "tron", "is") {
		score += 2
	}
	return score
}

// playful: plosives, bouncy doubles and cute endings
func playfulFit(name string) float64 {
	score := 0.0
	if countAny(name, "pbkdgt") >= 2 {
		score += 2
	}
	for i := 1; i < len(name); i++ {
		if name[i] == name[i-1] {
			score++
			break
		}
	}
	if hasAnySuffix(name, "y", "o", "ie", "oo") {
		score += 2
	}
	return score
}

// trustworthy: explicit trust roots, no harsh repeats
func (s *BrandScorer) trustworthyFit(name string) float64 {
	score := 0.0
	for _, r := range s.generic.TrustRoots {
		if strings.Contains(name, r) {
			score += 4
			break
		}
	}
	for i := 1; i < len(name); i++ {
		if name[i] == name[i-1] && strings.ContainsRune("zxkq", rune(name[i])) {
			score -= 3
			break
		}
	}
	return score
}

// minimal: brevity, nothing tacked on
func (s *BrandScorer) minimalFit(name string) float64 {
	score := 0.0
	switch {
	case len(name) <= 6:
		score += 3
	case len(name) <= 8:
		score++
	}
	if hasAnySuffix(name, s.generic.ClutterSuffixes...) {
		score -= 3
	}
	return score
}

func countAny(name, letters string) int {
	n := 0
	for i := 0; i < len(name); i++ {
		if strings.IndexByte(letters, name[i]) >= 0 {
			n++
		}
	}
	return n
}

func hasAnySuffix(name string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if suf != "" && strings.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}
