package generator

import (
	"strings"

	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

// ReadableJoin glues two fragments so the seam stays pronounceable: a letter
// repeated across the boundary is dropped once, and two consonants meeting at
// the boundary get the link vowel between them.
func ReadableJoin(a, b string, link byte) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a[len(a)-1] == b[0] {
		b = b[1:]
		if b == "" {
			return a
		}
	}
	if link != 0 && util.IsConsonantAt(a, len(a)-1) && util.IsConsonantAt(b, 0) {
		return a + string(link) + b
	}
	return a + b
}

// Compact shortens name until it fits maxLen. In order it tries: stripping a
// trailing filler word, collapsing a tripled letter, and removing an interior
// vowel from a consonant-vowel-consonant cluster. Vowels inside a protected
// substring are left alone. If nothing else works the name is truncated.
func Compact(name string, minLen, maxLen int, fillers, protect []string) string {
	for guard := 0; len(name) > maxLen && guard < 32; guard++ {
		if s, ok := stripFiller(name, minLen, fillers); ok {
			name = s
			continue
		}
		if s, ok := collapseTriple(name); ok {
			name = s
			continue
		}
		if s, ok := dropInteriorVowel(name, protect); ok {
			name = s
			continue
		}
		break
	}
	if len(name) > maxLen {
		name = strings.TrimRight(name[:maxLen], "-")
	}
	return name
}

func stripFiller(name string, minLen int, fillers []string) (string, bool) {
	for _, f := range fillers {
		if f == "" || !strings.HasSuffix(name, f) {
			continue
		}
		rest := strings.TrimRight(strings.TrimSuffix(name, f), "-")
		if len(rest) >= minLen {
			return rest, true
		}
	}
	return name, false
}

func collapseTriple(name string) (string, bool) {
	for i := 2; i < len(name); i++ {
		if name[i] == name[i-1] && name[i] == name[i-2] {
			return name[:i] + name[i+1:], true
		}
	}
	return name, false
}

// dropInteriorVowel removes the right-most removable vowel, which keeps the
// start of the name (usually the strongest fragment) intact.
func dropInteriorVowel(name string, protect []string) (string, bool) {
	guarded := protectedMask(name, protect)
	for i := len(name) - 2; i >= 1; i-- {
		if guarded[i] {
			continue
		}
		if util.IsConsonantAt(name, i-1) && util.IsVowelAt(name, i) && util.IsConsonantAt(name, i+1) {
			return name[:i] + name[i+1:], true
		}
	}
	return name, false
}

func protectedMask(name string, protect []string) []bool {
	mask := make([]bool, len(name))
	for _, p := range protect {
		if p == "" {
			continue
		}
		for start := 0; start < len(name); {
			idx := strings.Index(name[start:], p)
			if idx < 0 {
				break
			}
			for j := start + idx; j < start+idx+len(p); j++ {
				mask[j] = true
			}
			start += idx + 1
		}
	}
	return mask
}
