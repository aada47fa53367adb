package util

import (
	"sort"
	"strings"
)

// IsLetter checks if a character is a lowercase ASCII letter
func IsLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

// IsDigit checks if a character is a digit
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsVowelAt reports whether name[i] acts as a vowel. A 'y' counts as a vowel
// unless it starts the name or follows another vowel.
func IsVowelAt(name string, i int) bool {
	switch name[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	case 'y':
		return i > 0 && !strings.ContainsRune("aeiou", rune(name[i-1]))
	}
	return false
}

// IsConsonantAt reports whether name[i] is a letter that is not acting as a vowel
func IsConsonantAt(name string, i int) bool {
	return IsLetter(name[i]) && !IsVowelAt(name, i)
}

// IsLetterOnly checks if a name contains only lowercase letters
func IsLetterOnly(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !IsLetter(name[i]) {
			return false
		}
	}
	return true
}

// IsValidLabel checks a name against the allowed character classes. Letters are
// always allowed; hyphens and digits only when widened. A hyphen may not lead,
// trail or repeat.
func IsValidLabel(name string, allowHyphen, allowDigits bool) bool {
	if name == "" || !IsLetter(name[0]) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case IsLetter(c):
		case IsDigit(c) && allowDigits:
		case c == '-' && allowHyphen:
			if i == len(name)-1 || name[i-1] == '-' {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// VowelRatio returns the share of characters acting as vowels
func VowelRatio(name string) float64 {
	if name == "" {
		return 0
	}
	vowels := 0
	for i := 0; i < len(name); i++ {
		if IsVowelAt(name, i) {
			vowels++
		}
	}
	return float64(vowels) / float64(len(name))
}

// LongestConsonantRun returns the length of the longest run of consonants
func LongestConsonantRun(name string) int {
	longest, run := 0, 0
	for i := 0; i < len(name); i++ {
		if IsConsonantAt(name, i) {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}

// HasTripledLetter reports whether any letter repeats three times in a row
func HasTripledLetter(name string) bool {
	for i := 2; i < len(name); i++ {
		if name[i] == name[i-1] && name[i] == name[i-2] {
			return true
		}
	}
	return false
}

// CountVowelGroups counts runs of vowels, a cheap syllable estimate
func CountVowelGroups(name string) int {
	groups := 0
	inGroup := false
	for i := 0; i < len(name); i++ {
		if IsVowelAt(name, i) {
			if !inGroup {
				groups++
			}
			inGroup = true
		} else {
			inGroup = false
		}
	}
	return groups
}

// SplitDomain separates a fully-qualified domain into name and TLD
func SplitDomain(domainName string) (name, tld string) {
	if idx := strings.LastIndex(domainName, "."); idx != -1 {
		return domainName[:idx], domainName[idx+1:]
	}
	return domainName, ""
}

// JoinDomain builds a fully-qualified domain from a name and a TLD
func JoinDomain(name, tld string) string {
	return name + "." + strings.TrimPrefix(tld, ".")
}

// CalculateTLDScore returns a score between 0 and 1 based on TLD preference
func CalculateTLDScore(tld string) float64 {
	switch strings.ToLower(strings.TrimPrefix(tld, ".")) {
	case "com":
		return 1.0
	case "net", "org":
		return 0.9
	case "io", "co", "app", "dev":
		return 0.85
	case "se", "nu":
		return 0.8
	default:
		return 0.5
	}
}

// RankTLDs orders extensions by preference, best first. Ties keep input order.
func RankTLDs(tlds []string) []string {
	out := make([]string, 0, len(tlds))
	seen := make(map[string]bool, len(tlds))
	for _, tld := range tlds {
		tld = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tld), "."))
		if tld == "" || seen[tld] {
			continue
		}
		seen[tld] = true
		out = append(out, tld)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return CalculateTLDScore(out[i]) > CalculateTLDScore(out[j])
	})
	return out
}
