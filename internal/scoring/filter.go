package scoring

import (
	"strings"

	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

// Rejection reasons recorded by the hard filters
const (
	ReasonLength  = "length"
	ReasonCharset = "charset"
	ReasonBlocked = "blocked"
	ReasonUgly    = "ugly_pattern"
	ReasonKeyword = "keyword_mismatch"
)

const maxConsonantRun = 5

// FilterOptions configures the hard filters
type FilterOptions struct {
	MinLength   int
	MaxLength   int
	AllowHyphen bool
	AllowDigits bool
	BlockList   []string
	AllowList   []string // substrings exempt from the ugly pattern rejection
	Keywords    []string
	KeywordMode domain.KeywordMode
	Synonyms    map[string][]string
}

// Filter applies the hard, non-scoring rejections
type Filter struct {
	opts   FilterOptions
	reject []string
}

// NewFilter builds a filter using the lexicon's reject patterns.
func NewFilter(lex *lexicon.Lexicon, opts FilterOptions) *Filter {
	return &Filter{opts: opts, reject: lex.Patterns().Reject}
}

// Check returns the rejection reason for name, or "" when it passes.
func (f *Filter) Check(name string) string {
	if len(name) < f.opts.MinLength || (f.opts.MaxLength > 0 && len(name) > f.opts.MaxLength) {
		return ReasonLength
	}
	if !util.IsValidLabel(name, f.opts.AllowHyphen, f.opts.AllowDigits) {
		return ReasonCharset
	}
	for _, b := range f.opts.BlockList {
		if b != "" && strings.Contains(name, b) {
			return ReasonBlocked
		}
	}
	if !allowListed(name, f.opts.AllowList) && f.ugly(name) {
		return ReasonUgly
	}
	if !KeywordGate(name, f.opts.Keywords, f.opts.KeywordMode, f.opts.Synonyms) {
		return ReasonKeyword
	}
	return ""
}

func (f *Filter) ugly(name string) bool {
	if util.HasTripledLetter(name) || util.LongestConsonantRun(name) >= maxConsonantRun {
		return true
	}
	for _, p := range f.reject {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// Apply keeps the candidates that pass and adds one count per rejection reason.
func (f *Filter) Apply(cands []domain.Candidate, rejections map[string]int) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		if reason := f.Check(c.Name); reason != "" {
			if rejections != nil {
				rejections[reason]++
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// KeywordGate reports whether name satisfies the keyword mode. Exact needs a
// keyword verbatim; partial also accepts a keyword's stem or a configured synonym.
func KeywordGate(name string, keywords []string, mode domain.KeywordMode, synonyms map[string][]string) bool {
	if mode == domain.KeywordNone || len(keywords) == 0 {
		return true
	}
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(name, k) {
			return true
		}
		if mode != domain.KeywordPartial {
			continue
		}
		if strings.Contains(name, Stem(k)) {
			return true
		}
		for _, syn := range synonyms[k] {
			if syn != "" && strings.Contains(name, syn) {
				return true
			}
		}
	}
	return false
}

// Stem trims a keyword to its leading part: two letters off words of five or
// more, one off four-letter words, nothing off shorter ones.
func Stem(keyword string) string {
	switch n := len(keyword); {
	case n >= 5:
		return keyword[:n-2]
	case n == 4:
		return keyword[:n-1]
	default:
		return keyword
	}
}
