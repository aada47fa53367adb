package search

import (
	"math"
	"sort"

	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

// Stage ids
const (
	StageBaseline         = "baseline"
	StagePositionAnywhere = "position_anywhere"
	StageLengthPlusOne    = "length_plus_1"
	StageLengthPlusTwo    = "length_plus_2"
	StageTwoWord          = "two_word"
	StageSuffixMode       = "suffix_mode"
	StageGenericAffixes   = "generic_affixes"
	StagePartialKeywords  = "partial_keywords"
)

// knobs is the accumulator the stages fold over
type knobs struct {
	keywordPosition domain.KeywordPosition
	keywordMode     domain.KeywordMode
	maxLength       int
	preferTwoWord   bool
	suffixTolerant  bool
	genericAffixes  bool
}

// stage is one rung of the ladder; apply returns whether it loosened anything.
type stage struct {
	id    string
	label string
	apply func(*knobs) bool
}

var ladder = []stage{
	{StageBaseline, "strict baseline", func(*knobs) bool { return true }},
	{StagePositionAnywhere, "keyword position relaxed to anywhere", func(k *knobs) bool {
		if k.keywordPosition == domain.PositionAnywhere {
			return false
		}
		k.keywordPosition = domain.PositionAnywhere
		return true
	}},
	{StageLengthPlusOne, "max length +1", growLength},
	{StageLengthPlusTwo, "max length +2", growLength},
	{StageTwoWord, "two-word brand mode", func(k *knobs) bool {
		return enable(&k.preferTwoWord)
	}},
	{StageSuffixMode, "tasteful suffix mode", func(k *knobs) bool {
		return enable(&k.suffixTolerant)
	}},
	{StageGenericAffixes, "generic affix fallback", func(k *knobs) bool {
		return enable(&k.genericAffixes)
	}},
	{StagePartialKeywords, "keyword match relaxed to partial", func(k *knobs) bool {
		if k.keywordMode != domain.KeywordExact {
			return false
		}
		k.keywordMode = domain.KeywordPartial
		return true
	}},
}

func growLength(k *knobs) bool {
	if k.maxLength >= domain.MaxNameLength {
		return false
	}
	k.maxLength++
	return true
}

func enable(flag *bool) bool {
	if *flag {
		return false
	}
	*flag = true
	return true
}

// qualityFloor returns the floor for stage k. ranked must be sorted by score
// descending. The floor never rises above prev.
func qualityFloor(ranked []domain.ScoredCandidate, k int, prev float64, o Options) float64 {
	if len(ranked) == 0 {
		if math.IsInf(prev, 1) {
			return o.AbsoluteFloor
		}
		return prev
	}
	scores := make([]float64, len(ranked))
	for i, c := range ranked {
		scores[i] = c.Score
	}
	sort.Float64s(scores)
	p := scores[int(math.Floor(o.FloorPercentile*float64(len(scores)-1)))]

	margin := math.Max(0, o.FloorMargin-float64(k)*o.FloorMarginStep)
	return math.Max(o.AbsoluteFloor, math.Min(prev, p-margin))
}
