package search

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

// Suggestion tags, in the order they are emitted
const (
	SuggestIncreaseLength      = "increase_length"
	SuggestTwoWordMode         = "two_word_mode"
	SuggestSuffixMode          = "suffix_mode"
	SuggestSwitchExtension     = "switch_extension"
	SuggestDisableQualityFloor = "disable_quality_floor"
	SuggestRetry               = "retry"
)

const topRejections = 5

func (e *Engine) summarize(r *run, nearMisses []domain.NearMissOption) domain.Summary {
	s := domain.Summary{
		RunID:          r.id,
		Target:         r.target,
		Generated:      r.generated,
		Filtered:       r.filtered,
		Checked:        r.checked,
		Available:      r.available,
		ProviderErrors: r.providerErrors,
		HitRate:        math.Round(r.hitRate()*1000) / 1000,
		QualityFloor:   math.Round(r.floor*100) / 100,
		FloorBypassed:  r.floorBypassed,
		Relaxations:    r.steps,
		TopRejections:  rankRejections(r.rejections),
		NearMisses:     nearMisses,
		StopReason:     r.stopReason,
		Elapsed:        e.now().Sub(r.started),
	}
	for _, st := range r.steps {
		if st.Applied {
			s.AppliedLabels = append(s.AppliedLabels, st.Label)
		}
	}
	if !r.done() {
		s.Suggestions = suggestions(r)
	}
	s.Explanation = explain(r, len(nearMisses))
	return s
}

func rankRejections(counts map[string]int) []domain.RejectionCount {
	out := make([]domain.RejectionCount, 0, len(counts))
	for reason, n := range counts {
		out = append(out, domain.RejectionCount{Reason: reason, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out[:min(len(out), topRejections)]
}

// suggestions lists the knobs the caller could still loosen.
func suggestions(r *run) []string {
	applied := make(map[string]bool, len(r.steps))
	for _, st := range r.steps {
		applied[st.ID] = st.Applied
	}
	c := r.req.Controls

	var out []string
	if !applied[StageLengthPlusTwo] && r.req.MaxLength < domain.MaxNameLength {
		out = append(out, SuggestIncreaseLength)
	}
	if !applied[StageTwoWord] && !c.PreferTwoWord {
		out = append(out, SuggestTwoWordMode)
	}
	if !applied[StageSuffixMode] && !c.SuffixTolerant {
		out = append(out, SuggestSuffixMode)
	}
	out = append(out, SuggestSwitchExtension)
	if !c.ShowAnyAvailable {
		out = append(out, SuggestDisableQualityFloor)
	}
	return append(out, SuggestRetry)
}

func explain(r *run, nearMisses int) string {
	tld := "." + r.req.PrimaryTLD
	if r.done() {
		return fmt.Sprintf("Found %d available %s names after checking %d domains.", len(r.picks), tld, r.checked)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d of %d requested names with an available %s domain after checking %d domains (%s).",
		len(r.picks), r.target, tld, r.checked, stopPhrase(r.stopReason))
	b.WriteString(" We refuse to show low-scoring names just to fill the list.")
	if r.providerErrors > 0 {
		fmt.Fprintf(&b, " %d lookups failed and were not counted as available.", r.providerErrors)
	}
	if nearMisses > 0 {
		fmt.Fprintf(&b, " %d strong names are free on another extension.", nearMisses)
	}
	return b.String()
}

func stopPhrase(reason string) string {
	switch reason {
	case StopTimeBudget:
		return "time budget used up"
	case StopLookupBudget:
		return "lookup budget used up"
	default:
		return "all relaxation stages tried"
	}
}
