package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/uberswe/LoopiaBrandFinder/internal/scoring"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

const maxToShow = 100

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// displayPicks prints a ranked table with the main score factors
func displayPicks(w io.Writer, picks []domain.ScoredCandidate) {
	if len(picks) == 0 {
		fmt.Fprintln(w, "\nNo names to show.")
		return
	}

	fmt.Fprintln(w, "\nTop brandable names:")
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "%-4s %-24s %-7s %-6s %-7s %-7s %-7s %-7s %s\n",
		"Rank", "Domain", "Score", "Band", "Brand", "Pron", "Meaning", "Length", "Strategy")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for i, p := range picks[:min(len(picks), maxToShow)] {
		name := p.Domain
		if name == "" {
			name = p.Name
		}
		fmt.Fprintf(w, "%-4d %-24s %-7.2f %-6s %-7s %-7d %-7d %-7s %s\n",
			i+1,
			name,
			p.Score,
			p.QualityBand,
			fmt.Sprintf("%d/10", p.BrandableScore),
			p.PronounceabilityScore,
			p.MeaningScore,
			formatFactor(p.ScoreBreakdown[scoring.FactorLength]),
			p.Strategy)
	}

	fmt.Fprintln(w)
	for _, p := range picks[:min(len(picks), maxToShow)] {
		if p.MeaningBreakdown != "" {
			fmt.Fprintf(w, "  %s\n", p.MeaningBreakdown)
		}
	}
}

func formatFactor(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.1f", v)
}

func displaySummary(w io.Writer, s domain.Summary) {
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintln(w, "========")
	fmt.Fprintln(w, s.Explanation)
	fmt.Fprintf(w, "Generated %d, filtered %d, checked %d, available %d, provider errors %d, hit rate %.1f%%\n",
		s.Generated, s.Filtered, s.Checked, s.Available, s.ProviderErrors, s.HitRate*100)

	floor := fmt.Sprintf("%.2f", s.QualityFloor)
	if s.FloorBypassed {
		floor += " (bypassed)"
	}
	fmt.Fprintf(w, "Quality floor %s, stopped: %s, took %s\n", floor, s.StopReason, s.Elapsed.Round(time.Millisecond))

	if len(s.AppliedLabels) > 0 {
		fmt.Fprintf(w, "Relaxations: %s\n", strings.Join(s.AppliedLabels, ", "))
	}
	if len(s.TopRejections) > 0 {
		parts := make([]string, len(s.TopRejections))
		for i, r := range s.TopRejections {
			parts[i] = fmt.Sprintf("%s %d", r.Reason, r.Count)
		}
		fmt.Fprintf(w, "Rejected: %s\n", strings.Join(parts, ", "))
	}
	for _, nm := range s.NearMisses {
		fmt.Fprintf(w, "Near miss: %s is free as .%s\n", nm.Name, strings.Join(nm.AvailableTLDs, ", ."))
	}
	if len(s.Suggestions) > 0 {
		fmt.Fprintf(w, "Try: %s\n", strings.Join(s.Suggestions, ", "))
	}
}
