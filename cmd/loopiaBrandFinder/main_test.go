package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uberswe/LoopiaBrandFinder/internal/scoring"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

func TestRequestFromFlags(t *testing.T) {
	f := requestFlags{keywords: "eco", industry: "sustainability", count: 3, showAny: true, block: []string{"xx"}}
	req, err := f.request([]string{"green", "leaf"})
	require.NoError(t, err)

	assert.Equal(t, "eco green leaf", req.Keywords)
	assert.Equal(t, domain.IndustrySustainability, req.Industry)
	assert.Equal(t, 3, req.Count)
	assert.True(t, req.Controls.ShowAnyAvailable)
	assert.Equal(t, []string{"xx"}, req.Controls.BlockList)

	_, err = (&requestFlags{}).request(nil)
	assert.Error(t, err)
}

func TestDisplayPicks(t *testing.T) {
	var buf bytes.Buffer
	displayPicks(&buf, []domain.ScoredCandidate{{
		Candidate:        domain.Candidate{Name: "ecoleaf", Strategy: domain.StrategyPortmanteau},
		Domain:           "ecoleaf.com",
		Score:            27.3,
		QualityBand:      domain.BandHigh,
		BrandableScore:   9,
		MeaningBreakdown: "ecoleaf: eco (ecology) + leaf (foliage)",
		ScoreBreakdown:   map[string]float64{scoring.FactorLength: 2.8},
	}})

	out := buf.String()
	assert.Contains(t, out, "ecoleaf.com")
	assert.Contains(t, out, "27.30")
	assert.Contains(t, out, "9/10")
	assert.Contains(t, out, "+2.8")
	assert.Contains(t, out, "eco (ecology)")

	buf.Reset()
	displayPicks(&buf, nil)
	assert.Contains(t, buf.String(), "No names to show")
}

func TestDisplaySummary(t *testing.T) {
	var buf bytes.Buffer
	displaySummary(&buf, domain.Summary{
		Explanation:   "Found 2 of 6 requested names.",
		Checked:       40,
		HitRate:       0.05,
		QualityFloor:  12.5,
		FloorBypassed: true,
		StopReason:    "lookup_budget",
		Elapsed:       1500 * time.Millisecond,
		AppliedLabels: []string{"strict baseline", "max length +1"},
		TopRejections: []domain.RejectionCount{{Reason: "ugly_pattern", Count: 7}},
		NearMisses:    []domain.NearMissOption{{Name: "ecoleaf", AvailableTLDs: []string{"io", "co"}}},
		Suggestions:   []string{"two_word_mode", "retry"},
	})

	out := buf.String()
	assert.Contains(t, out, "Found 2 of 6")
	assert.Contains(t, out, "hit rate 5.0%")
	assert.Contains(t, out, "12.50 (bypassed)")
	assert.Contains(t, out, "took 1.5s")
	assert.Contains(t, out, "strict baseline, max length +1")
	assert.Contains(t, out, "ugly_pattern 7")
	assert.Contains(t, out, "ecoleaf is free as .io, .co")
	assert.Contains(t, out, "Try: two_word_mode, retry")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, domain.RunResult{Summary: domain.Summary{Target: 2}}))

	var back domain.RunResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 2, back.Summary.Target)
}
