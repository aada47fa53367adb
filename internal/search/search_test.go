package search

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/uberswe/LoopiaBrandFinder/internal/available"
	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/internal/scoring"
	"github.com/uberswe/LoopiaBrandFinder/pkg/config"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeChecker answers from a callback and records every domain it was asked about.
// A non-nil fail error becomes the lookup's Result.Err.
type fakeChecker struct {
	mu    sync.Mutex
	calls []string
	free  func(domainName string, n int) bool
	fail  func(domainName string) error
}

func (f *fakeChecker) CheckAvailability(ctx context.Context, domains []string, _ available.Options) ([]available.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]available.Result, len(domains))
	for i, d := range domains {
		out[i] = available.Result{Domain: d, Available: f.free(d, len(f.calls)), Attempts: 1}
		if f.fail != nil {
			if err := f.fail(d); err != nil {
				out[i].Available, out[i].Err = false, err
			}
		}
		f.calls = append(f.calls, d)
	}
	return out, nil
}

func (f *fakeChecker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// stallingChecker answers the first batch and blocks every later one until ctx ends.
type stallingChecker struct {
	fakeChecker
	batches atomic.Int32
}

func (s *stallingChecker) CheckAvailability(ctx context.Context, domains []string, opts available.Options) ([]available.Result, error) {
	if s.batches.Add(1) > 1 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.fakeChecker.CheckAvailability(ctx, domains, opts)
}

func allFree(string, int) bool { return true }
func allTaken(string, int) bool { return false }

func testOptions() Options {
	o := DefaultOptions()
	o.TimeBudget = time.Minute
	o.Check.Backoff = time.Millisecond
	return o
}

var ecoRequest = domain.Request{
	Keywords: "eco, green",
	Industry: domain.IndustrySustainability,
	Vibe:     domain.VibeMinimal,
	Count:    5,
}

func assertRanked(t *testing.T, picks []domain.ScoredCandidate) {
	t.Helper()
	for i := 1; i < len(picks); i++ {
		prev, cur := picks[i-1], picks[i]
		assert.True(t, prev.Score > cur.Score || (prev.Score == cur.Score && prev.Name < cur.Name),
			"picks out of order at %d: %s (%.2f) before %s (%.2f)", i, prev.Name, prev.Score, cur.Name, cur.Score)
	}
}

func assertUnique(t *testing.T, calls []string) {
	t.Helper()
	seen := make(map[string]bool, len(calls))
	for _, d := range calls {
		assert.False(t, seen[d], "domain %s looked up twice", d)
		seen[d] = true
	}
}

func TestRunAllAvailableFillsTarget(t *testing.T) {
	svc := available.NewService(available.NewStaticProvider(), available.NewMemoryStore())
	e := NewEngine(lexicon.Default(), svc, testOptions())

	res, err := e.Run(context.Background(), ecoRequest)
	require.NoError(t, err)

	require.Len(t, res.Picks, 5)
	for _, p := range res.Picks {
		assert.True(t, strings.HasSuffix(p.Domain, ".com"), p.Domain)
		assert.Equal(t, p.Name+".com", p.Domain)
		assert.NotEmpty(t, p.MeaningBreakdown)
	}
	assertRanked(t, res.Picks)

	s := res.Summary
	assert.Equal(t, StopTargetReached, s.StopReason)
	assert.Empty(t, s.Suggestions)
	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, 5, s.Target)
	assert.Len(t, s.Relaxations, len(ladder))
	assert.Equal(t, []string{"strict baseline"}, s.AppliedLabels)
	assert.Positive(t, s.Generated)
	assert.LessOrEqual(t, s.Checked, testOptions().MaxLookups)
}

func TestRunReducedCountExplainsShortfall(t *testing.T) {
	c := &fakeChecker{free: func(_ string, n int) bool { return n < 2 }}
	opts := testOptions()
	opts.MaxLookups = 60
	e := NewEngine(lexicon.Default(), c, opts)

	req := ecoRequest
	req.Count = 6
	res, err := e.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, res.Picks, 2)
	assert.Contains(t, res.Summary.Explanation, "Found 2 of 6")
	assert.Contains(t, res.Summary.Explanation, "refuse to show low-scoring names")
	require.NotEmpty(t, res.Summary.Suggestions)
	assert.Equal(t, SuggestRetry, res.Summary.Suggestions[len(res.Summary.Suggestions)-1])
	assert.Contains(t, res.Summary.Suggestions, SuggestDisableQualityFloor)
	assertUnique(t, c.Calls())
}

func flatFactory(*lexicon.Lexicon, scoring.Context) scoring.Scorer { return flatScorer{} }

// flatScorer gives every candidate a score under the absolute floor.
type flatScorer struct{}

func (flatScorer) Score(c domain.Candidate) domain.ScoredCandidate {
	return domain.ScoredCandidate{Candidate: c, Score: 0, QualityBand: domain.BandLow, BrandableScore: 1}
}

func TestRunFloorBlocksLowScores(t *testing.T) {
	c := &fakeChecker{free: allFree}
	e := NewEngine(lexicon.Default(), c, testOptions(), WithScorer(flatFactory))

	res, err := e.Run(context.Background(), ecoRequest)
	require.NoError(t, err)

	assert.Empty(t, res.Picks)
	assert.Empty(t, c.Calls())
	assert.False(t, res.Summary.FloorBypassed)
	assert.Equal(t, testOptions().AbsoluteFloor, res.Summary.QualityFloor)
	assert.Equal(t, StopStagesExhausted, res.Summary.StopReason)
}

func TestRunShowAnyAvailableBypassesFloor(t *testing.T) {
	c := &fakeChecker{free: allFree}
	e := NewEngine(lexicon.Default(), c, testOptions(), WithScorer(flatFactory))

	req := ecoRequest
	req.Controls.ShowAnyAvailable = true
	res, err := e.Run(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, c.Calls())
	assert.True(t, res.Summary.FloorBypassed)
	assert.Len(t, res.Picks, 5)
	for _, p := range res.Picks {
		assert.Zero(t, p.Score)
	}
}

func TestRunCancellationMidBatch(t *testing.T) {
	p := available.NewStaticProvider()
	p.Delay = 10 * time.Second
	p.Record = true
	svc := available.NewService(p, nil)
	e := NewEngine(lexicon.Default(), svc, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for len(p.Calls()) == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	start := time.Now()
	res, err := e.Run(ctx, ecoRequest)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunAlreadyCanceled(t *testing.T) {
	e := NewEngine(lexicon.Default(), &fakeChecker{free: allFree}, testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx, ecoRequest)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestRunRespectsLookupBudget(t *testing.T) {
	c := &fakeChecker{free: allTaken}
	opts := testOptions()
	opts.MaxLookups = 30
	e := NewEngine(lexicon.Default(), c, opts)

	res, err := e.Run(context.Background(), ecoRequest)
	require.NoError(t, err)

	calls := c.Calls()
	assert.LessOrEqual(t, len(calls), 30)
	assert.Equal(t, len(calls), res.Summary.Checked)
	assert.Equal(t, StopLookupBudget, res.Summary.StopReason)
	assert.Empty(t, res.Picks)
	assertUnique(t, calls)
}

func TestRunNearMissProbesAlternates(t *testing.T) {
	c := &fakeChecker{free: func(d string, _ int) bool { return !strings.HasSuffix(d, ".com") }}
	opts := testOptions()
	opts.BatchSize = 2
	opts.MaxLookups = 60
	e := NewEngine(lexicon.Default(), c, opts)

	req := ecoRequest
	req.Count = 3
	res, err := e.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, res.Picks)
	assert.Equal(t, StopStagesExhausted, res.Summary.StopReason)
	require.NotEmpty(t, res.Summary.NearMisses)
	assert.LessOrEqual(t, len(res.Summary.NearMisses), opts.NearMissLimit)
	for _, nm := range res.Summary.NearMisses {
		// preferred extensions first, the primary never probed again
		assert.Equal(t, []string{"net", "io", "co"}, nm.AvailableTLDs)
	}
	assert.Contains(t, res.Summary.Explanation, "free on another extension")

	calls := c.Calls()
	assertUnique(t, calls)
	assert.LessOrEqual(t, len(calls), opts.MaxLookups)
}

func TestRunPickCap(t *testing.T) {
	c := &fakeChecker{free: allFree}
	e := NewEngine(lexicon.Default(), c, testOptions())

	req := ecoRequest
	req.Count = 1
	res, err := e.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.Picks, 1)
	// the whole first batch came back free, only one is kept
	assert.Greater(t, res.Summary.Available, 1)
	assert.Equal(t, len(c.Calls()), res.Summary.Available)
}

func TestRunDeterministicPicks(t *testing.T) {
	names := func() []string {
		e := NewEngine(lexicon.Default(), &fakeChecker{free: allFree}, testOptions())
		res, err := e.Run(context.Background(), ecoRequest)
		require.NoError(t, err)
		out := make([]string, len(res.Picks))
		for i, p := range res.Picks {
			out[i] = p.Name
		}
		return out
	}
	first := names()
	if diff := cmp.Diff(first, names()); diff != "" {
		t.Errorf("picks differ between runs (-first +second):\n%s", diff)
	}
}

func TestRunTimeBudget(t *testing.T) {
	var tick atomic.Int64
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		return base.Add(time.Duration(tick.Add(1)) * time.Second)
	}
	opts := testOptions()
	opts.TimeBudget = 3 * time.Second
	e := NewEngine(lexicon.Default(), &fakeChecker{free: allTaken}, opts, WithClock(clock))

	res, err := e.Run(context.Background(), ecoRequest)
	require.NoError(t, err)
	assert.Equal(t, StopTimeBudget, res.Summary.StopReason)
	assert.Contains(t, res.Summary.Explanation, "time budget")
}

func TestRunTimeBudgetBoundsSlowBatch(t *testing.T) {
	p := available.NewStaticProvider()
	p.Delay = 1500 * time.Millisecond
	svc := available.NewService(p, nil)
	opts := testOptions()
	opts.TimeBudget = 200 * time.Millisecond
	e := NewEngine(lexicon.Default(), svc, opts)

	start := time.Now()
	res, err := e.Run(context.Background(), ecoRequest)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)

	assert.Empty(t, res.Picks)
	assert.Equal(t, StopTimeBudget, res.Summary.StopReason)
	assert.Contains(t, res.Summary.Explanation, "time budget used up")
	assert.Contains(t, res.Summary.Suggestions, SuggestRetry)
}

func TestRunTimeBudgetKeepsEarlierPicks(t *testing.T) {
	c := &stallingChecker{fakeChecker: fakeChecker{free: func(_ string, n int) bool { return n < 2 }}}
	opts := testOptions()
	opts.TimeBudget = 300 * time.Millisecond
	e := NewEngine(lexicon.Default(), c, opts)

	res, err := e.Run(context.Background(), ecoRequest)
	require.NoError(t, err)
	assert.Len(t, res.Picks, 2)
	assert.Equal(t, StopTimeBudget, res.Summary.StopReason)
	assert.Contains(t, res.Summary.Explanation, "Found 2 of 5")
	assert.Equal(t, int32(2), c.batches.Load())
}

func TestRunProviderErrorsAreNeverPicked(t *testing.T) {
	c := &fakeChecker{
		free: allFree,
		fail: func(string) error { return errors.New("registry timeout") },
	}
	opts := testOptions()
	opts.MaxLookups = 40
	e := NewEngine(lexicon.Default(), c, opts)

	res, err := e.Run(context.Background(), ecoRequest)
	require.NoError(t, err)

	assert.Empty(t, res.Picks)
	s := res.Summary
	assert.Zero(t, s.Available)
	assert.Empty(t, s.NearMisses)
	assert.Positive(t, s.ProviderErrors)
	assert.Equal(t, len(c.Calls()), s.ProviderErrors)
	assert.Contains(t, s.Explanation, "lookups failed and were not counted as available")
}

func TestRunEmptyStageMovesOn(t *testing.T) {
	c := &fakeChecker{free: allTaken}
	opts := testOptions()
	e := NewEngine(lexicon.Default(), c, opts)

	// No name of four letters can hold "green" verbatim.
	req := domain.Request{Keywords: "green", Industry: domain.IndustrySustainability, MaxLength: 4, Count: 3}

	r, err := e.newRun(req)
	require.NoError(t, err)
	k := knobs{
		keywordPosition: r.req.Controls.KeywordPosition,
		keywordMode:     r.req.Controls.KeywordMode,
		maxLength:       r.req.MaxLength,
	}
	require.Equal(t, domain.KeywordExact, k.keywordMode)
	assert.Empty(t, e.stageCandidates(r, k, 0, opts.BasePoolSize))

	res, err := e.Run(context.Background(), req)
	require.NoError(t, err)

	steps := res.Summary.Relaxations
	require.Len(t, steps, len(ladder))
	assert.Equal(t, StageLengthPlusOne, steps[2].ID)
	assert.True(t, steps[2].Applied)
	assert.True(t, steps[3].Applied)
	assert.Contains(t, res.Summary.AppliedLabels, "max length +1")
	assert.Contains(t, res.Summary.AppliedLabels, "max length +2")
}

func TestRunRejectsInvalidRequest(t *testing.T) {
	e := NewEngine(lexicon.Default(), &fakeChecker{free: allFree}, testOptions())
	_, err := e.Run(context.Background(), domain.Request{Keywords: "eco", Vibe: "grumpy"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestRunWithoutChecker(t *testing.T) {
	e := NewEngine(lexicon.Default(), nil, testOptions())
	_, err := e.Run(context.Background(), ecoRequest)
	assert.Error(t, err)
}

func TestGenerateOffline(t *testing.T) {
	e := NewEngine(lexicon.Default(), nil, testOptions())

	got, err := e.Generate(ecoRequest)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 5)
	assertRanked(t, got)
	for _, c := range got {
		assert.Empty(t, c.Domain)
		assert.True(t, strings.Contains(c.Name, "eco") || strings.Contains(c.Name, "green"), c.Name)
	}

	again, err := e.Generate(ecoRequest)
	require.NoError(t, err)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("offline pool not deterministic (-first +second):\n%s", diff)
	}
}

func TestLadderFold(t *testing.T) {
	k := knobs{keywordPosition: domain.PositionPrefix, keywordMode: domain.KeywordExact, maxLength: 10}
	for _, st := range ladder {
		assert.True(t, st.apply(&k), st.id)
	}
	assert.Equal(t, knobs{
		keywordPosition: domain.PositionAnywhere,
		keywordMode:     domain.KeywordPartial,
		maxLength:       12,
		preferTwoWord:   true,
		suffixTolerant:  true,
		genericAffixes:  true,
	}, k)

	// Already loose: only the baseline and the fallback affixes change anything.
	k = knobs{keywordPosition: domain.PositionAnywhere, keywordMode: domain.KeywordNone, maxLength: domain.MaxNameLength,
		preferTwoWord: true, suffixTolerant: true}
	var applied []string
	for _, st := range ladder {
		if st.apply(&k) {
			applied = append(applied, st.id)
		}
	}
	assert.Equal(t, []string{StageBaseline, StageGenericAffixes}, applied)
}

func TestQualityFloor(t *testing.T) {
	ranked := make([]domain.ScoredCandidate, 10)
	for i := range ranked {
		ranked[i].Score = float64(29 - i)
	}
	o := Options{FloorPercentile: 0.22, FloorMargin: 2, FloorMarginStep: 0.5}

	assert.InDelta(t, 19.0, qualityFloor(ranked, 0, math.Inf(1), o), 1e-9)
	assert.InDelta(t, 20.0, qualityFloor(ranked, 2, math.Inf(1), o), 1e-9)
	// never rises above the previous stage
	assert.InDelta(t, 19.0, qualityFloor(ranked, 2, 19, o), 1e-9)
	assert.InDelta(t, 21.0, qualityFloor(ranked, 9, math.Inf(1), o), 1e-9)

	o.AbsoluteFloor = 25
	assert.InDelta(t, 25.0, qualityFloor(ranked, 0, math.Inf(1), o), 1e-9)
	assert.InDelta(t, 25.0, qualityFloor(nil, 0, math.Inf(1), o), 1e-9)
	assert.InDelta(t, 12.0, qualityFloor(nil, 3, 12, o), 1e-9)
}

func TestSuggestionsOrder(t *testing.T) {
	r := &run{req: domain.Request{Keywords: "eco"}.Normalize(), target: 5}
	for _, st := range ladder {
		r.steps = append(r.steps, domain.RelaxationStep{ID: st.id, Label: st.label})
	}
	assert.Equal(t, []string{
		SuggestIncreaseLength, SuggestTwoWordMode, SuggestSuffixMode,
		SuggestSwitchExtension, SuggestDisableQualityFloor, SuggestRetry,
	}, suggestions(r))

	for i := range r.steps {
		r.steps[i].Applied = true
	}
	r.req.Controls.ShowAnyAvailable = true
	assert.Equal(t, []string{SuggestSwitchExtension, SuggestRetry}, suggestions(r))
}

func TestRankRejections(t *testing.T) {
	got := rankRejections(map[string]int{
		scoring.ReasonLength: 4, scoring.ReasonUgly: 9, scoring.ReasonBlocked: 4,
		scoring.ReasonCharset: 1, scoring.ReasonKeyword: 2, "other": 1,
	})
	want := []domain.RejectionCount{
		{Reason: scoring.ReasonUgly, Count: 9},
		{Reason: scoring.ReasonBlocked, Count: 4},
		{Reason: scoring.ReasonLength, Count: 4},
		{Reason: scoring.ReasonKeyword, Count: 2},
		{Reason: scoring.ReasonCharset, Count: 1},
	}
	assert.Equal(t, want, got)
}

func TestOptionsFromConfig(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, "com", o.PrimaryTLD)
	assert.Equal(t, 20*time.Second, o.TimeBudget)
	assert.Equal(t, 120, o.MaxLookups)
	assert.Equal(t, 8, o.Check.Concurrency)
	assert.Equal(t, 250*time.Millisecond, o.Check.Backoff)
	assert.Equal(t, 10*time.Minute, o.Check.TTL)
	assert.InDelta(t, 0.22, o.FloorPercentile, 1e-9)
	assert.Zero(t, o.Check.MaxBackoff)

	cfg := config.Default()
	cfg.Search.MaxBackoffMS = 2000
	cfg.Search.NearMissLimit = 0
	o = OptionsFromConfig(cfg)
	assert.Equal(t, 2*time.Second, o.Check.MaxBackoff)
	assert.Zero(t, NewEngine(lexicon.Default(), nil, o).opts.NearMissLimit)
}
