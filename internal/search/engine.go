// Package search runs the relaxation ladder: generate, filter, score and rank
// candidates, then check availability on the primary extension stage by stage
// until enough names are registrable or a budget runs out.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/uberswe/LoopiaBrandFinder/internal/available"
	"github.com/uberswe/LoopiaBrandFinder/internal/generator"
	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/internal/scoring"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

// ErrCanceled is returned when a run is canceled. The context error is wrapped too.
var ErrCanceled = errors.New("search canceled")

// errTimeBudget ends the ladder when a lookup outlives the run's time budget.
var errTimeBudget = errors.New("time budget elapsed")

// Stop reasons
const (
	StopTargetReached   = "target_reached"
	StopStagesExhausted = "stages_exhausted"
	StopTimeBudget      = "time_budget"
	StopLookupBudget    = "lookup_budget"
)

const (
	batchesPerStage = 2
	lowHitRate      = 0.25
	maxAlternates   = 3
)

// Engine runs searches. It holds no per-run state and is safe for concurrent use.
type Engine struct {
	lex     *lexicon.Lexicon
	gen     *generator.Generator
	checker available.Checker
	opts    Options
	scorer  scoring.Factory
	now     func() time.Time
}

// EngineOption customizes an Engine
type EngineOption func(*Engine)

// WithScorer replaces the default brand scorer.
func WithScorer(f scoring.Factory) EngineOption {
	return func(e *Engine) {
		e.scorer = f
	}
}

// WithClock replaces time.Now for budget accounting.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine. checker may be nil when only Generate is used.
func NewEngine(lex *lexicon.Lexicon, checker available.Checker, opts Options, options ...EngineOption) *Engine {
	e := &Engine{
		lex:     lex,
		gen:     generator.New(lex),
		checker: checker,
		opts:    opts.clamp(),
		scorer:  scoring.DefaultFactory,
		now:     time.Now,
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// run is the accumulator the ladder folds over. It lives for one Run call.
type run struct {
	id       string
	req      domain.Request
	keywords []string
	target   int
	logger   zerolog.Logger
	started  time.Time
	deadline time.Time

	ledger     map[string]bool // every domain looked up this run
	picked     map[string]bool
	picks      []domain.ScoredCandidate
	nearMiss   []domain.ScoredCandidate
	rejections map[string]int
	steps      []domain.RelaxationStep

	generated      int
	filtered       int
	checked        int
	available      int
	providerErrors int
	floor          float64
	floorBypassed  bool
	stopReason     string
}

func (r *run) done() bool {
	return len(r.picks) >= r.target
}

func (r *run) hitRate() float64 {
	if r.checked == 0 {
		return 0
	}
	return float64(len(r.picks)) / float64(r.checked)
}

// Run executes one search. Falling short of the requested count is not an
// error; the summary explains what happened. A canceled ctx yields ErrCanceled
// and no result. Lookups still in flight when the time budget runs out are
// abandoned and the names found so far are returned.
func (e *Engine) Run(ctx context.Context, req domain.Request) (*domain.RunResult, error) {
	if e.checker == nil {
		return nil, errors.New("search engine has no availability checker")
	}
	r, err := e.newRun(req)
	if err != nil {
		return nil, err
	}
	budget, cancel := context.WithTimeout(ctx, e.opts.TimeBudget)
	defer cancel()

	r.logger.Info().
		Str("operation", "search").
		Strs("keywords", r.keywords).
		Str("industry", string(r.req.Industry)).
		Str("vibe", string(r.req.Vibe)).
		Int("target", r.target).
		Msg("Search started")

	k := knobs{
		keywordPosition: r.req.Controls.KeywordPosition,
		keywordMode:     r.req.Controls.KeywordMode,
		maxLength:       r.req.MaxLength,
		preferTwoWord:   r.req.Controls.PreferTwoWord,
		suffixTolerant:  r.req.Controls.SuffixTolerant,
	}
	poolSize := e.opts.BasePoolSize
	prevFloor := math.Inf(1)

	for i, st := range ladder {
		if err := canceled(ctx); err != nil {
			return nil, err
		}
		if r.stopReason = e.stopReason(r); r.stopReason != "" {
			break
		}

		applied := st.apply(&k)
		r.steps = append(r.steps, domain.RelaxationStep{ID: st.id, Label: st.label, Applied: applied})

		r.logger.Info().
			Str("operation", "stage").
			Str("stage", st.id).
			Bool("applied", applied).
			Int("pool_size", poolSize).
			Int("picks", len(r.picks)).
			Msg("Stage started")

		ranked := e.stageCandidates(r, k, i, poolSize)
		if len(ranked) == 0 {
			poolSize *= 2
			continue
		}

		floor := qualityFloor(ranked, i, prevFloor, e.opts)
		prevFloor, r.floor = floor, floor
		eligible := ranked
		if r.req.Controls.ShowAnyAvailable {
			r.floorBypassed = true
		} else {
			eligible = aboveFloor(ranked, floor)
		}

		if err := e.checkStage(ctx, budget, r, eligible, floor); err != nil {
			if !errors.Is(err, errTimeBudget) {
				return nil, err
			}
			r.stopReason = StopTimeBudget
			break
		}

		poolSize += poolSize / 4
		if r.checked > 0 && r.hitRate() < lowHitRate {
			poolSize += e.opts.BasePoolSize / 2
		}
	}

	// Finish the accounting for stages that were never reached.
	for _, st := range ladder[len(r.steps):] {
		r.steps = append(r.steps, domain.RelaxationStep{ID: st.id, Label: st.label})
	}
	if r.stopReason == "" {
		r.stopReason = StopStagesExhausted
		if r.done() {
			r.stopReason = StopTargetReached
		}
	}

	var nearMisses []domain.NearMissOption
	if !r.done() {
		nearMisses, err = e.probeNearMisses(ctx, budget, r)
		switch {
		case errors.Is(err, errTimeBudget):
			r.stopReason = StopTimeBudget
		case err != nil:
			return nil, err
		}
	}

	result := &domain.RunResult{Picks: r.picks, Summary: e.summarize(r, nearMisses)}
	scoring.Rank(result.Picks)

	r.logger.Info().
		Str("operation", "search").
		Int("picks", len(result.Picks)).
		Int("checked", r.checked).
		Int("provider_errors", r.providerErrors).
		Str("stop_reason", r.stopReason).
		Dur("elapsed", result.Summary.Elapsed).
		Msg("Search finished")

	return result, nil
}

func (e *Engine) newRun(req domain.Request) (*run, error) {
	if req.PrimaryTLD == "" {
		req.PrimaryTLD = e.opts.PrimaryTLD
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	started := e.now()
	return &run{
		id:         runID,
		req:        req,
		keywords:   util.Tokenize(req.Keywords),
		target:     req.Count,
		logger:     log.With().Str("run_id", runID).Logger(),
		started:    started,
		deadline:   started.Add(e.opts.TimeBudget),
		ledger:     make(map[string]bool),
		picked:     make(map[string]bool),
		rejections: make(map[string]int),
		floor:      e.opts.AbsoluteFloor,
	}, nil
}

// stopReason returns why the ladder must stop now, or "".
func (e *Engine) stopReason(r *run) string {
	switch {
	case r.done():
		return StopTargetReached
	case !e.now().Before(r.deadline):
		return StopTimeBudget
	case len(r.ledger) >= e.opts.MaxLookups:
		return StopLookupBudget
	}
	return ""
}

// stageCandidates generates, filters, scores and ranks the pool of stage i.
// Names already looked up this run are left out.
func (e *Engine) stageCandidates(r *run, k knobs, i, poolSize int) []domain.ScoredCandidate {
	c := r.req.Controls
	pool := e.gen.Generate(generator.Params{
		Keywords:       r.keywords,
		Industry:       r.req.Industry,
		Vibe:           r.req.Vibe,
		Style:          c.Style,
		MinLength:      e.opts.MinLength,
		MaxLength:      k.maxLength,
		PoolSize:       poolSize,
		Seed:           fmt.Sprintf("%s|stage:%d", c.Seed, i),
		PreferTwoWord:  k.preferTwoWord,
		SuffixTolerant: k.suffixTolerant,
		GenericAffixes: k.genericAffixes,
		AllowHyphen:    c.AllowHyphen,
		AllowDigits:    c.AllowDigits,
	})
	r.generated += len(pool)

	filter := scoring.NewFilter(e.lex, scoring.FilterOptions{
		MinLength:   min(e.opts.MinLength, k.maxLength),
		MaxLength:   k.maxLength,
		AllowHyphen: c.AllowHyphen,
		AllowDigits: c.AllowDigits,
		BlockList:   c.BlockList,
		AllowList:   c.AllowList,
		Keywords:    r.keywords,
		KeywordMode: k.keywordMode,
		Synonyms:    c.Synonyms,
	})
	survivors := filter.Apply(pool, r.rejections)
	r.filtered += len(pool) - len(survivors)

	scorer := e.scorer(e.lex, scoring.Context{
		Keywords:        r.keywords,
		Industry:        r.req.Industry,
		Vibe:            r.req.Vibe,
		Style:           c.Style,
		MaxLength:       k.maxLength,
		KeywordPosition: k.keywordPosition,
		MeaningFirst:    c.MeaningFirst,
		AllowList:       c.AllowList,
	})
	ranked := make([]domain.ScoredCandidate, 0, len(survivors))
	for _, cand := range survivors {
		if r.ledger[util.JoinDomain(cand.Name, r.req.PrimaryTLD)] {
			continue
		}
		ranked = append(ranked, scorer.Score(cand))
	}
	scoring.Rank(ranked)

	r.logger.Debug().
		Str("operation", "stage").
		Int("generated", len(pool)).
		Int("survivors", len(survivors)).
		Int("fresh", len(ranked)).
		Msg("Stage pool ready")
	return ranked
}

func aboveFloor(ranked []domain.ScoredCandidate, floor float64) []domain.ScoredCandidate {
	for i, c := range ranked {
		if c.Score < floor {
			return ranked[:i]
		}
	}
	return ranked
}

// checkStage looks up the top of eligible on the primary extension in batches.
// Lookups run under budget; ctx is the caller's context.
func (e *Engine) checkStage(ctx, budget context.Context, r *run, eligible []domain.ScoredCandidate, floor float64) error {
	nearMissFloor := math.Max(floor, scoring.MediumBand)
	limit := min(len(eligible), e.opts.BatchSize*batchesPerStage)
	for start := 0; start < limit; start += e.opts.BatchSize {
		if e.stopReason(r) != "" {
			return nil
		}
		room := e.opts.MaxLookups - len(r.ledger)
		batch := eligible[start:min(start+e.opts.BatchSize, limit)]
		batch = batch[:min(len(batch), room)]

		domains := make([]string, len(batch))
		for i, c := range batch {
			domains[i] = util.JoinDomain(c.Name, r.req.PrimaryTLD)
			r.ledger[domains[i]] = true
		}
		results, err := e.lookup(ctx, budget, domains)
		if err != nil {
			return err
		}

		for i, res := range results {
			r.checked++
			cand := batch[i]
			switch {
			case res.Err != nil:
				r.providerErrors++
			case res.Available:
				r.available++
				if !r.done() && !r.picked[cand.Name] {
					r.picked[cand.Name] = true
					cand.Domain = res.Domain
					r.picks = append(r.picks, cand)
				}
			case cand.Score >= nearMissFloor:
				r.nearMiss = append(r.nearMiss, cand)
			}
		}
	}
	return nil
}

// lookup returns ErrCanceled when ctx ends and errTimeBudget when only the
// budget context does.
func (e *Engine) lookup(ctx, budget context.Context, domains []string) ([]available.Result, error) {
	if len(domains) == 0 {
		return nil, nil
	}
	results, err := e.checker.CheckAvailability(budget, domains, e.opts.Check)
	if err != nil {
		if cerr := canceled(ctx); cerr != nil {
			return nil, cerr
		}
		if budget.Err() != nil {
			return nil, errTimeBudget
		}
		return nil, fmt.Errorf("availability check: %w", err)
	}
	if len(results) != len(domains) {
		return nil, fmt.Errorf("availability check returned %d results for %d domains", len(results), len(domains))
	}
	return results, nil
}

// probeNearMisses checks the best unavailable names on the preferred
// alternate extensions, within what is left of the lookup budget.
func (e *Engine) probeNearMisses(ctx, budget context.Context, r *run) ([]domain.NearMissOption, error) {
	if len(r.nearMiss) == 0 || e.opts.NearMissLimit == 0 || !e.now().Before(r.deadline) || budget.Err() != nil {
		return nil, nil
	}
	var alternates []string
	for _, tld := range util.RankTLDs(e.opts.AlternateTLDs) {
		if tld != r.req.PrimaryTLD && len(alternates) < maxAlternates {
			alternates = append(alternates, tld)
		}
	}
	if len(alternates) == 0 {
		return nil, nil
	}

	seeds := r.nearMiss
	scoring.Rank(seeds)
	seeds = seeds[:min(len(seeds), e.opts.NearMissLimit)]

	var domains []string
	owner := make(map[string]int)
	for i, s := range seeds {
		for _, tld := range alternates {
			d := util.JoinDomain(s.Name, tld)
			if r.ledger[d] || len(r.ledger) >= e.opts.MaxLookups {
				continue
			}
			r.ledger[d] = true
			owner[d] = i
			domains = append(domains, d)
		}
	}
	results, err := e.lookup(ctx, budget, domains)
	if err != nil {
		return nil, err
	}

	free := make([][]string, len(seeds))
	for _, res := range results {
		r.checked++
		if res.Err != nil {
			r.providerErrors++
			continue
		}
		if res.Available {
			r.available++
			i := owner[res.Domain]
			_, tld := util.SplitDomain(res.Domain)
			free[i] = append(free[i], tld)
		}
	}

	var out []domain.NearMissOption
	for i, s := range seeds {
		if len(free[i]) > 0 {
			out = append(out, domain.NearMissOption{Name: s.Name, AvailableTLDs: free[i]})
		}
	}
	r.logger.Info().
		Str("operation", "near_miss").
		Int("probed", len(domains)).
		Int("options", len(out)).
		Msg("Near-miss probe done")
	return out, nil
}

// Generate returns the ranked offline pool of the baseline stage, cut to the
// requested count. It performs no lookups.
func (e *Engine) Generate(req domain.Request) ([]domain.ScoredCandidate, error) {
	r, err := e.newRun(req)
	if err != nil {
		return nil, err
	}
	k := knobs{
		keywordPosition: r.req.Controls.KeywordPosition,
		keywordMode:     r.req.Controls.KeywordMode,
		maxLength:       r.req.MaxLength,
		preferTwoWord:   r.req.Controls.PreferTwoWord,
		suffixTolerant:  r.req.Controls.SuffixTolerant,
	}
	ranked := e.stageCandidates(r, k, 0, e.opts.BasePoolSize)
	return ranked[:min(len(ranked), r.target)], nil
}

func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return nil
}
