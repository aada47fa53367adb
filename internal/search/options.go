package search

import (
	"time"

	"github.com/uberswe/LoopiaBrandFinder/internal/available"
	"github.com/uberswe/LoopiaBrandFinder/pkg/config"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

// Options are the budgets and tuning knobs of the search engine
type Options struct {
	PrimaryTLD    string
	AlternateTLDs []string

	TimeBudget   time.Duration
	MaxLookups   int // hard ceiling per run, near-miss probes included
	BatchSize    int
	MinLength    int
	BasePoolSize int

	// The quality floor of stage k is the FloorPercentile score of the stage's
	// ranked list minus max(0, FloorMargin - k*FloorMarginStep), never above
	// the previous stage's floor and never below AbsoluteFloor.
	FloorPercentile float64
	FloorMargin     float64
	FloorMarginStep float64
	AbsoluteFloor   float64

	NearMissLimit int
	Check         available.Options
}

// DefaultOptions returns the options of the default configuration.
func DefaultOptions() Options {
	cfg := &domain.Config{}
	config.ApplyDefaults(cfg)
	return OptionsFromConfig(cfg)
}

// OptionsFromConfig maps a loaded configuration onto engine options.
func OptionsFromConfig(cfg *domain.Config) Options {
	s := cfg.Search
	return Options{
		PrimaryTLD:      cfg.PrimaryTLD,
		AlternateTLDs:   cfg.AlternateTLDs,
		TimeBudget:      time.Duration(s.TimeBudgetMS) * time.Millisecond,
		MaxLookups:      s.MaxLookups,
		BatchSize:       s.BatchSize,
		MinLength:       s.MinLength,
		BasePoolSize:    s.BasePoolSize,
		FloorPercentile: s.FloorPercentile,
		FloorMargin:     s.FloorMargin,
		FloorMarginStep: s.FloorMarginStep,
		AbsoluteFloor:   s.AbsoluteFloor,
		NearMissLimit:   s.NearMissLimit,
		Check: available.Options{
			Concurrency: s.Concurrency,
			MaxRetries:  s.MaxRetries,
			Backoff:     time.Duration(s.BackoffMS) * time.Millisecond,
			MaxBackoff:  time.Duration(s.MaxBackoffMS) * time.Millisecond,
			TTL:         time.Duration(s.CacheTTLSeconds) * time.Second,
		},
	}
}

func (o Options) clamp() Options {
	if o.PrimaryTLD == "" {
		o.PrimaryTLD = domain.DefaultPrimaryTLD
	}
	if o.TimeBudget <= 0 {
		o.TimeBudget = 20 * time.Second
	}
	if o.MaxLookups <= 0 {
		o.MaxLookups = 120
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 24
	}
	o.MinLength = max(o.MinLength, domain.MinNameLength)
	if o.BasePoolSize <= 0 {
		o.BasePoolSize = 160
	}
	if o.FloorPercentile < 0 || o.FloorPercentile > 1 {
		o.FloorPercentile = 0.22
	}
	o.FloorMargin = max(o.FloorMargin, 0)
	o.FloorMarginStep = max(o.FloorMarginStep, 0)
	if o.NearMissLimit < 0 {
		o.NearMissLimit = 0
	}
	o.Check.Concurrency = max(o.Check.Concurrency, 1)
	o.Check.MaxRetries = max(o.Check.MaxRetries, 0)
	return o
}
