// Package available checks whether fully-qualified domain names can be
// registered. A Service wraps a Provider with bounded concurrency, retries
// and a TTL cache.
package available

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/uberswe/LoopiaBrandFinder/pkg/api"
	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

// Result is the outcome of one lookup
type Result struct {
	Domain    string
	Available bool
	Err       error // set when the provider never gave a definitive answer
	Cached    bool
	Attempts  int
}

// Options tunes one CheckAvailability call
type Options struct {
	Concurrency int
	MaxRetries  int
	Backoff     time.Duration
	MaxBackoff  time.Duration // when above Backoff, later retries double up to it
	TTL         time.Duration
}

// Provider answers availability for a single domain
type Provider interface {
	Name() string
	Check(ctx context.Context, domainName string) (bool, error)
}

// Checker is the availability oracle the search engine depends on
type Checker interface {
	CheckAvailability(ctx context.Context, domains []string, opts Options) ([]Result, error)
}

// Service is the default Checker
type Service struct {
	provider Provider
	store    Store
	now      func() time.Time
}

// NewService creates a Service. A nil store disables caching.
func NewService(provider Provider, store Store) *Service {
	return &Service{provider: provider, store: store, now: time.Now}
}

// CheckAvailability looks up every domain with at most opts.Concurrency
// lookups in flight. Results are returned in input order. Provider failures
// are reported per result; the returned error is only set when ctx ends.
func (s *Service) CheckAvailability(ctx context.Context, domains []string, opts Options) ([]Result, error) {
	results := make([]Result, len(domains))
	if len(domains) == 0 {
		return results, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for i, d := range domains {
		i, d := i, d
		g.Go(func() error {
			res, err := s.checkOne(gctx, d, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkOne returns an error only when ctx ends.
func (s *Service) checkOne(ctx context.Context, domainName string, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if s.store != nil {
		entry, ok, err := s.store.Get(ctx, domainName, s.now())
		if err != nil {
			log.Warn().Err(err).Str("domain", domainName).Str("operation", "cache_get").Msg("Availability cache read failed")
		} else if ok {
			return Result{Domain: domainName, Available: entry.Available, Cached: true}, nil
		}
	}

	backoff := retryBackoff(opts)
	res := Result{Domain: domainName}
	for attempt := 1; ; attempt++ {
		res.Attempts = attempt
		free, err := s.provider.Check(ctx, domainName)
		if err == nil {
			res.Available, res.Err = free, nil
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		res.Err = err

		log.Warn().
			Err(err).
			Str("domain", domainName).
			Str("provider", s.provider.Name()).
			Str("operation", "availability_check").
			Int("attempt", attempt).
			Msg("Availability lookup failed")

		if attempt > opts.MaxRetries || !retryable(err) {
			return res, nil
		}
		if err := util.Sleep(ctx, backoff.Delay(attempt)); err != nil {
			return Result{}, err
		}
	}

	log.Debug().
		Str("domain", domainName).
		Str("provider", s.provider.Name()).
		Bool("available", res.Available).
		Int("attempts", res.Attempts).
		Msg("Availability lookup done")

	if s.store != nil {
		if err := s.store.Put(ctx, domainName, res.Available, s.now(), opts.TTL); err != nil {
			log.Warn().Err(err).Str("domain", domainName).Str("operation", "cache_put").Msg("Availability cache write failed")
		}
	}
	return res, nil
}

// retryBackoff waits opts.Backoff before the first retry. With a MaxBackoff
// above it, each later retry waits twice as long up to MaxBackoff.
func retryBackoff(opts Options) util.Backoff {
	b := util.Backoff{FastRetries: 1, FastInterval: opts.Backoff}
	if opts.MaxBackoff > opts.Backoff {
		b.Initial = min(2*opts.Backoff, opts.MaxBackoff)
		b.Max = opts.MaxBackoff
	}
	return b
}

// retryable reports whether another attempt could change the outcome.
func retryable(err error) bool {
	return !errors.Is(err, api.ErrAuth) && !errors.Is(err, api.ErrRateLimited)
}
