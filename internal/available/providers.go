package available

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/uberswe/LoopiaBrandFinder/pkg/api"
	"github.com/uberswe/LoopiaBrandFinder/pkg/config"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
	"github.com/uberswe/LoopiaBrandFinder/pkg/util"
)

// ErrNoCredentials is returned when the Loopia provider is selected without credentials
var ErrNoCredentials = errors.New("no Loopia credentials found; set them in the config file or LOOPIA_USERNAME and LOOPIA_PASSWORD")

type domainChecker interface {
	DomainIsFree(ctx context.Context, domainName string) (bool, error)
}

// LoopiaProvider asks the Loopia API
type LoopiaProvider struct {
	client domainChecker
}

// NewLoopiaProvider wraps a Loopia API client.
func NewLoopiaProvider(client *api.Client) *LoopiaProvider {
	return &LoopiaProvider{client: client}
}

// Name implements Provider.
func (p *LoopiaProvider) Name() string { return config.ProviderLoopia }

// Check implements Provider.
func (p *LoopiaProvider) Check(ctx context.Context, domainName string) (bool, error) {
	return p.client.DomainIsFree(ctx, domainName)
}

type nsResolver interface {
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// DNSProvider treats a domain without NS records as free. It needs no
// credentials but cannot see registered domains that have no delegation.
type DNSProvider struct {
	resolver nsResolver
}

// NewDNSProvider uses r, or the default resolver when r is nil.
func NewDNSProvider(r *net.Resolver) *DNSProvider {
	if r == nil {
		r = net.DefaultResolver
	}
	return &DNSProvider{resolver: r}
}

// Name implements Provider.
func (p *DNSProvider) Name() string { return config.ProviderDNS }

// Check implements Provider.
func (p *DNSProvider) Check(ctx context.Context, domainName string) (bool, error) {
	ns, err := p.resolver.LookupNS(ctx, domainName)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return true, nil
		}
		return false, fmt.Errorf("ns lookup %s: %w", domainName, err)
	}
	return len(ns) == 0, nil
}

// StaticProvider answers from fixed tables. It backs dry runs and tests.
type StaticProvider struct {
	Taken    map[string]bool  // domains reported as registered
	FreeOnly map[string]bool  // when set, only these domains are free
	Errors   map[string]error // domains whose lookup always fails
	Delay    time.Duration    // simulated latency per lookup
	Record   bool             // keep every looked-up domain for Calls

	mu    sync.Mutex
	calls []string
}

// NewStaticProvider reports every domain free except the taken ones.
func NewStaticProvider(taken ...string) *StaticProvider {
	p := &StaticProvider{Taken: make(map[string]bool, len(taken))}
	for _, d := range taken {
		p.Taken[strings.ToLower(d)] = true
	}
	return p
}

// Name implements Provider.
func (p *StaticProvider) Name() string { return config.ProviderStatic }

// Check implements Provider.
func (p *StaticProvider) Check(ctx context.Context, domainName string) (bool, error) {
	if p.Record {
		p.mu.Lock()
		p.calls = append(p.calls, domainName)
		p.mu.Unlock()
	}

	if err := util.Sleep(ctx, p.Delay); err != nil {
		return false, err
	}
	if err, ok := p.Errors[domainName]; ok {
		return false, err
	}
	if p.Taken[domainName] {
		return false, nil
	}
	if p.FreeOnly != nil {
		return p.FreeOnly[domainName], nil
	}
	return true, nil
}

// Calls returns every domain looked up so far, in call order. It is empty
// unless Record is set.
func (p *StaticProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// NewProvider builds the provider named in cfg. A dry run always answers from
// a static all-free table and never touches the network.
func NewProvider(cfg *domain.Config, dry bool) (Provider, error) {
	if dry {
		log.Info().Msg("[DRY-RUN] availability answered locally, every domain reported free")
		return NewStaticProvider(), nil
	}
	switch cfg.Provider {
	case config.ProviderStatic:
		return NewStaticProvider(), nil
	case config.ProviderDNS:
		return NewDNSProvider(nil), nil
	case config.ProviderLoopia, "":
		if cfg.Username == "" || cfg.Password == "" {
			return nil, ErrNoCredentials
		}
		client, err := api.NewClient(cfg.Username, cfg.Password, false,
			api.WithRateLimit(cfg.RateLimit, time.Duration(cfg.RateWindowSeconds)*time.Second))
		if err != nil {
			return nil, fmt.Errorf("failed to create Loopia client: %w", err)
		}
		return NewLoopiaProvider(client), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// NewStore builds the cache backend named in cfg.
func NewStore(cfg *domain.Config) (Store, error) {
	switch cfg.Cache.Driver {
	case config.CacheMemory, "":
		return NewMemoryStore(), nil
	case config.CacheSQLite:
		return NewSQLiteStore(cfg.Cache.Path)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
