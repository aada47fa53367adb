// Package api provides a client for interacting with the Loopia API
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kolo/xmlrpc"
	"github.com/rs/zerolog/log"
)

const (
	loopiaEndpoint = "https://api.loopia.se/RPCSERV"

	// DefaultRateLimit is the number of calls Loopia allows per DefaultRateWindow
	DefaultRateLimit  = 60
	DefaultRateWindow = time.Minute

	// DefaultRequestTimeout bounds one HTTP round trip, body included
	DefaultRequestTimeout = 15 * time.Second

	dialTimeout = 10 * time.Second
)

// Loopia status replies
const (
	statusOK             = "OK"
	statusOccupied       = "DOMAIN_OCCUPIED"
	statusAuthError      = "AUTH_ERROR"
	statusRateLimited    = "RATE_LIMITED"
	statusBadIndata      = "BAD_INDATA"
	statusUnknownFailure = "UNKNOWN_ERROR"
)

var (
	// ErrRateLimited is returned once the client's call ceiling for the current window is reached
	ErrRateLimited = errors.New("loopia rate limit reached")
	// ErrAuth is returned when Loopia rejects the credentials
	ErrAuth = errors.New("loopia authentication failed")
)

// caller is the part of xmlrpc.Client the client uses
type caller interface {
	Call(serviceMethod string, args interface{}, reply interface{}) error
}

// Client wraps an xmlrpc.Client and automatically inserts
// username + password as the first two parameters of every call.
type Client struct {
	username string
	password string
	rpc      caller
	dryRun   bool // if true, no RPC is executed and every domain is reported free
	endpoint string
	timeout  time.Duration

	// Rate limiting
	callsMutex      sync.Mutex
	limit           int
	window          time.Duration
	callsThisWindow int
	windowStart     time.Time
	stopOnAuth      bool // set after a 401 or AUTH_ERROR; later calls fail fast
	now             func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithRateLimit overrides the call ceiling and its window.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(c *Client) {
		if limit > 0 {
			c.limit = limit
		}
		if window > 0 {
			c.window = window
		}
	}
}

// WithClock replaces time.Now for the rate window.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithEndpoint replaces the Loopia XML-RPC endpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func withCaller(rpc caller) Option {
	return func(c *Client) { c.rpc = rpc }
}

// NewClient creates a new Loopia API client
func NewClient(username, password string, dry bool, opts ...Option) (*Client, error) {
	c := &Client{
		username: username,
		password: password,
		dryRun:   dry,
		limit:    DefaultRateLimit,
		window:   DefaultRateWindow,
		endpoint: loopiaEndpoint,
		timeout:  DefaultRequestTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rpc == nil && !dry {
		rpc, err := xmlrpc.NewClient(c.endpoint, newTransport(c.timeout))
		if err != nil {
			return nil, err
		}
		c.rpc = rpc
	}
	c.windowStart = c.now()
	return c, nil
}

// newTransport returns a RoundTripper that gives up on a request after timeout,
// reading the response body included.
func newTransport(timeout time.Duration) http.RoundTripper {
	return &deadlineTransport{
		base: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
			TLSHandshakeTimeout:   dialTimeout,
			ResponseHeaderTimeout: timeout,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConnsPerHost:   8,
		},
		timeout: timeout,
	}
}

type deadlineTransport struct {
	base    http.RoundTripper
	timeout time.Duration
}

func (t *deadlineTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), t.timeout)
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose releases the request context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// reserve takes one call from the current window.
func (c *Client) reserve(method string) (int, error) {
	c.callsMutex.Lock()
	defer c.callsMutex.Unlock()

	if c.stopOnAuth {
		return 0, ErrAuth
	}

	now := c.now()
	if now.Sub(c.windowStart) >= c.window {
		log.Debug().
			Str("operation", "api_call").
			Int("previous_window_calls", c.callsThisWindow).
			Time("new_window_start", now).
			Msg("Resetting API call counter for new window")
		c.callsThisWindow = 0
		c.windowStart = now
	}

	if c.callsThisWindow >= c.limit {
		log.Warn().
			Str("method", method).
			Str("operation", "api_call").
			Int("calls_this_window", c.callsThisWindow).
			Time("window_end", c.windowStart.Add(c.window)).
			Msg("API call limit reached")
		return 0, fmt.Errorf("%w: %d calls per %s", ErrRateLimited, c.limit, c.window)
	}

	c.callsThisWindow++
	return c.callsThisWindow, nil
}

// Call invokes an XML‑RPC method with authentication prepended. The RPC itself
// cannot be interrupted; when ctx ends first Call returns ctx.Err() and the
// request is abandoned to the transport's request timeout.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reqLogger := log.With().
		Str("method", method).
		Str("operation", "api_call").
		Logger()

	if c.dryRun {
		reqLogger.Debug().
			Interface("params", params).
			Msg("[DRY-RUN] API call simulated")
		return statusOK, nil
	}

	callNumber, err := c.reserve(method)
	if err != nil {
		return nil, err
	}

	reqLogger.Debug().
		Interface("params", params).
		Int("calls_this_window", callNumber).
		Msg("Sending API request")

	type outcome struct {
		reply interface{}
		err   error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		all := append([]interface{}{c.username, c.password}, params...)
		var reply interface{}
		err := c.rpc.Call(method, all, &reply)
		done <- outcome{reply: reply, err: err}
	}()

	var res outcome
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	respLogger := reqLogger.With().
		Dur("duration_ms", time.Since(start)).
		Logger()

	if res.err != nil {
		respLogger.Warn().
			Err(res.err).
			Msg("API call failed")

		switch msg := res.err.Error(); {
		case strings.HasSuffix(msg, "401 Unauthorized"), strings.HasSuffix(msg, "status code - 401"):
			c.callsMutex.Lock()
			c.stopOnAuth = true
			c.callsMutex.Unlock()
			return nil, fmt.Errorf("%w: %v", ErrAuth, res.err)
		case strings.HasSuffix(msg, "429 Too Many Requests"), strings.HasSuffix(msg, "status code - 429"):
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, res.err)
		}
		return nil, res.err
	}

	respLogger.Debug().
		Interface("response", res.reply).
		Msg("API call successful")

	return res.reply, nil
}

// DomainIsFree asks Loopia whether a fully-qualified domain can be registered.
func (c *Client) DomainIsFree(ctx context.Context, domainName string) (bool, error) {
	resp, err := c.Call(ctx, "domainIsFree", domainName)
	if err != nil {
		return false, err
	}

	status, ok := resp.(string)
	if !ok {
		return false, fmt.Errorf("unexpected response format from domainIsFree: %T", resp)
	}

	switch status {
	case statusOK:
		return true, nil
	case statusOccupied:
		return false, nil
	case statusAuthError:
		c.callsMutex.Lock()
		c.stopOnAuth = true
		c.callsMutex.Unlock()
		log.Error().
			Str("domain", domainName).
			Str("operation", "domain_is_free").
			Msg("Loopia rejected the credentials, stopping further API calls")
		return false, ErrAuth
	case statusRateLimited:
		return false, ErrRateLimited
	case statusBadIndata, statusUnknownFailure:
		return false, fmt.Errorf("domainIsFree %s: %s", domainName, status)
	default:
		return false, fmt.Errorf("domainIsFree %s: unexpected status %q", domainName, status)
	}
}

// CallsThisWindow reports how many calls were made in the current rate window.
func (c *Client) CallsThisWindow() int {
	c.callsMutex.Lock()
	defer c.callsMutex.Unlock()
	return c.callsThisWindow
}
