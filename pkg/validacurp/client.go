package validacurp

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/multiservicios-web/valida-curp-go/pkg/httpclient"
)

const (
	// EndpointV1 is the base URL of the deprecated version 1 API.
	EndpointV1 = "https://api.valida-curp.com.mx/curp/"
	// EndpointV2 is the base URL of the version 2 API.
	EndpointV2 = "https://version.valida-curp.com.mx/api/v2/curp/"

	// DefaultVersion is the API version a new Client talks to.
	DefaultVersion = 2

	// Library and LibraryVersion identify this client on every request.
	Library        = "go_module"
	LibraryVersion = "1.0.0"
)

// Client calls the valida-curp API. It is safe for concurrent use.
type Client struct {
	mu             sync.RWMutex
	token          string
	customEndpoint string
	endpoint       string
	api            api

	transport httpclient.Client
	log       Logger
	observer  Observer
}

// New returns a client for token. An empty token is accepted here and
// reported by the first operation instead.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:     token,
		transport: httpclient.NewRestyClient(0),
		log:       noopLogger{},
		observer:  noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.use(apis[DefaultVersion])
	return c
}

// Version returns the active API version.
func (c *Client) Version() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.api.version()
}

// SetVersion switches the API version. Only 1 and 2 are accepted.
// Version 1 is deprecated.
func (c *Client) SetVersion(version int) error {
	a, ok := apis[version]
	if !ok {
		return errInvalidVersion
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.use(a)
	return nil
}

// use activates a; callers hold the write lock or own c exclusively.
func (c *Client) use(a api) {
	c.api = a
	c.endpoint = a.defaultEndpoint()
	if c.customEndpoint != "" {
		c.endpoint = c.customEndpoint
	}
}

// Endpoint returns the active base URL.
func (c *Client) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// Token returns the configured token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// IsValid validates the structure of curp.
func (c *Client) IsValid(ctx context.Context, curp string) (json.RawMessage, error) {
	a, r, err := c.begin()
	if err != nil {
		return nil, err
	}
	return a.isValid(ctx, r, curp)
}

// GetData looks up the registry data of curp.
func (c *Client) GetData(ctx context.Context, curp string) (json.RawMessage, error) {
	a, r, err := c.begin()
	if err != nil {
		return nil, err
	}
	return a.getData(ctx, r, curp)
}

// Calculate computes a CURP from personal data. Every input field is
// required; a missing one fails with a *ValidationError before any request.
func (c *Client) Calculate(ctx context.Context, in CalculationInput) (json.RawMessage, error) {
	a, r, err := c.begin()
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return a.calculate(ctx, r, in)
}

// GetEntities lists the federal entities accepted by Calculate.
func (c *Client) GetEntities(ctx context.Context) (json.RawMessage, error) {
	a, r, err := c.begin()
	if err != nil {
		return nil, err
	}
	return a.getEntities(ctx, r)
}

// begin snapshots the configuration for one call and checks the token.
func (c *Client) begin() (api, *requester, error) {
	c.mu.RLock()
	snap := snapshot{token: c.token, endpoint: c.endpoint, version: c.api.version()}
	a := c.api
	c.mu.RUnlock()

	if snap.token == "" {
		return nil, nil, errTokenNotSet
	}
	return a, &requester{
		snap:      snap,
		transport: c.transport,
		log:       c.log,
		observer:  c.observer,
	}, nil
}
