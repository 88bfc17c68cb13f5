package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options tunes the resty-backed transport.
type Options struct {
	Timeout time.Duration
	// FailOnClientError makes 4xx responses surface as *StatusError.
	FailOnClientError bool
	UserAgent         string
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client            *resty.Client
	failOnClientError bool
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return NewRestyClientWithOptions(Options{Timeout: timeout})
}

// NewRestyClientWithOptions creates a RestyClient from the given options.
func NewRestyClientWithOptions(opts Options) *RestyClient {
	c := newRestyBaseClient(opts.Timeout)
	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}
	return &RestyClient{client: c, failOnClientError: opts.FailOnClientError}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.do(ctx, http.MethodGet, url, headers, nil)
}

// Post performs an HTTP POST request with a JSON body.
func (r *RestyClient) Post(ctx context.Context, url string, headers map[string]string, body any) (Response, error) {
	merged := make(map[string]string, len(headers)+1)
	merged["Content-Type"] = "application/json"
	for k, v := range headers {
		merged[k] = v
	}
	return r.do(ctx, http.MethodPost, url, merged, body)
}

func (r *RestyClient) do(ctx context.Context, method, url string, headers map[string]string, body any) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	adapted := &restyResponseAdapter{resp: resp}
	if r.failOnClientError && resp.StatusCode() >= http.StatusBadRequest && resp.StatusCode() < http.StatusInternalServerError {
		return nil, &StatusError{Response: adapted}
	}
	return adapted, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Status() string  { return r.resp.Status() }
