package validacurp

import (
	"time"

	"github.com/multiservicios-web/valida-curp-go/pkg/httpclient"
)

// Logger is the logging surface the client writes request traces to.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Observer receives one notification per round trip. statusCode is 0 when the
// transport failed before an answer arrived.
type Observer interface {
	ObserveRequest(operation string, version, statusCode int, elapsed time.Duration)
}

// Option customises a Client.
type Option func(*Client)

// WithEndpoint replaces the default base URL for both API versions.
// The endpoint must end with a slash; method names are appended verbatim.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.customEndpoint = endpoint
	}
}

// WithHTTPClient sets the transport. A nil client keeps the default.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.transport = hc
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithObserver sets the round-trip observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

type noopObserver struct{}

func (noopObserver) ObserveRequest(string, int, int, time.Duration) {}
