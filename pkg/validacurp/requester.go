package validacurp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/multiservicios-web/valida-curp-go/pkg/httpclient"
)

// Operation names, as reported to loggers and observers.
const (
	opIsValid     = "isValid"
	opGetData     = "getData"
	opCalculate   = "calculate"
	opGetEntities = "getEntities"
)

// snapshot is the configuration read once at the start of a call.
type snapshot struct {
	token    string
	endpoint string
	version  int
}

// requester performs a single round trip for one call.
type requester struct {
	snap      snapshot
	transport httpclient.Client
	log       Logger
	observer  Observer
}

func (r *requester) get(ctx context.Context, op, method, curp string, extra []param) (json.RawMessage, error) {
	url := legacyURL(r.snap, method, curp, extra)
	return r.do(op, method, func() (httpclient.Response, error) {
		return r.transport.Get(ctx, url, nil)
	})
}

func (r *requester) post(ctx context.Context, op, method, curp string, extra []param) (json.RawMessage, error) {
	url := jsonURL(r.snap, method)
	body := jsonBody(r.snap, curp, extra)
	return r.do(op, method, func() (httpclient.Response, error) {
		return r.transport.Post(ctx, url, nil, body)
	})
}

func (r *requester) do(op, method string, send func() (httpclient.Response, error)) (json.RawMessage, error) {
	r.log.DebugObj("validacurp request", "validacurp_request", map[string]any{
		"operation":   op,
		"method":      method,
		"endpoint":    r.snap.endpoint,
		"api_version": r.snap.version,
	})

	start := time.Now()
	resp, err := send()
	if err != nil {
		var statusErr *httpclient.StatusError
		if !errors.As(err, &statusErr) || statusErr.Response == nil {
			r.observer.ObserveRequest(op, r.snap.version, 0, time.Since(start))
			r.log.WarnObj("validacurp transport failed", "validacurp_error", map[string]any{
				"operation": op,
				"error":     err.Error(),
			})
			return nil, fmt.Errorf("%s request: %w", method, err)
		}
		resp = statusErr.Response
	}
	r.observer.ObserveRequest(op, r.snap.version, resp.StatusCode(), time.Since(start))

	payload, err := decodeResponse(r.snap.version, resp)
	if err != nil {
		r.log.DebugObj("validacurp request rejected", "validacurp_error", map[string]any{
			"operation": op,
			"status":    resp.StatusCode(),
			"error":     err.Error(),
		})
		return nil, err
	}
	return payload, nil
}
