package validacurp

import (
	"context"
	"encoding/json"
)

// api is the capability set shared by both API versions. Each version decides
// the remote method names and how a request is shaped.
type api interface {
	version() int
	defaultEndpoint() string
	isValid(ctx context.Context, r *requester, curp string) (json.RawMessage, error)
	getData(ctx context.Context, r *requester, curp string) (json.RawMessage, error)
	calculate(ctx context.Context, r *requester, in CalculationInput) (json.RawMessage, error)
	getEntities(ctx context.Context, r *requester) (json.RawMessage, error)
}

var apis = map[int]api{
	1: apiV1{},
	2: apiV2{},
}

// apiV1 is the deprecated GET API. Calculation data uses Spanish keys.
type apiV1 struct{}

func (apiV1) version() int            { return 1 }
func (apiV1) defaultEndpoint() string { return EndpointV1 }

func (apiV1) isValid(ctx context.Context, r *requester, curp string) (json.RawMessage, error) {
	return r.get(ctx, opIsValid, "validar", curp, nil)
}

func (apiV1) getData(ctx context.Context, r *requester, curp string) (json.RawMessage, error) {
	return r.get(ctx, opGetData, "obtener_datos", curp, nil)
}

func (apiV1) calculate(ctx context.Context, r *requester, in CalculationInput) (json.RawMessage, error) {
	return r.get(ctx, opCalculate, "calcular_curp", "", in.legacyParams())
}

func (apiV1) getEntities(ctx context.Context, r *requester) (json.RawMessage, error) {
	return r.get(ctx, opGetEntities, "entidades", "", nil)
}

// apiV2 is the current POST/JSON API.
type apiV2 struct{}

func (apiV2) version() int            { return 2 }
func (apiV2) defaultEndpoint() string { return EndpointV2 }

func (apiV2) isValid(ctx context.Context, r *requester, curp string) (json.RawMessage, error) {
	return r.post(ctx, opIsValid, "validateCurpStructure", curp, nil)
}

func (apiV2) getData(ctx context.Context, r *requester, curp string) (json.RawMessage, error) {
	return r.post(ctx, opGetData, "getData", curp, nil)
}

func (apiV2) calculate(ctx context.Context, r *requester, in CalculationInput) (json.RawMessage, error) {
	return r.post(ctx, opCalculate, "calculateCURP", "", in.params())
}

func (apiV2) getEntities(ctx context.Context, r *requester) (json.RawMessage, error) {
	return r.post(ctx, opGetEntities, "getEntities", "", nil)
}
