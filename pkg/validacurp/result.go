package validacurp

import (
	"encoding/json"
	"fmt"
)

// StructureResult is the answer of IsValid.
type StructureResult struct {
	CURP    string `json:"curp"`
	IsValid bool   `json:"isValid"`
}

// Decode unmarshals an operation result into T. It is meant to wrap a call
// directly: Decode[StructureResult](client.IsValid(ctx, curp)).
func Decode[T any](raw json.RawMessage, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}
