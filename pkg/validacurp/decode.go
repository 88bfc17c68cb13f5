package validacurp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/multiservicios-web/valida-curp-go/pkg/httpclient"
)

// errorFields names the envelope field carrying the remote error text, per API version.
var errorFields = map[int]string{
	1: "error_message",
	2: "msn",
}

var errMissingPayload = errors.New("response envelope has no response field")

type envelope struct {
	Response json.RawMessage `json:"response"`
}

// decodeResponse unwraps the envelope of a successful answer or maps the
// status code to one of the package errors.
func decodeResponse(version int, resp httpclient.Response) (json.RawMessage, error) {
	switch code := resp.StatusCode(); code {
	case http.StatusOK:
		var env envelope
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			return nil, fmt.Errorf("decode response envelope: %w", err)
		}
		if len(env.Response) == 0 || string(env.Response) == "null" {
			return nil, fmt.Errorf("%w: %w", ErrRequest, errMissingPayload)
		}
		return env.Response, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrAuthentication, remoteMessage(version, resp))
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, remoteMessage(version, resp))
	default:
		return nil, fmt.Errorf("%w: %s", ErrRequest, httpclient.ReasonPhrase(resp))
	}
}

// remoteMessage reads the version's error field from the body. Bodies that are
// not an envelope fall back to their trimmed text, then to the reason phrase.
func remoteMessage(version int, resp httpclient.Response) string {
	body := resp.Body()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		if raw, ok := fields[errorFields[version]]; ok {
			var msg string
			if err := json.Unmarshal(raw, &msg); err == nil {
				return msg
			}
			return strings.TrimSpace(string(raw))
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 512 {
		return text
	}
	return httpclient.ReasonPhrase(resp)
}
