package validacurp

import (
	"net/url"
	"strconv"
	"strings"
)

// param is a single query or body entry. Order is preserved on the wire.
type param struct {
	key   string
	value string
}

// credentials returns the token plus an optional curp.
func credentials(token, curp string) []param {
	out := []param{{key: "token", value: token}}
	if curp != "" {
		out = append(out, param{key: "curp", value: curp})
	}
	return out
}

// identification names this library to the remote API.
func identification(version int) []param {
	return []param{
		{key: "library", value: Library},
		{key: "library_version", value: LibraryVersion},
		{key: "api_version", value: strconv.Itoa(version)},
	}
}

// encodeQuery renders params in order, form-encoded.
func encodeQuery(params []param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// legacyURL builds a version 1 URL: every parameter travels in the query string.
func legacyURL(s snapshot, method, curp string, extra []param) string {
	params := credentials(s.token, curp)
	params = append(params, extra...)
	params = append(params, identification(s.version)...)
	return s.endpoint + method + "?" + encodeQuery(params)
}

// jsonURL builds a version 2 URL: only identification travels in the query string.
func jsonURL(s snapshot, method string) string {
	return s.endpoint + method + "?" + encodeQuery(identification(s.version))
}

// jsonBody builds a version 2 request body.
func jsonBody(s snapshot, curp string, extra []param) map[string]string {
	params := credentials(s.token, curp)
	params = append(params, extra...)
	body := make(map[string]string, len(params))
	for _, p := range params {
		body[p.key] = p.value
	}
	return body
}
