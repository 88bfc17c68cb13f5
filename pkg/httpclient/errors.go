package httpclient

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// StatusError is returned by transports that treat client-error responses as failures.
// The response is attached so callers can still inspect the body.
type StatusError struct {
	Response Response
}

func (e *StatusError) Error() string {
	if e == nil || e.Response == nil {
		return "http client error"
	}
	return fmt.Sprintf("http client error: %s", ReasonPhrase(e.Response))
}

// ReasonPhrase extracts the reason phrase ("Not Found") from a response status.
func ReasonPhrase(resp Response) string {
	if resp == nil {
		return ""
	}
	status := strings.TrimSpace(resp.Status())
	if code, phrase, ok := strings.Cut(status, " "); ok && code == strconv.Itoa(resp.StatusCode()) {
		if phrase = strings.TrimSpace(phrase); phrase != "" {
			return phrase
		}
	}
	if status != "" && status != strconv.Itoa(resp.StatusCode()) {
		return status
	}
	return http.StatusText(resp.StatusCode())
}
