package publishers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Event is the payload published downstream for one batch lookup.
type Event struct {
	ID          string          `json:"id"`
	Operation   string          `json:"operation"`
	APIVersion  int             `json:"api_version"`
	CURP        string          `json:"curp,omitempty"`
	Input       any             `json:"input,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
	Error       string          `json:"error,omitempty"`
	RequestedAt time.Time       `json:"requested_at"`
}

// NewEvent builds an Event for a finished lookup. A non-nil err is recorded
// in Error and the response is dropped.
func NewEvent(operation string, apiVersion int, curp string, input any, response json.RawMessage, err error) Event {
	evt := Event{
		ID:          uuid.NewString(),
		Operation:   operation,
		APIVersion:  apiVersion,
		CURP:        curp,
		Input:       input,
		RequestedAt: time.Now().UTC(),
	}
	if err != nil {
		evt.Error = err.Error()
		return evt
	}
	evt.Response = response
	return evt
}

// Failed reports whether the lookup behind the event failed.
func (e Event) Failed() bool { return e.Error != "" }

// attributes returns the routing attributes sinks attach to the message.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"operation":   e.Operation,
		"api_version": strconv.Itoa(e.APIVersion),
		"outcome":     outcome(e),
	}
}

func outcome(e Event) string {
	if e.Failed() {
		return "error"
	}
	return "ok"
}
