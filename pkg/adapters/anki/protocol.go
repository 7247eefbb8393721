package anki

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/vaultdeck/pkg/core"
)

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Key     string `json:"key,omitempty"`
	Params  any    `json:"params,omitempty"`
}

func newRequest(a Action, key string) request {
	return request{Action: a.Name(), Version: Version, Key: key, Params: a.Params()}
}

// APIError is a failure reported by AnkiConnect, or a response that does
// not follow the protocol. It matches core.ErrRemote with errors.Is.
type APIError struct {
	Action     string
	StatusCode int // set for HTTP level failures
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("anki: %s: HTTP %d: %s", e.Action, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("anki: %s: %s", e.Action, e.Message)
}

func (e *APIError) Unwrap() error {
	return core.ErrRemote
}

// parse extracts the result of a response envelope. The envelope must hold
// exactly the result and error fields, and error must be null.
func parse(action string, body []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &APIError{Action: action, Message: fmt.Sprintf("invalid response: %v", err)}
	}

	errRaw, ok := fields["error"]
	if !ok {
		return nil, &APIError{Action: action, Message: "response is missing required error field"}
	}
	result, ok := fields["result"]
	if !ok {
		return nil, &APIError{Action: action, Message: "response is missing required result field"}
	}
	if len(fields) != 2 {
		return nil, &APIError{Action: action, Message: "response has an unexpected number of fields"}
	}

	if string(errRaw) != "null" {
		var msg string
		if err := json.Unmarshal(errRaw, &msg); err != nil {
			msg = string(errRaw)
		}
		return nil, &APIError{Action: action, Message: msg}
	}
	return result, nil
}

func decode[T any](action string, raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &APIError{Action: action, Message: fmt.Sprintf("unexpected result: %v", err)}
	}
	return v, nil
}
