// Package task implements the provider-independent task lifecycle: the
// submit/poll channel contract, response classification and the polling loop.
package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Request is a provider task body. Keys vary by provider and challenge kind.
type Request map[string]any

// Merge copies every entry of other into r.
func (r Request) Merge(other Request) {
	for k, v := range other {
		r[k] = v
	}
}

// Handle identifies a submitted task. It keeps the provider's JSON token so
// integer and string task ids are sent back exactly as received.
type Handle struct {
	raw json.RawMessage
}

// NewHandle wraps a raw JSON taskId. Null, empty and "" ids are rejected.
func NewHandle(raw json.RawMessage) (Handle, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" || string(trimmed) == `""` {
		return Handle{}, fmt.Errorf("empty taskId")
	}
	return Handle{raw: append(json.RawMessage(nil), trimmed...)}, nil
}

// StringHandle returns a handle for a string task id. Channel
// implementations outside this module use it to build handles.
func StringHandle(id string) Handle {
	b, _ := json.Marshal(id)
	return Handle{raw: b}
}

// IntHandle returns a handle for an integer task id. Channel
// implementations outside this module use it to build handles.
func IntHandle(id int64) Handle {
	return Handle{raw: json.RawMessage(strconv.FormatInt(id, 10))}
}

// IsZero reports whether h holds no id.
func (h Handle) IsZero() bool { return len(h.raw) == 0 }

// String returns the id without JSON quoting.
func (h Handle) String() string {
	var s string
	if json.Unmarshal(h.raw, &s) == nil {
		return s
	}
	return string(h.raw)
}

// MarshalJSON emits the id as the provider sent it.
func (h Handle) MarshalJSON() ([]byte, error) {
	if h.IsZero() {
		return []byte("null"), nil
	}
	return h.raw, nil
}

// Submission is the outcome of a successful submit: either a handle to poll,
// or a solution the provider returned synchronously.
type Submission struct {
	Handle   Handle
	Solution RawSolution
}

// Status is the state of a polled task.
type Status int

const (
	StatusProcessing Status = iota
	StatusReady
)

// PollResult is the outcome of a successful poll. Solution is set only when
// Status is StatusReady, and may still be nil if the provider omitted it.
type PollResult struct {
	Status   Status
	Solution RawSolution
}

// Channel submits tasks to one provider and retrieves their results.
// Failures are *captcha.Error values of kind KindRequestFailed or
// KindTransportFailed. Implementations hold no per-task state.
type Channel interface {
	Submit(ctx context.Context, body Request) (Submission, error)
	Poll(ctx context.Context, h Handle) (PollResult, error)
}
