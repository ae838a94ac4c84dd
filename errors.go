package captcha

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a solve failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindRequestFailed is a definitive provider rejection.
	KindRequestFailed
	// KindTransportFailed means the HTTP exchange itself did not complete.
	KindTransportFailed
	// KindMalformedSolution means a ready solution lacked a required field.
	KindMalformedSolution
	// KindCanceled means the caller's context ended or the solve timeout elapsed.
	KindCanceled
	// KindExhausted means a configured poll or resubmission budget ran out.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindRequestFailed:
		return "request failed"
	case KindTransportFailed:
		return "transport failed"
	case KindMalformedSolution:
		return "malformed solution"
	case KindCanceled:
		return "canceled"
	case KindExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrRequestFailed     = errors.New("captcha: request failed")
	ErrTransportFailed   = errors.New("captcha: transport failed")
	ErrMalformedSolution = errors.New("captcha: malformed solution")
	ErrCanceled          = errors.New("captcha: canceled")
	ErrExhausted         = errors.New("captcha: retry budget exhausted")
)

var kindSentinels = map[Kind]error{
	KindRequestFailed:     ErrRequestFailed,
	KindTransportFailed:   ErrTransportFailed,
	KindMalformedSolution: ErrMalformedSolution,
	KindCanceled:          ErrCanceled,
	KindExhausted:         ErrExhausted,
}

// Error is the typed failure returned by every solver.
type Error struct {
	Kind      Kind
	Provider  string
	Challenge Challenge

	// Code and Message are the provider's own error code and description, when reported.
	Code    string
	Message string

	// Status is the HTTP status code, when the failure came from an HTTP response.
	Status int

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.Challenge != "" {
		b.WriteString(" ")
		b.WriteString(string(e.Challenge))
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Code != "" {
		b.WriteString(" ")
		b.WriteString(e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
