package task

import (
	"encoding/json"
	"fmt"
	"strconv"

	captcha "github.com/anatolykoptev/go-captcha"
)

// StatusBand reports whether an HTTP status carries a provider envelope worth decoding.
type StatusBand func(status int) bool

// Accept2xx accepts 200-299.
func Accept2xx(status int) bool {
	return status >= 200 && status <= 299
}

// Accept2xxOr400 accepts 200-299 and 400. Some providers answer 400 with a
// regular JSON envelope whose errorId carries the real outcome.
func Accept2xxOr400(status int) bool {
	return Accept2xx(status) || status == 400
}

// Classifier turns provider responses into *captcha.Error values.
type Classifier struct {
	Provider string
	Accept   StatusBand
}

// Decode checks the status band of resp and unmarshals its body into v.
func (c Classifier) Decode(resp captcha.Response, v any) error {
	if !c.Accept(resp.StatusCode) {
		return &captcha.Error{
			Kind:     captcha.KindRequestFailed,
			Provider: c.Provider,
			Status:   resp.StatusCode,
			Message:  truncateBytes(resp.Body, 200),
		}
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &captcha.Error{
			Kind:     captcha.KindTransportFailed,
			Provider: c.Provider,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// Envelope checks the errorId of a decoded response. Zero is success.
func (c Classifier) Envelope(errorID int, code, description string) error {
	if errorID == 0 {
		return nil
	}
	if code == "" {
		code = "errorId " + strconv.Itoa(errorID)
	}
	return &captcha.Error{
		Kind:     captcha.KindRequestFailed,
		Provider: c.Provider,
		Code:     code,
		Message:  description,
	}
}

// Rejected reports a provider response that is well-formed but unusable.
func (c Classifier) Rejected(format string, args ...any) error {
	return &captcha.Error{
		Kind:     captcha.KindRequestFailed,
		Provider: c.Provider,
		Message:  fmt.Sprintf(format, args...),
	}
}

// TransportFailed wraps an error from the transport.
func (c Classifier) TransportFailed(err error) error {
	return &captcha.Error{
		Kind:     captcha.KindTransportFailed,
		Provider: c.Provider,
		Err:      err,
	}
}

// Malformed wraps a normalizer failure.
func (c Classifier) Malformed(challenge captcha.Challenge, err error) error {
	return &captcha.Error{
		Kind:      captcha.KindMalformedSolution,
		Provider:  c.Provider,
		Challenge: challenge,
		Err:       err,
	}
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
