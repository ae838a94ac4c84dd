package captcha

import "net/http"

// TokenResult is the solved token of an interactive puzzle (FunCaptcha / Arkose).
type TokenResult struct {
	token string
}

// NewTokenResult creates a TokenResult.
func NewTokenResult(token string) *TokenResult {
	return &TokenResult{token: token}
}

// Token returns the solved token.
func (r *TokenResult) Token() string { return r.token }

// VerificationResult is the response pair of a human-verification challenge (hCaptcha).
type VerificationResult struct {
	responseKey string
	requestKey  string
	userAgent   string
}

// NewVerificationResult creates a VerificationResult.
func NewVerificationResult(responseKey, requestKey, userAgent string) *VerificationResult {
	return &VerificationResult{
		responseKey: responseKey,
		requestKey:  requestKey,
		userAgent:   userAgent,
	}
}

// ResponseKey returns the challenge response token submitted to the target site.
func (r *VerificationResult) ResponseKey() string { return r.responseKey }

// RequestKey returns the provider's request key (respKey).
func (r *VerificationResult) RequestKey() string { return r.requestKey }

// UserAgent returns the browser identity the solution was produced with.
func (r *VerificationResult) UserAgent() string { return r.userAgent }

// UserAgentHeader returns request headers carrying the solver's user agent,
// so follow-up requests present the identity the token is bound to.
func (r *VerificationResult) UserAgentHeader() http.Header {
	return userAgentHeader(r.userAgent)
}

// ImageTextResult is the recognized text of an image challenge.
type ImageTextResult struct {
	text       string
	taskID     string
	confidence string
}

// NewImageTextResult creates an ImageTextResult. Empty taskID or confidence mean "not reported".
func NewImageTextResult(text, taskID, confidence string) *ImageTextResult {
	return &ImageTextResult{text: text, taskID: taskID, confidence: confidence}
}

// Text returns the recognized text.
func (r *ImageTextResult) Text() string { return r.text }

// TaskID returns the provider task id, if the provider reported one.
func (r *ImageTextResult) TaskID() (string, bool) { return r.taskID, r.taskID != "" }

// Confidence returns the provider's confidence, if reported.
func (r *ImageTextResult) Confidence() (string, bool) { return r.confidence, r.confidence != "" }
