// Package transport provides captcha.Transport implementations.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	stealth "github.com/anatolykoptev/go-stealth"

	captcha "github.com/anatolykoptev/go-captcha"
)

// defaultUserAgent identifies API calls to solving providers.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// apiHeaderOrder is the header order used for provider API calls.
var apiHeaderOrder = []string{
	"content-type",
	"accept",
	"user-agent",
	"accept-encoding",
}

func apiHeaders() map[string]string {
	return map[string]string{
		"content-type":    "application/json",
		"accept":          "application/json",
		"user-agent":      defaultUserAgent,
		"accept-encoding": "gzip, deflate, br",
	}
}

// Stealth sends provider requests through a go-stealth browser client.
type Stealth struct {
	client *stealth.BrowserClient
}

var _ captcha.Transport = (*Stealth)(nil)

// NewStealth creates a Stealth transport. proxyURL routes the provider API
// calls themselves through a proxy; it is unrelated to the proxy a task is
// solved through. Empty means direct.
func NewStealth(proxyURL string) (*Stealth, error) {
	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(apiHeaderOrder),
	}
	if proxyURL != "" {
		opts = append(opts, stealth.WithProxy(proxyURL))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return &Stealth{client: bc}, nil
}

// PostJSON implements captcha.Transport. The browser client has no context
// support, so a canceled ctx abandons the in-flight call and returns at once.
func (s *Stealth) PostJSON(ctx context.Context, url string, payload any) (captcha.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return captcha.Response{}, fmt.Errorf("marshal payload: %w", err)
	}

	return await(ctx, func() (captcha.Response, error) {
		body, _, status, err := s.client.DoWithHeaderOrder("POST", url, apiHeaders(), bytes.NewReader(data), apiHeaderOrder)
		if err != nil {
			return captcha.Response{}, err
		}
		return captcha.Response{StatusCode: status, Body: body}, nil
	})
}

type result struct {
	resp captcha.Response
	err  error
}

// await runs call in its own goroutine so a canceled ctx returns immediately.
func await(ctx context.Context, call func() (captcha.Response, error)) (captcha.Response, error) {
	if err := ctx.Err(); err != nil {
		return captcha.Response{}, err
	}
	done := make(chan result, 1)
	go func() {
		resp, err := call()
		done <- result{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		return captcha.Response{}, ctx.Err()
	}
}
