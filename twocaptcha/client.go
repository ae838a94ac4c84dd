// Package twocaptcha solves challenges through the 2Captcha task API.
package twocaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/task"
	"github.com/anatolykoptev/go-captcha/transport"
)

// Client talks to the 2Captcha API. It implements task.Channel and is safe
// for concurrent use.
type Client struct {
	apiKey   string
	cfg      captcha.Config
	classify task.Classifier
}

var (
	_ task.Channel     = (*Client)(nil)
	_ captcha.Balancer = (*Client)(nil)
)

// NewClient creates a 2Captcha client with the given API key.
func NewClient(apiKey string, cfg captcha.Config) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("2captcha: empty API key")
	}
	cfg.ApplyDefaults(pollInterval)
	if cfg.Transport == nil {
		t, err := transport.NewStealth("")
		if err != nil {
			return nil, fmt.Errorf("2captcha transport: %w", err)
		}
		cfg.Transport = t
	}
	if cfg.CreateTaskURL == "" {
		cfg.CreateTaskURL = createTaskURL
	}
	if cfg.ResultURL == "" {
		cfg.ResultURL = resultURL
	}
	if cfg.BalanceURL == "" {
		cfg.BalanceURL = balanceURL
	}
	return &Client{
		apiKey:   apiKey,
		cfg:      cfg,
		classify: task.Classifier{Provider: providerName, Accept: task.Accept2xx},
	}, nil
}

type createResponse struct {
	ErrorID          int             `json:"errorId"`
	ErrorCode        string          `json:"errorCode"`
	ErrorDescription string          `json:"errorDescription"`
	TaskID           json.RawMessage `json:"taskId"`
}

type resultResponse struct {
	ErrorID          int              `json:"errorId"`
	ErrorCode        string           `json:"errorCode"`
	ErrorDescription string           `json:"errorDescription"`
	Status           string           `json:"status"`
	Solution         task.RawSolution `json:"solution"`
}

// Submit creates a task. 2Captcha always answers with a task id to poll.
func (c *Client) Submit(ctx context.Context, body task.Request) (task.Submission, error) {
	payload := map[string]any{
		keyClientKey: c.apiKey,
		keyTask:      body,
	}
	resp, err := c.cfg.Transport.PostJSON(ctx, c.cfg.CreateTaskURL, payload)
	if err != nil {
		return task.Submission{}, c.classify.TransportFailed(fmt.Errorf("createTask: %w", err))
	}

	var r createResponse
	if err := c.classify.Decode(resp, &r); err != nil {
		return task.Submission{}, err
	}
	if err := c.classify.Envelope(r.ErrorID, r.ErrorCode, r.ErrorDescription); err != nil {
		return task.Submission{}, err
	}
	h, err := task.NewHandle(r.TaskID)
	if err != nil {
		return task.Submission{}, c.classify.Rejected("createTask: %v", err)
	}
	return task.Submission{Handle: h}, nil
}

// Poll requests the result of a task.
func (c *Client) Poll(ctx context.Context, h task.Handle) (task.PollResult, error) {
	payload := map[string]any{
		keyClientKey: c.apiKey,
		keyTaskID:    h,
	}
	resp, err := c.cfg.Transport.PostJSON(ctx, c.cfg.ResultURL, payload)
	if err != nil {
		return task.PollResult{}, c.classify.TransportFailed(fmt.Errorf("getTaskResult: %w", err))
	}

	var r resultResponse
	if err := c.classify.Decode(resp, &r); err != nil {
		return task.PollResult{}, err
	}
	if err := c.classify.Envelope(r.ErrorID, r.ErrorCode, r.ErrorDescription); err != nil {
		return task.PollResult{}, err
	}

	switch r.Status {
	case statusProcessing:
		return task.PollResult{Status: task.StatusProcessing}, nil
	case statusReady:
		return task.PollResult{Status: task.StatusReady, Solution: r.Solution}, nil
	}
	return task.PollResult{}, c.classify.Rejected("task %s: unexpected status %q", h, r.Status)
}

// Balance returns the 2Captcha account balance in USD.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	resp, err := c.cfg.Transport.PostJSON(ctx, c.cfg.BalanceURL, map[string]any{keyClientKey: c.apiKey})
	if err != nil {
		return 0, c.classify.TransportFailed(fmt.Errorf("getBalance: %w", err))
	}
	var r struct {
		ErrorID          int     `json:"errorId"`
		ErrorCode        string  `json:"errorCode"`
		ErrorDescription string  `json:"errorDescription"`
		Balance          float64 `json:"balance"`
	}
	if err := c.classify.Decode(resp, &r); err != nil {
		return 0, err
	}
	if err := c.classify.Envelope(r.ErrorID, r.ErrorCode, r.ErrorDescription); err != nil {
		return 0, err
	}
	return r.Balance, nil
}

// solve runs body through the polling loop.
func (c *Client) solve(ctx context.Context, challenge captcha.Challenge, body task.Request) (task.Outcome, error) {
	c.warnLowBalance(ctx)
	loop := &task.Loop{
		Channel:   c,
		Policy:    task.PolicyFromConfig(c.cfg),
		Hook:      c.cfg.Hook,
		Provider:  providerName,
		Challenge: challenge,
	}
	return loop.Run(ctx, body)
}

func (c *Client) warnLowBalance(ctx context.Context) {
	if c.cfg.BalanceWarnLevel <= 0 {
		return
	}
	bal, err := c.Balance(ctx)
	if err != nil {
		slog.Warn("2Captcha balance check failed", slog.Any("error", err))
		return
	}
	if bal < c.cfg.BalanceWarnLevel {
		slog.Warn("2Captcha balance low", slog.Float64("balance", bal))
	}
}

// baseTask returns the fields every 2Captcha task carries.
func baseTask(taskType, websiteURL string) task.Request {
	return task.Request{
		keyType:       taskType,
		keyWebsiteURL: websiteURL,
	}
}
