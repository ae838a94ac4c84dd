// Package capsolver solves challenges through the CapSolver task API.
package capsolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/task"
	"github.com/anatolykoptev/go-captcha/transport"
)

// Client talks to the CapSolver API. It implements task.Channel and is safe
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

// NewClient creates a CapSolver client with the given API key.
func NewClient(apiKey string, cfg captcha.Config) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("capsolver: empty API key")
	}
	cfg.ApplyDefaults(pollInterval)
	if cfg.Transport == nil {
		t, err := transport.NewStealth("")
		if err != nil {
			return nil, fmt.Errorf("capsolver transport: %w", err)
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
		apiKey: apiKey,
		cfg:    cfg,
		// CapSolver reports task errors with HTTP 400 and a regular envelope.
		classify: task.Classifier{Provider: providerName, Accept: task.Accept2xxOr400},
	}, nil
}

type envelope struct {
	ErrorID          int              `json:"errorId"`
	ErrorCode        string           `json:"errorCode"`
	ErrorDescription string           `json:"errorDescription"`
	TaskID           json.RawMessage  `json:"taskId"`
	Status           string           `json:"status"`
	Solution         task.RawSolution `json:"solution"`
}

// Submit creates a task. Tasks CapSolver recognizes instantly (image to
// text) come back with the solution already attached.
func (c *Client) Submit(ctx context.Context, body task.Request) (task.Submission, error) {
	payload := map[string]any{
		keyClientKey: c.apiKey,
		keyTask:      body,
	}
	resp, err := c.cfg.Transport.PostJSON(ctx, c.cfg.CreateTaskURL, payload)
	if err != nil {
		return task.Submission{}, c.classify.TransportFailed(fmt.Errorf("createTask: %w", err))
	}

	var r envelope
	if err := c.classify.Decode(resp, &r); err != nil {
		return task.Submission{}, err
	}
	if err := c.classify.Envelope(r.ErrorID, r.ErrorCode, r.ErrorDescription); err != nil {
		return task.Submission{}, err
	}

	h, handleErr := task.NewHandle(r.TaskID)
	if r.Status == statusReady && r.Solution != nil {
		return task.Submission{Handle: h, Solution: r.Solution}, nil
	}
	if handleErr != nil {
		return task.Submission{}, c.classify.Rejected("createTask: %v", handleErr)
	}
	return task.Submission{Handle: h}, nil
}

// Poll requests the result of a task. Any status other than ready or failed
// ("idle", "processing") means the task is still being worked on.
func (c *Client) Poll(ctx context.Context, h task.Handle) (task.PollResult, error) {
	payload := map[string]any{
		keyClientKey: c.apiKey,
		keyTaskID:    h,
	}
	resp, err := c.cfg.Transport.PostJSON(ctx, c.cfg.ResultURL, payload)
	if err != nil {
		return task.PollResult{}, c.classify.TransportFailed(fmt.Errorf("getTaskResult: %w", err))
	}

	var r envelope
	if err := c.classify.Decode(resp, &r); err != nil {
		return task.PollResult{}, err
	}
	if err := c.classify.Envelope(r.ErrorID, r.ErrorCode, r.ErrorDescription); err != nil {
		return task.PollResult{}, err
	}

	switch r.Status {
	case statusReady:
		return task.PollResult{Status: task.StatusReady, Solution: r.Solution}, nil
	case statusFailed:
		return task.PollResult{}, c.classify.Rejected("task %s failed", h)
	}
	return task.PollResult{Status: task.StatusProcessing}, nil
}

// Balance returns the CapSolver account balance in USD.
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

// warnLowBalance checks the balance before a solve when enabled.
func (c *Client) warnLowBalance(ctx context.Context) {
	level := c.cfg.BalanceWarnLevel
	if level <= 0 {
		return
	}
	bal, err := c.Balance(ctx)
	if err != nil {
		slog.Warn("Capsolver balance check failed", slog.Any("error", err))
		return
	}
	if bal < level {
		slog.Warn("Capsolver balance low", slog.Float64("balance", bal))
	}
}

// baseTask returns the fields every CapSolver task carries.
func baseTask(taskType, websiteURL string) task.Request {
	return task.Request{
		keyType:       taskType,
		keyWebsiteURL: websiteURL,
	}
}
