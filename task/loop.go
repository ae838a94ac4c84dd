package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/google/uuid"

	captcha "github.com/anatolykoptev/go-captcha"
)

// Policy bounds the polling loop. Zero limits mean unbounded.
type Policy struct {
	Interval         time.Duration
	Timeout          time.Duration
	MaxPolls         int
	MaxResubmits     int
	TransportRetries int
	TransportBackoff stealth.BackoffConfig
}

// PolicyFromConfig extracts the loop policy from a client config.
func PolicyFromConfig(cfg captcha.Config) Policy {
	return Policy{
		Interval:         cfg.PollInterval,
		Timeout:          cfg.Timeout,
		MaxPolls:         cfg.MaxPolls,
		MaxResubmits:     cfg.MaxResubmits,
		TransportRetries: cfg.TransportRetries,
		TransportBackoff: cfg.TransportBackoff,
	}
}

// Loop drives a task to completion over a Channel.
//
// A task that is still processing is polled again after Policy.Interval.
// A task the provider rejects is abandoned and a new one is submitted, since
// failed tasks cannot be resumed. Transport failures and submission failures
// are returned to the caller.
type Loop struct {
	Channel   Channel
	Policy    Policy
	Hook      captcha.Hook
	Provider  string
	Challenge captcha.Challenge
}

// Outcome is a completed task: its solution and the handle of the task that produced it.
type Outcome struct {
	Solution RawSolution
	Handle   Handle
}

// Run submits body and returns the solved task.
func (l *Loop) Run(ctx context.Context, body Request) (Outcome, error) {
	if l.Policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Policy.Timeout)
		defer cancel()
	}

	solveID := uuid.NewString()
	var lastErr error
	for attempt := 1; ; attempt++ {
		if l.Policy.MaxResubmits > 0 && attempt > l.Policy.MaxResubmits+1 {
			return Outcome{}, lastErr
		}
		if err := ctx.Err(); err != nil {
			return Outcome{}, l.canceled(err)
		}

		sub, err := withTransportRetry(ctx, l, func() (Submission, error) {
			return l.Channel.Submit(ctx, body)
		})
		if err != nil {
			return Outcome{}, l.stamp(err)
		}
		if sub.Solution != nil {
			l.emit(captcha.Event{Type: captcha.EventTaskSolved, SolveID: solveID, TaskID: sub.Handle.String(), Attempt: attempt})
			return Outcome{Solution: sub.Solution, Handle: sub.Handle}, nil
		}
		if sub.Handle.IsZero() {
			return Outcome{}, l.stamp(&captcha.Error{Kind: captcha.KindRequestFailed, Message: "response carried neither taskId nor solution"})
		}

		taskID := sub.Handle.String()
		l.emit(captcha.Event{Type: captcha.EventTaskCreated, SolveID: solveID, TaskID: taskID, Attempt: attempt})

		solution, polls, err := l.await(ctx, solveID, attempt, sub.Handle)
		if err == nil {
			l.emit(captcha.Event{Type: captcha.EventTaskSolved, SolveID: solveID, TaskID: taskID, Attempt: attempt, Polls: polls})
			return Outcome{Solution: solution, Handle: sub.Handle}, nil
		}
		if captcha.KindOf(err) != captcha.KindRequestFailed {
			return Outcome{}, err
		}
		l.emit(captcha.Event{Type: captcha.EventTaskFailed, SolveID: solveID, TaskID: taskID, Attempt: attempt, Polls: polls, Err: err})
		lastErr = err
	}
}

// await polls h until it is ready or fails. It returns the number of polls made.
func (l *Loop) await(ctx context.Context, solveID string, attempt int, h Handle) (RawSolution, int, error) {
	polls := 0
	for {
		if l.Policy.MaxPolls > 0 && polls >= l.Policy.MaxPolls {
			return nil, polls, l.stamp(&captcha.Error{
				Kind:    captcha.KindExhausted,
				Message: fmt.Sprintf("task %s not ready after %d polls", h, polls),
			})
		}

		res, err := withTransportRetry(ctx, l, func() (PollResult, error) {
			return l.Channel.Poll(ctx, h)
		})
		polls++
		if err != nil {
			return nil, polls, l.stamp(err)
		}
		if res.Status == StatusReady {
			return res.Solution, polls, nil
		}

		l.emit(captcha.Event{Type: captcha.EventTaskProcessing, SolveID: solveID, TaskID: h.String(), Attempt: attempt, Polls: polls})
		if err := sleep(ctx, l.Policy.Interval); err != nil {
			return nil, polls, l.canceled(err)
		}
	}
}

// withTransportRetry retries fn while it fails at the transport level and
// the policy allows more attempts.
func withTransportRetry[T any](ctx context.Context, l *Loop, fn func() (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return v, l.canceled(ctxErr)
		}
		if captcha.KindOf(err) != captcha.KindTransportFailed || attempt >= l.Policy.TransportRetries {
			return v, err
		}
		if err := sleep(ctx, l.Policy.TransportBackoff.Duration(attempt+1)); err != nil {
			return v, l.canceled(err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) emit(ev captcha.Event) {
	if l.Hook == nil {
		return
	}
	ev.Provider = l.Provider
	ev.Challenge = l.Challenge
	l.Hook(ev)
}

func (l *Loop) canceled(err error) error {
	return &captcha.Error{
		Kind:      captcha.KindCanceled,
		Provider:  l.Provider,
		Challenge: l.Challenge,
		Err:       err,
	}
}

// stamp fills in provider and challenge on errors raised below the loop.
func (l *Loop) stamp(err error) error {
	var e *captcha.Error
	if errors.As(err, &e) {
		if e.Provider == "" {
			e.Provider = l.Provider
		}
		if e.Challenge == "" {
			e.Challenge = l.Challenge
		}
		return err
	}
	return &captcha.Error{Kind: captcha.KindUnknown, Provider: l.Provider, Challenge: l.Challenge, Err: err}
}
