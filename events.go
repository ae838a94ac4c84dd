package captcha

import (
	"context"
	"log/slog"
)

// EventType names a task lifecycle transition.
type EventType int

const (
	// EventTaskCreated fires after a successful submission.
	EventTaskCreated EventType = iota + 1
	// EventTaskProcessing fires each time a poll reports the task is not ready.
	EventTaskProcessing
	// EventTaskFailed fires when a task is abandoned and will be resubmitted.
	EventTaskFailed
	// EventTaskSolved fires when a solution is obtained.
	EventTaskSolved
)

func (t EventType) String() string {
	switch t {
	case EventTaskCreated:
		return "task created"
	case EventTaskProcessing:
		return "task processing"
	case EventTaskFailed:
		return "task failed"
	case EventTaskSolved:
		return "task solved"
	}
	return "unknown"
}

// Event describes one lifecycle transition of a solve.
type Event struct {
	Type      EventType
	SolveID   string
	Provider  string
	Challenge Challenge
	TaskID    string

	// Attempt counts submissions within one solve, starting at 1.
	Attempt int

	// Polls counts result requests against the current task.
	Polls int

	Err error
}

// Hook receives lifecycle events. It is called synchronously from the solving
// goroutine and must be safe for concurrent use.
type Hook func(Event)

// SlogHook returns a Hook that writes events to logger.
// A nil logger uses slog.Default().
func SlogHook(logger *slog.Logger) Hook {
	return func(ev Event) {
		l := logger
		if l == nil {
			l = slog.Default()
		}
		attrs := []slog.Attr{
			slog.String("solve", ev.SolveID),
			slog.String("provider", ev.Provider),
			slog.String("challenge", string(ev.Challenge)),
			slog.String("taskId", ev.TaskID),
			slog.Int("attempt", ev.Attempt),
		}
		level := slog.LevelInfo
		switch ev.Type {
		case EventTaskProcessing:
			level = slog.LevelDebug
			attrs = append(attrs, slog.Int("polls", ev.Polls))
		case EventTaskFailed:
			level = slog.LevelWarn
			attrs = append(attrs, slog.Any("error", ev.Err))
		}
		l.LogAttrs(context.Background(), level, "CAPTCHA "+ev.Type.String(), attrs...)
	}
}
