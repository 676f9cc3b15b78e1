package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFrameTick     EventType = "frame_tick"
	EventTaskStart     EventType = "task_start"
	EventTaskDone      EventType = "task_done"
	EventPagePresented EventType = "page_presented"
	EventPageCompleted EventType = "page_completed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// TaskEvent represents a scheduled task starting or finishing.
type TaskEvent struct {
	EventBase
	Tag    string `json:"tag"`
	Signal string `json:"signal,omitempty"`
}

// PageEvent represents a survey page being presented or completed.
type PageEvent struct {
	EventBase
	SurveyIdx  int            `json:"survey_idx"`
	PageName   string         `json:"page_name,omitempty"`
	Completion CompletionCode `json:"completion,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// All fields are optional; nil hooks are skipped.
type LifecycleHooks struct {
	OnTaskStart     func(context.Context, *TaskEvent)
	OnTaskDone      func(context.Context, *TaskEvent)
	OnPagePresented func(context.Context, *PageEvent)
	OnPageCompleted func(context.Context, *PageEvent)
}
