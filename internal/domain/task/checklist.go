package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Toggle flips a task between pending and completed. No other field changes.
func Toggle(t Task) Task {
	switch t.Status {
	case StatusCompleted:
		t.Status = StatusPending
	case StatusPending:
		t.Status = StatusCompleted
	default:
		// unknown values are treated as pending so the toggle always lands on a valid state
		t.Status = StatusCompleted
	}
	return t
}

// New builds a pending task. ok is false when the title is blank.
func New(projectID, title string, now time.Time) (t Task, ok bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, false
	}
	return Task{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     title,
		Status:    StatusPending,
		CreatedAt: now,
	}, true
}

// AddTask appends a new pending task to a copy of tasks. Blank titles are a
// no-op: the input is returned unchanged with added=false.
func AddTask(tasks []Task, projectID, title string, now time.Time) (out []Task, added bool) {
	t, ok := New(projectID, title, now)
	if !ok {
		return tasks, false
	}
	out = make([]Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	return append(out, t), true
}

// Count returns completed and total counts.
func Count(tasks []Task) (completed, total int) {
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			completed++
		}
	}
	return completed, len(tasks)
}

// CompletionRatio is completed/total, or 0 for an empty checklist.
func CompletionRatio(tasks []Task) float64 {
	completed, total := Count(tasks)
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}
