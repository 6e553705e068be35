package project

import (
	"math"

	"github.com/aceweb/agencyops/internal/domain/task"
)

// Advance returns the next status offered by the kanban move action:
// pending moves to in_progress, anything else moves to completed.
// Completed projects stay completed.
func Advance(p Project) Status {
	if p.Status == StatusPending {
		return StatusInProgress
	}
	return StatusCompleted
}

// CanAdvance reports whether the kanban offers a move for this status.
func CanAdvance(s Status) bool {
	return s != StatusCompleted
}

// Progress returns a 0-100 completion figure. With tasks it is the rounded
// share of completed tasks; without tasks it falls back to a fixed figure per
// status.
func Progress(p Project) int {
	completed, total := task.Count(p.Tasks)
	if total > 0 {
		return int(math.Round(100 * float64(completed) / float64(total)))
	}
	return statusProgress(p.Status)
}

func statusProgress(s Status) int {
	switch s {
	case StatusCompleted:
		return 100
	case StatusInProgress:
		return 10
	case StatusPending:
		return 0
	default:
		return 0
	}
}

// GroupByStatus builds a kanban board. Each column keeps the input order.
func GroupByStatus(projects []Project) Board {
	board := Board{
		Pending:    []Project{},
		InProgress: []Project{},
		Completed:  []Project{},
	}
	for _, p := range projects {
		switch p.Status {
		case StatusPending:
			board.Pending = append(board.Pending, p)
		case StatusInProgress:
			board.InProgress = append(board.InProgress, p)
		case StatusCompleted:
			board.Completed = append(board.Completed, p)
		}
	}
	return board
}
