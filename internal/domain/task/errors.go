package task

import "errors"

// ErrTaskNotFound indicates the task doesn't exist.
var ErrTaskNotFound = errors.New("task not found")
