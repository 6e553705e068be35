package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrClientNotFound indicates the referenced client doesn't exist.
	ErrClientNotFound = errors.New("project client not found")
)
