package mcp

import (
	"errors"
	"fmt"

	"github.com/aceweb/agencyops/internal/domain/actor"
	"github.com/aceweb/agencyops/internal/domain/client"
	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/domain/validation"
	"github.com/aceweb/agencyops/internal/insight"
	"github.com/aceweb/agencyops/internal/repository"
)

// Error codes returned to tool callers.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeUnauthenticated     = "UNAUTHENTICATED"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

var notFound = []error{
	client.ErrClientNotFound,
	lead.ErrLeadNotFound,
	project.ErrProjectNotFound,
	project.ErrClientNotFound,
	task.ErrTaskNotFound,
	finance.ErrTransactionNotFound,
	finance.ErrProjectNotFound,
	insight.ErrClientNotFound,
	repository.ErrNotFound,
}

// MapError maps domain errors to MCP error codes. Unrecognized errors map to
// nil and are reported as-is.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return &APIError{Code: CodeValidationFailed, Message: verr.Error(), Details: verr, RecoveryHint: "Fix the named field and retry"}
	}
	if errors.Is(err, actor.ErrUnauthenticated) {
		return &APIError{Code: CodeUnauthenticated, Message: "authentication required", RecoveryHint: "Send a valid bearer token"}
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			return &APIError{Code: CodeNotFound, Message: target.Error(), RecoveryHint: "Check ID spelling or list the collection first"}
		}
	}
	switch {
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return &APIError{Code: CodeConstraintViolation, Message: "referenced record does not exist", RecoveryHint: "Create the parent record first"}
	case errors.Is(err, repository.ErrUniqueViolation), errors.Is(err, repository.ErrConflict):
		return &APIError{Code: CodeConstraintViolation, Message: "record already exists"}
	default:
		return nil
	}
}

// toolError converts a service error into the error a tool handler returns.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
