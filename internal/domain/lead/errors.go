package lead

import "errors"

// ErrLeadNotFound indicates the lead doesn't exist.
var ErrLeadNotFound = errors.New("lead not found")
