package client

import "errors"

// ErrClientNotFound indicates the client doesn't exist.
var ErrClientNotFound = errors.New("client not found")
