package finance

import "errors"

var (
	// ErrTransactionNotFound indicates the transaction doesn't exist.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrProjectNotFound indicates the referenced project doesn't exist.
	ErrProjectNotFound = errors.New("transaction project not found")
)
