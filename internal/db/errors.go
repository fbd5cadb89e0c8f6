package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrClosed      = errors.New("db: store closed")
)

// Op constants name the failing operation for error context.
// They follow Valkey/Redis command names; the embedded backends reuse them.
const (
	OpGet  = "GET"
	OpSet  = "SET"
	OpDel  = "DEL"
	OpPing = "PING"
	OpOpen = "OPEN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
