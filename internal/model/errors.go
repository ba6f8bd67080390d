package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDataAccess marks failures of the underlying dataset: unreachable
	// database or a failed query. It is fatal for the current render.
	ErrDataAccess = errors.New("data access failed")

	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidQuery  = errors.New("invalid query")
	ErrUnknownPage   = errors.New("unknown page")
)

// DataAccessError wraps a driver error with the operation and table involved
type DataAccessError struct {
	Op    string
	Table string
	Err   error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// Is makes every DataAccessError match ErrDataAccess
func (e *DataAccessError) Is(target error) bool {
	return target == ErrDataAccess
}
