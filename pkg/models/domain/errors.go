package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an absent act or beat. Pages render it as a normal state.
var ErrNotFound = errors.New("not found")

// DataAccessError is returned when the row store itself fails
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

func NewDataAccessError(op string, err error) error {
	return &DataAccessError{Op: op, Err: err}
}

// IsDataAccess reports whether err carries a DataAccessError
func IsDataAccess(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}
