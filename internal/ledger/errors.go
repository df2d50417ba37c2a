package ledger

import "fmt"

// PersistenceError is returned when the document store itself fails. It is the only error
// that leaves the ledger; callers decide whether to retry.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not %s (%s): %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
