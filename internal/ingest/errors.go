package ingest

import "fmt"

// ExecutionError reports that a unit of work failed to run to completion:
// it panicked or could not obtain its fetch permit. It fails the request.
type ExecutionError struct {
	Key   string
	Err   error
	Stack []byte
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("ingest unit %s: %v", e.Key, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
