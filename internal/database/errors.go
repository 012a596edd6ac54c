package database

import "fmt"

// SchemaError reports a schema bootstrap failure. It is fatal to startup.
type SchemaError struct {
	Path      string
	Index     int // zero-based statement position; -1 when the file could not be read
	Statement string
	Err       error
}

func (e *SchemaError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("schema %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("schema statement %d (%q): %v", e.Index+1, e.Statement, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// InsertError reports that a single row failed to persist.
type InsertError struct {
	RowID string
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert row %s: %v", e.RowID, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }
