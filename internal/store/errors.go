package store

import "fmt"

// CorruptRecordError reports a stored row whose serialized text column
// failed to decode. It names the row and column so corruption is
// detectable instead of being masked as an empty field.
type CorruptRecordError struct {
	ID     string
	Column string
	Err    error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record %s: column %s: %v", e.ID, e.Column, e.Err)
}

func (e *CorruptRecordError) Unwrap() error {
	return e.Err
}
