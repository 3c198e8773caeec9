package schema

import "errors"

// ErrRepositoryNotFound is returned when the repository host has no such repository.
var ErrRepositoryNotFound = errors.New("Repository not found")

// MissingFieldError reports a required input that was not supplied.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing " + e.Field
}

// FailureRecord is the wire shape of every failed operation.
type FailureRecord struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// NewFailureRecord wraps an error message in a failed record.
func NewFailureRecord(err error) FailureRecord {
	return FailureRecord{Error: err.Error(), Status: StatusFailed}
}
