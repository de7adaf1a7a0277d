package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the retrieval core.
var (
	// ErrEmptyCorpus is returned when an index is built from zero chunks.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrInvalidArgument is returned for malformed call parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruptIndex is returned when a persisted index fails validation.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrIndexNotBuilt is returned when an operation needs a built index.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrUnsupportedType indicates an unknown file or provider type.
	ErrUnsupportedType = errors.New("unsupported type")
)

// EmptyCorpusError reports a build attempted with no chunks.
type EmptyCorpusError struct{}

func (e *EmptyCorpusError) Error() string {
	return "cannot build index from an empty chunk collection"
}

func (e *EmptyCorpusError) Is(target error) bool {
	return target == ErrEmptyCorpus
}

// NewEmptyCorpusError creates a new EmptyCorpusError
func NewEmptyCorpusError() *EmptyCorpusError {
	return &EmptyCorpusError{}
}

// InvalidArgumentError reports a call parameter outside its contract.
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(field, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Message: message}
}

// CorruptIndexError reports a persisted index that failed structural validation.
type CorruptIndexError struct {
	Reason string
	Err    error
}

func (e *CorruptIndexError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt index: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt index: %s", e.Reason)
}

func (e *CorruptIndexError) Is(target error) bool {
	return target == ErrCorruptIndex
}

func (e *CorruptIndexError) Unwrap() error {
	return e.Err
}

// NewCorruptIndexError creates a new CorruptIndexError
func NewCorruptIndexError(reason string, err error) *CorruptIndexError {
	return &CorruptIndexError{Reason: reason, Err: err}
}
