package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrFetch ErrorType = iota
	ErrValidation
	ErrVersionParse
	ErrProjection
	ErrSerialization
	ErrFileOp
	ErrInvalidConfig
	ErrNoData
	ErrSigning
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrFetch:
		return "Fetch"
	case ErrValidation:
		return "Validation"
	case ErrVersionParse:
		return "VersionParse"
	case ErrProjection:
		return "Projection"
	case ErrSerialization:
		return "Serialization"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrNoData:
		return "NoData"
	case ErrSigning:
		return "Signing"
	default:
		return "Unknown"
	}
}

// CompareError represents an error during a branch comparison run.
// Subject names what the error is about: a branch, a package or a file.
type CompareError struct {
	Type    ErrorType
	Subject string
	Err     error
}

// Error implements the error interface
func (e *CompareError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Subject, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *CompareError) Unwrap() error {
	return e.Err
}

// NewError builds a CompareError of the given type.
func NewError(t ErrorType, subject string, err error) *CompareError {
	return &CompareError{Type: t, Subject: subject, Err: err}
}

// IsErrorType reports whether any CompareError in err's chain has type t.
func IsErrorType(err error, t ErrorType) bool {
	for err != nil {
		var ce *CompareError
		if !errors.As(err, &ce) {
			return false
		}
		if ce.Type == t {
			return true
		}
		err = ce.Err
	}
	return false
}
