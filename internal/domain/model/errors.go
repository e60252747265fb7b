package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for the demand model. These allow errors.Is/As from callers.
var (
	ErrNoTrainingData      = errors.New("no training data before cutoff")
	ErrUnseenCategory      = errors.New("unseen category")
	ErrModelNotFound       = errors.New("model not found")
	ErrMalformedInput      = errors.New("malformed input")
	ErrInternalConsistency = errors.New("internal consistency violation")
	ErrResidualMissing     = errors.New("missing value left after imputation")
	ErrSchemaMismatch      = errors.New("feature schema mismatch")
)

// UnseenCategoryError reports a categorical value absent from the fitted vocabulary.
type UnseenCategoryError struct {
	Column string
	Value  string
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("%s: column %q has no code for %q", ErrUnseenCategory, e.Column, e.Value)
}

// Is matches ErrUnseenCategory.
func (e *UnseenCategoryError) Is(target error) bool { return target == ErrUnseenCategory }

// MalformedInputError carries every problem found in a prediction input.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	if e.Err == nil {
		return ErrMalformedInput.Error()
	}
	return fmt.Sprintf("%s: %v", ErrMalformedInput, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Is matches ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// InternalConsistencyError is fatal: the prediction path produced a result of the wrong shape.
type InternalConsistencyError struct {
	Want, Got int
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("%s: expected %d prediction(s), got %d", ErrInternalConsistency, e.Want, e.Got)
}

// Is matches ErrInternalConsistency.
func (e *InternalConsistencyError) Is(target error) bool { return target == ErrInternalConsistency }
