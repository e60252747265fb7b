package features

import "errors"

// Sentinel kinds for feature transformation errors.
var (
	ErrEmptyVocabulary = errors.New("categorical column has no values to fit")
	ErrRaggedColumns   = errors.New("feature columns differ in length")
	ErrEmptyBatch      = errors.New("batch has no rows")
)
