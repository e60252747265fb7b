package regression

import "errors"

// Sentinel kinds for regression errors.
var (
	ErrEmptyTrainingSet = errors.New("regression: empty training set")
	ErrShape            = errors.New("regression: feature and target shapes differ")
	ErrNonFinite        = errors.New("regression: non-finite value")
	ErrNotFitted        = errors.New("regression: forest not fitted")
	ErrFeatureCount     = errors.New("regression: unexpected feature count")
)
