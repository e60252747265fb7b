package service

import (
	"context"
	"errors"

	"github.com/okian/velocast/internal/domain/model"
)

// Sentinel kinds for the service layer.
var (
	ErrTrainingInProgress = errors.New("training already in progress")
	ErrNotStarted         = errors.New("service not started")
	ErrTrainingDisabled   = errors.New("training not configured")
)

// Error kinds used as metric labels and HTTP error codes.
const (
	KindMalformedInput      = "malformed_input"
	KindUnseenCategory      = "unseen_category"
	KindModelNotFound       = "model_not_found"
	KindNoTrainingData      = "no_training_data"
	KindInternalConsistency = "internal_consistency"
	KindResidualMissing     = "residual_missing"
	KindSchemaMismatch      = "schema_mismatch"
	KindTrainingInProgress  = "training_in_progress"
	KindNotStarted          = "not_started"
	KindCanceled            = "canceled"
	KindInternal            = "internal"
)

// Kind classifies err into one of the Kind constants.
func Kind(err error) string {
	switch {
	case errors.Is(err, model.ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, model.ErrUnseenCategory):
		return KindUnseenCategory
	case errors.Is(err, model.ErrModelNotFound):
		return KindModelNotFound
	case errors.Is(err, model.ErrNoTrainingData):
		return KindNoTrainingData
	case errors.Is(err, model.ErrInternalConsistency):
		return KindInternalConsistency
	case errors.Is(err, model.ErrResidualMissing):
		return KindResidualMissing
	case errors.Is(err, model.ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, ErrTrainingInProgress):
		return KindTrainingInProgress
	case errors.Is(err, ErrNotStarted):
		return KindNotStarted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
