package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/velocast/internal/adapters/repository"
	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/domain/pipeline"
	"github.com/okian/velocast/pkg/logger"
	"github.com/okian/velocast/pkg/metrics"
)

// Predictor answers single-observation demand queries from one loaded artifact.
// It never refits and is safe for concurrent use.
type Predictor struct {
	artifact     *pipeline.Artifact
	estimator    estimator
	clipNegative bool
	logger       logger.Logger
}

// estimator turns raw records into demand estimates, one per record.
type estimator interface {
	Predict(records []model.Record) ([]float64, error)
}

// PredictorOption applies a configuration option to the Predictor.
type PredictorOption func(*Predictor)

// WithClipNegative floors estimates at zero before rounding.
func WithClipNegative(clip bool) PredictorOption {
	return func(p *Predictor) {
		p.clipNegative = clip
	}
}

// WithPredictorLogger sets a custom logger for the predictor.
func WithPredictorLogger(l logger.Logger) PredictorOption {
	return func(p *Predictor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPredictor wraps an already loaded artifact.
func NewPredictor(a *pipeline.Artifact, opts ...PredictorOption) (*Predictor, error) {
	if a == nil {
		return nil, model.ErrModelNotFound
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	p := &Predictor{artifact: a, estimator: a.Pipeline, logger: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// LoadPredictor reads the current artifact from store once.
func LoadPredictor(ctx context.Context, store repository.Store, opts ...PredictorOption) (*Predictor, error) {
	a, err := store.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", model.ErrModelNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load artifact: %w", err)
	}
	return NewPredictor(a, opts...)
}

// Artifact returns the artifact backing the predictor.
func (p *Predictor) Artifact() *pipeline.Artifact { return p.artifact }

// Predict estimates the hourly rental count for one observation.
func (p *Predictor) Predict(ctx context.Context, obs model.Observation) (int, error) {
	start := time.Now()
	n, err := p.predict(ctx, obs)
	if err != nil {
		metrics.RecordPredictionError(Kind(err))
		return 0, err
	}
	metrics.RecordPrediction(float64(time.Since(start).Microseconds()) / 1000)
	return n, nil
}

func (p *Predictor) predict(ctx context.Context, obs model.Observation) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := obs.Validate(); err != nil {
		return 0, err
	}

	out, err := p.estimator.Predict([]model.Record{obs.Record()})
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, &model.InternalConsistencyError{Want: 1, Got: len(out)}
	}

	v := out[0]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: estimate %v is not finite", model.ErrInternalConsistency, v)
	}
	if v < p.artifact.TargetMin || v > p.artifact.TargetMax {
		metrics.RecordPredictionOutOfRange()
		p.logger.Warn(ctx, "estimate outside training range",
			logger.Float64("estimate", v),
			logger.Float64("target_min", p.artifact.TargetMin),
			logger.Float64("target_max", p.artifact.TargetMax),
		)
	}
	if p.clipNegative && v < 0 {
		v = 0
	}
	// Ties go to the even neighbour.
	return int(math.RoundToEven(v)), nil
}
