// Package pipeline joins the fitted feature transform and the regression stage
// into one unit that is fitted, persisted and applied together.
package pipeline

import (
	"context"
	"fmt"

	"github.com/okian/velocast/internal/domain/features"
	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/domain/regression"
)

// Pipeline is a fitted transform followed by a fitted forest.
type Pipeline struct {
	Transform *features.FittedTransform
	Forest    *regression.Forest
}

// Fit learns the transform first and then trains the forest on the transform's output.
func Fit(ctx context.Context, records []model.Record, opts ...regression.Option) (*Pipeline, error) {
	if len(records) == 0 {
		return nil, model.ErrNoTrainingData
	}
	batch := features.NewBatch(records)
	tr, err := features.Fit(batch)
	if err != nil {
		return nil, fmt.Errorf("fit transform: %w", err)
	}
	X, err := tr.Apply(batch)
	if err != nil {
		return nil, fmt.Errorf("transform training batch: %w", err)
	}
	forest := regression.NewForest(opts...)
	if err := forest.Fit(ctx, X, model.Targets(records)); err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}
	return &Pipeline{Transform: tr, Forest: forest}, nil
}

// Predict applies the fitted transform and forest to records, one estimate per record.
func (p *Pipeline) Predict(records []model.Record) ([]float64, error) {
	X, err := p.Transform.Apply(features.NewBatch(records))
	if err != nil {
		return nil, err
	}
	return p.Forest.Predict(X)
}

// Importances maps feature names to their normalized importance.
func (p *Pipeline) Importances() map[string]float64 {
	out := make(map[string]float64, len(p.Transform.Schema))
	for i, name := range p.Transform.Schema {
		if i < len(p.Forest.Importances) {
			out[name] = p.Forest.Importances[i]
		}
	}
	return out
}
