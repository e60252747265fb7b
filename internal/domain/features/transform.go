package features

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/velocast/internal/domain/model"
)

// FittedTransform is the learned state of the whole feature pipeline. It is created
// once by Fit and only read afterwards, so one value can serve concurrent callers.
type FittedTransform struct {
	Schema []string
	Router *FittedRouter
}

// Fit learns the transform from a training batch.
func Fit(b *Batch) (*FittedTransform, error) {
	if b.Len() == 0 {
		return nil, ErrEmptyBatch
	}
	router, err := FitRouter(b)
	if err != nil {
		return nil, fmt.Errorf("fit router: %w", err)
	}
	return &FittedTransform{Schema: Schema(), Router: router}, nil
}

// Apply turns a batch into the feature matrix without refitting anything.
// The produced column layout must equal Schema, and no missing value may survive
// imputation: both are hard errors.
func (t *FittedTransform) Apply(b *Batch) (*mat.Dense, error) {
	if b.Len() == 0 {
		return nil, ErrEmptyBatch
	}
	derived, err := WeekendStage{}.Transform(b)
	if err != nil {
		return nil, err
	}
	routed, err := t.Router.Transform(b)
	if err != nil {
		return nil, err
	}
	X, names, err := Combine(derived, routed)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(names, t.Schema) {
		return nil, fmt.Errorf("%w: got %v, fitted %v", model.ErrSchemaMismatch, names, t.Schema)
	}
	if err := checkComplete(X, names); err != nil {
		return nil, err
	}
	return X, nil
}

// Vocabulary returns the fitted weather categories in code order.
func (t *FittedTransform) Vocabulary() []string {
	return slices.Clone(t.Router.Weather.Categories)
}

func checkComplete(X *mat.Dense, names []string) error {
	rows, cols := X.Dims()
	for i := range rows {
		row := X.RawRowView(i)
		for j := range cols {
			if math.IsNaN(row[j]) {
				return fmt.Errorf("row %d column %s: %w", i, names[j], model.ErrResidualMissing)
			}
		}
	}
	return nil
}
