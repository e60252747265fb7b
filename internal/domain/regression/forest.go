// Package regression provides the random-forest regressor used as the regression stage.
package regression

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default forest configuration constants.
const (
	defaultTrees           = 100
	defaultMinSamplesSplit = 2
	defaultMinSamplesLeaf  = 1
	defaultSeed            = 42
)

// Params are the hyperparameters of a Forest. They are persisted with the fitted trees.
type Params struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	Seed            int64
}

// Forest is a bagged ensemble of CART regression trees. Predictions average the trees.
// After Fit returns the forest is read-only and safe for concurrent Predict calls.
type Forest struct {
	Params      Params
	NFeatures   int
	Trees       []Tree
	Importances []float64 // normalized impurity decrease per feature

	workers int
}

// NewForest creates an unfitted forest with defaults close to the reference regressor:
// 100 fully grown trees on bootstrap samples considering every feature at each split.
func NewForest(opts ...Option) *Forest {
	f := &Forest{
		Params: Params{
			Trees:           defaultTrees,
			MinSamplesSplit: defaultMinSamplesSplit,
			MinSamplesLeaf:  defaultMinSamplesLeaf,
			Bootstrap:       true,
			Seed:            defaultSeed,
		},
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fit grows every tree on X (rows x features) against y. Trees are fitted concurrently;
// tree i draws its bootstrap sample from seed+i so results do not depend on scheduling.
func (f *Forest) Fit(ctx context.Context, X mat.Matrix, y []float64) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return ErrEmptyTrainingSet
	}
	if len(y) != rows {
		return fmt.Errorf("%w: %d rows, %d targets", ErrShape, rows, len(y))
	}
	for i, v := range y {
		if !finite(v) {
			return fmt.Errorf("%w: target row %d", ErrNonFinite, i)
		}
	}
	colData := make([][]float64, cols)
	for j := range cols {
		colData[j] = mat.Col(nil, j, X)
		for i, v := range colData[j] {
			if !finite(v) {
				return fmt.Errorf("%w: row %d feature %d", ErrNonFinite, i, j)
			}
		}
	}

	params := f.Params
	trees := make([]Tree, params.Trees)
	gains := make([][]float64, params.Trees)

	workers := f.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := range params.Trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rnd := rand.New(rand.NewSource(params.Seed + int64(t))) //nolint:gosec // reproducible sampling, not security
			idx := make([]int, rows)
			for i := range idx {
				if params.Bootstrap {
					idx[i] = rnd.Intn(rows)
				} else {
					idx[i] = i
				}
			}
			trees[t], gains[t] = growTree(colData, y, idx, params, rnd)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	importances := make([]float64, cols)
	for _, gain := range gains {
		floats.Add(importances, gain)
	}
	if total := floats.Sum(importances); total > 0 {
		floats.Scale(1/total, importances)
	}

	f.NFeatures = cols
	f.Trees = trees
	f.Importances = importances
	return nil
}

// Predict returns one estimate per row of X.
func (f *Forest) Predict(X mat.Matrix) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}
	rows, cols := X.Dims()
	if cols != f.NFeatures {
		return nil, fmt.Errorf("%w: got %d, fitted %d", ErrFeatureCount, cols, f.NFeatures)
	}
	out := make([]float64, rows)
	row := make([]float64, cols)
	for i := range rows {
		mat.Row(row, i, X)
		for j, v := range row {
			if !finite(v) {
				return nil, fmt.Errorf("%w: row %d feature %d", ErrNonFinite, i, j)
			}
		}
		var sum float64
		for t := range f.Trees {
			sum += f.Trees[t].Predict(row)
		}
		out[i] = sum / float64(len(f.Trees))
	}
	return out, nil
}

// NodeCount returns the total number of nodes across all trees.
func (f *Forest) NodeCount() int {
	n := 0
	for _, t := range f.Trees {
		n += len(t.Nodes)
	}
	return n
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
