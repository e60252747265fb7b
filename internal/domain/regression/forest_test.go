package regression_test

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"

	"github.com/okian/velocast/internal/domain/regression"
)

// stepData builds y = 10 when x0 <= 5 else 50, with a noise feature in column 1.
func stepData(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := range n {
		x0 := float64(i % 11)
		X.Set(i, 0, x0)
		X.Set(i, 1, float64((i*7)%3))
		if x0 <= 5 {
			y[i] = 10
		} else {
			y[i] = 50
		}
	}
	return X, y
}

func TestForestFit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a step function", t, func() {
		X, y := stepData(220)

		Convey("When fitting a small forest", func() {
			f := regression.NewForest(regression.WithTrees(10), regression.WithSeed(7), regression.WithWorkers(3))
			err := f.Fit(ctx, X, y)
			So(err, ShouldBeNil)

			Convey("Then it recovers both levels", func() {
				pred, err := f.Predict(mat.NewDense(2, 2, []float64{2, 0, 9, 1}))
				So(err, ShouldBeNil)
				So(pred, ShouldHaveLength, 2)
				So(pred[0], ShouldAlmostEqual, 10, 1e-9)
				So(pred[1], ShouldAlmostEqual, 50, 1e-9)
			})

			Convey("Then the informative feature dominates the importances", func() {
				So(f.Importances, ShouldHaveLength, 2)
				So(f.Importances[0], ShouldBeGreaterThan, 0.99)
				So(f.Importances[0]+f.Importances[1], ShouldAlmostEqual, 1, 1e-9)
			})

			Convey("Then the forest records its shape", func() {
				So(f.NFeatures, ShouldEqual, 2)
				So(f.Trees, ShouldHaveLength, 10)
				So(f.NodeCount(), ShouldBeGreaterThanOrEqualTo, 30)
			})
		})

		Convey("When fitting twice with the same seed", func() {
			a := regression.NewForest(regression.WithTrees(5), regression.WithSeed(1), regression.WithWorkers(1))
			b := regression.NewForest(regression.WithTrees(5), regression.WithSeed(1), regression.WithWorkers(4))
			So(a.Fit(ctx, X, y), ShouldBeNil)
			So(b.Fit(ctx, X, y), ShouldBeNil)

			Convey("Then the trees are identical regardless of worker count", func() {
				So(a.Trees, ShouldResemble, b.Trees)
			})
		})

		Convey("When the depth is capped at one", func() {
			f := regression.NewForest(regression.WithTrees(3), regression.WithMaxDepth(1), regression.WithBootstrap(false))
			So(f.Fit(ctx, X, y), ShouldBeNil)

			Convey("Then every tree is a single split", func() {
				for _, tr := range f.Trees {
					So(tr.Nodes, ShouldHaveLength, 3)
					So(tr.Nodes[0].Feature, ShouldEqual, 0)
					So(tr.Nodes[0].Threshold, ShouldEqual, 5.5)
				}
			})
		})
	})

	Convey("Given invalid training input", t, func() {
		f := regression.NewForest(regression.WithTrees(2))

		Convey("Then mismatched targets are rejected", func() {
			X, _ := stepData(10)
			err := f.Fit(ctx, X, make([]float64, 3))
			So(errors.Is(err, regression.ErrShape), ShouldBeTrue)
		})

		Convey("Then NaN features are rejected", func() {
			X, y := stepData(10)
			X.Set(4, 1, math.NaN())
			So(errors.Is(f.Fit(ctx, X, y), regression.ErrNonFinite), ShouldBeTrue)
		})

		Convey("Then a cancelled context aborts fitting", func() {
			X, y := stepData(10)
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(errors.Is(f.Fit(cctx, X, y), context.Canceled), ShouldBeTrue)
		})
	})
}

func TestForestPredict(t *testing.T) {
	Convey("Given an unfitted forest", t, func() {
		f := regression.NewForest()
		_, err := f.Predict(mat.NewDense(1, 2, nil))
		So(errors.Is(err, regression.ErrNotFitted), ShouldBeTrue)
	})

	Convey("Given a fitted forest", t, func() {
		X, y := stepData(50)
		f := regression.NewForest(regression.WithTrees(4))
		So(f.Fit(context.Background(), X, y), ShouldBeNil)

		Convey("Then a row of the wrong width is rejected", func() {
			_, err := f.Predict(mat.NewDense(1, 3, nil))
			So(errors.Is(err, regression.ErrFeatureCount), ShouldBeTrue)
		})

		Convey("Then repeated predictions are identical", func() {
			row := mat.NewDense(1, 2, []float64{3, 2})
			a, _ := f.Predict(row)
			b, _ := f.Predict(row)
			So(a, ShouldResemble, b)
		})
	})
}
