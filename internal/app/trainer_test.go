package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/velocast/internal/adapters/repository"
	service "github.com/okian/velocast/internal/app"
	"github.com/okian/velocast/internal/domain/model"
)

func TestTrainer_Train(t *testing.T) {
	ctx := context.Background()

	Convey("Given history on both sides of the cutoff", t, func() {
		records := history()
		store := fileStore(t)
		trainer := service.NewTrainer(sliceSource{records: records}, store,
			service.WithCutoff(cutoff),
			service.WithForestOptions(smallForest()...),
		)

		Convey("When training", func() {
			report, err := trainer.Train(ctx)
			So(err, ShouldBeNil)

			Convey("Then only rows strictly before the cutoff are used", func() {
				So(report.RowsRead, ShouldEqual, len(records))
				So(report.RowsUsed, ShouldEqual, len(model.Before(records, cutoff)))
				So(report.RowsUsed, ShouldEqual, 14*24)
				So(report.Cutoff, ShouldEqual, "2012-10-01")
				So(report.Trees, ShouldEqual, 10)
			})

			Convey("Then the saved artifact is the reported one", func() {
				a, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(a.ID.String(), ShouldEqual, report.ArtifactID)
				So(a.TrainingRows, ShouldEqual, report.RowsUsed)
				So(a.Cutoff.Equal(cutoff), ShouldBeTrue)
			})

			Convey("Then importances cover every feature", func() {
				So(report.Importances, ShouldHaveLength, 7)
			})
		})
	})

	Convey("Given history entirely on or after the cutoff", t, func() {
		var late []model.Record
		for _, r := range history() {
			if !r.Date.Before(cutoff) {
				late = append(late, r)
			}
		}
		store := fileStore(t)
		trainer := service.NewTrainer(sliceSource{records: late}, store, service.WithCutoff(cutoff))

		Convey("When training", func() {
			_, err := trainer.Train(ctx)

			Convey("Then it fails with no training data and writes nothing", func() {
				So(errors.Is(err, model.ErrNoTrainingData), ShouldBeTrue)
				_, err := store.Load(ctx)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a failing source", t, func() {
		boom := errors.New("disk on fire")
		trainer := service.NewTrainer(sliceSource{err: boom}, fileStore(t))

		_, err := trainer.Train(ctx)
		So(errors.Is(err, boom), ShouldBeTrue)
	})

	Convey("Given two trainings with the same seed", t, func() {
		records := history()
		first := fileStore(t)
		second := fileStore(t)
		for _, store := range []repository.Store{first, second} {
			trainer := service.NewTrainer(sliceSource{records: records}, store,
				service.WithCutoff(cutoff),
				service.WithForestOptions(smallForest()...),
			)
			_, err := trainer.Train(ctx)
			So(err, ShouldBeNil)
		}

		Convey("Then both artifacts answer identically", func() {
			a, err := service.LoadPredictor(ctx, first)
			So(err, ShouldBeNil)
			b, err := service.LoadPredictor(ctx, second)
			So(err, ShouldBeNil)
			for h := 0; h < 24; h++ {
				obs := exampleObservation()
				obs.Hour = h
				x, err := a.Predict(ctx, obs)
				So(err, ShouldBeNil)
				y, err := b.Predict(ctx, obs)
				So(err, ShouldBeNil)
				So(x, ShouldEqual, y)
			}
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		store := fileStore(t)
		trainer := service.NewTrainer(sliceSource{records: history()}, store,
			service.WithForestOptions(smallForest()...))

		_, err := trainer.Train(cctx)

		Convey("Then training stops and nothing is saved", func() {
			So(err, ShouldNotBeNil)
			_, err := store.Load(ctx)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestTrainer_Defaults(t *testing.T) {
	Convey("Given a trainer without options", t, func() {
		trainer := service.NewTrainer(sliceSource{}, nil)
		So(trainer.Cutoff().Equal(time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		So(service.DefaultCutoff.Format(model.DateLayout), ShouldEqual, "2012-10-01")
	})
}
