package repository

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/domain/pipeline"
	"github.com/okian/velocast/internal/domain/regression"
	"github.com/okian/velocast/internal/sampledata"
)

func fittedArtifact(t *testing.T) *pipeline.Artifact {
	t.Helper()
	records := sampledata.Generate(sampledata.Config{
		Start: time.Date(2012, 9, 1, 0, 0, 0, 0, time.UTC),
		Days:  5,
		Seed:  3,
	})
	p, err := pipeline.Fit(context.Background(), records, regression.WithTrees(3), regression.WithMaxDepth(4))
	if err != nil {
		t.Fatalf("fit pipeline: %v", err)
	}
	return pipeline.NewArtifact(p, time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC), model.Targets(records))
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file store in an empty directory", t, func() {
		path := filepath.Join(t.TempDir(), "models", "demand.gob")
		store, err := NewFileStore(path)
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("When loading before any save", func() {
			_, err := store.Load(ctx)

			Convey("Then it reports not found", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When saving an artifact", func() {
			a := fittedArtifact(t)
			So(store.Save(ctx, a), ShouldBeNil)

			Convey("Then loading returns the same artifact", func() {
				got, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, a.ID)
				So(got.TrainingRows, ShouldEqual, a.TrainingRows)
				So(got.Pipeline.Transform.Vocabulary(), ShouldResemble, a.Pipeline.Transform.Vocabulary())
			})

			Convey("Then no temporary files are left behind", func() {
				entries, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})

			Convey("Then a second save replaces the first", func() {
				b := fittedArtifact(t)
				So(store.Save(ctx, b), ShouldBeNil)
				got, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, b.ID)
			})
		})

		Convey("When the file holds an artifact of another format version", func() {
			a := fittedArtifact(t)
			a.Version = pipeline.FormatVersion + 1
			var buf bytes.Buffer
			So(a.Encode(&buf), ShouldBeNil)
			So(os.MkdirAll(filepath.Dir(path), 0o755), ShouldBeNil)
			So(os.WriteFile(path, buf.Bytes(), 0o644), ShouldBeNil)

			Convey("Then loading rejects it", func() {
				_, err := store.Load(ctx)
				So(errors.Is(err, model.ErrSchemaMismatch), ShouldBeTrue)
			})
		})

		Convey("When saving nil", func() {
			So(errors.Is(store.Save(ctx, nil), ErrNilArtifact), ShouldBeTrue)
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := NewFileStore("")
		So(errors.Is(err, ErrInvalidPath), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		store, err := NewFileStore(filepath.Join(t.TempDir(), "a.gob"))
		So(err, ShouldBeNil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = store.Load(cctx)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestLevelDBStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a leveldb store", t, func() {
		store, err := OpenLevelDBStore(filepath.Join(t.TempDir(), "db"))
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("When loading before any save", func() {
			_, err := store.Load(ctx)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("When saving two artifacts", func() {
			first := fittedArtifact(t)
			second := fittedArtifact(t)
			So(store.Save(ctx, first), ShouldBeNil)
			So(store.Save(ctx, second), ShouldBeNil)

			Convey("Then the latest one is current", func() {
				got, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, second.ID)
			})

			Convey("Then both remain addressable by id", func() {
				ids, err := store.IDs(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldHaveLength, 2)
				So(ids, ShouldContain, first.ID.String())

				got, err := store.Get(ctx, first.ID.String())
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, first.ID)
			})

			Convey("Then an unknown id is not found", func() {
				_, err := store.Get(ctx, "missing")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given two stores sharing a database under different prefixes", t, func() {
		base, err := OpenLevelDBStore(filepath.Join(t.TempDir(), "db"))
		So(err, ShouldBeNil)
		defer base.Close()
		other := NewLevelDBStore(base.db, WithKeyPrefix("other/"))

		So(base.Save(ctx, fittedArtifact(t)), ShouldBeNil)

		Convey("Then they do not see each other's artifacts", func() {
			_, err := other.Load(ctx)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			ids, err := other.IDs(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)
		})
	})
}
