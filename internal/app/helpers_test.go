package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/velocast/internal/adapters/repository"
	"github.com/okian/velocast/internal/domain/features"
	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/domain/pipeline"
	"github.com/okian/velocast/internal/domain/regression"
	"github.com/okian/velocast/internal/sampledata"
	"github.com/okian/velocast/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var cutoff = time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC)

// sliceSource serves fixed records.
type sliceSource struct {
	records []model.Record
	err     error
}

func (s sliceSource) Records(context.Context) ([]model.Record, error) {
	return s.records, s.err
}

// history spans both sides of the cutoff.
func history() []model.Record {
	return sampledata.Generate(sampledata.Config{
		Start:       time.Date(2012, 9, 17, 0, 0, 0, 0, time.UTC),
		Days:        21,
		Seed:        17,
		MissingRate: 0.03,
	})
}

func fileStore(t *testing.T) *repository.FileStore {
	t.Helper()
	s, err := repository.NewFileStore(filepath.Join(t.TempDir(), "demand.gob"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func smallForest() []regression.Option {
	return []regression.Option{
		regression.WithTrees(10),
		regression.WithMinSamplesLeaf(2),
		regression.WithSeed(42),
	}
}

func exampleObservation() model.Observation {
	return model.Observation{
		Date:      time.Date(2012, 11, 10, 0, 0, 0, 0, time.UTC),
		Hour:      10,
		Weather:   sampledata.WeatherClear,
		Temp:      0.3,
		ATemp:     0.31,
		Humidity:  0.8,
		Windspeed: 0.0,
	}
}

// constantArtifact builds an artifact whose forest always estimates value.
func constantArtifact(t *testing.T, value float64, targets []float64) *pipeline.Artifact {
	t.Helper()
	records := []model.Record{exampleObservation().Record()}
	tr, err := features.Fit(features.NewBatch(records))
	if err != nil {
		t.Fatal(err)
	}
	forest := regression.NewForest(regression.WithTrees(1))
	forest.NFeatures = len(features.Schema())
	forest.Trees = []regression.Tree{{Nodes: []regression.Node{{Feature: -1, Value: value, Samples: 1}}}}
	forest.Importances = make([]float64, forest.NFeatures)
	return pipeline.NewArtifact(&pipeline.Pipeline{Transform: tr, Forest: forest}, cutoff, targets)
}
