package pipeline

import (
	"encoding/gob"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/velocast/internal/domain/features"
	"github.com/okian/velocast/internal/domain/model"
)

// FormatVersion identifies the artifact layout. Artifacts written with another
// version are rejected, never migrated.
const FormatVersion = 1

// Artifact is the persisted bundle of a fitted pipeline and its training metadata.
// It is written once per training run and never mutated afterwards.
type Artifact struct {
	ID           uuid.UUID
	Version      int
	CreatedAt    time.Time
	Cutoff       time.Time
	TrainingRows int
	TargetMin    float64
	TargetMax    float64
	TargetMean   float64
	Pipeline     *Pipeline
}

// NewArtifact wraps a fitted pipeline together with statistics of its training targets.
func NewArtifact(p *Pipeline, cutoff time.Time, y []float64) *Artifact {
	a := &Artifact{
		ID:           uuid.New(),
		Version:      FormatVersion,
		CreatedAt:    time.Now().UTC(),
		Cutoff:       cutoff,
		TrainingRows: len(y),
		Pipeline:     p,
	}
	if len(y) > 0 {
		a.TargetMin = floats.Min(y)
		a.TargetMax = floats.Max(y)
		a.TargetMean = stat.Mean(y, nil)
	}
	return a
}

// Encode writes the artifact in gob form.
func (a *Artifact) Encode(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// Decode reads an artifact and checks that it matches the current feature schema.
func Decode(r io.Reader) (*Artifact, error) {
	a := new(Artifact)
	if err := gob.NewDecoder(r).Decode(a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate rejects artifacts whose layout differs from what this build produces.
func (a *Artifact) Validate() error {
	switch {
	case a.Version != FormatVersion:
		return fmt.Errorf("%w: artifact version %d, want %d", model.ErrSchemaMismatch, a.Version, FormatVersion)
	case a.Pipeline == nil || a.Pipeline.Transform == nil || a.Pipeline.Forest == nil:
		return fmt.Errorf("%w: artifact has no fitted pipeline", model.ErrSchemaMismatch)
	case a.Pipeline.Transform.Router == nil || a.Pipeline.Transform.Router.Weather == nil:
		return fmt.Errorf("%w: artifact has no fitted encoder", model.ErrSchemaMismatch)
	case !slices.Equal(a.Pipeline.Transform.Schema, features.Schema()):
		return fmt.Errorf("%w: artifact features %v, want %v", model.ErrSchemaMismatch, a.Pipeline.Transform.Schema, features.Schema())
	case a.Pipeline.Forest.NFeatures != len(a.Pipeline.Transform.Schema):
		return fmt.Errorf("%w: forest expects %d features, transform yields %d",
			model.ErrSchemaMismatch, a.Pipeline.Forest.NFeatures, len(a.Pipeline.Transform.Schema))
	}
	return nil
}

// Info is the JSON view of artifact metadata.
type Info struct {
	ID           string             `json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	Cutoff       string             `json:"cutoff"`
	TrainingRows int                `json:"training_rows"`
	Features     []string           `json:"features"`
	Vocabulary   []string           `json:"weather_vocabulary"`
	Trees        int                `json:"trees"`
	Nodes        int                `json:"nodes"`
	TargetMin    float64            `json:"target_min"`
	TargetMax    float64            `json:"target_max"`
	TargetMean   float64            `json:"target_mean"`
	Importances  map[string]float64 `json:"feature_importances"`
}

// Info summarizes the artifact.
func (a *Artifact) Info() Info {
	p := a.Pipeline
	return Info{
		ID:           a.ID.String(),
		CreatedAt:    a.CreatedAt,
		Cutoff:       a.Cutoff.Format(model.DateLayout),
		TrainingRows: a.TrainingRows,
		Features:     slices.Clone(p.Transform.Schema),
		Vocabulary:   p.Transform.Vocabulary(),
		Trees:        len(p.Forest.Trees),
		Nodes:        p.Forest.NodeCount(),
		TargetMin:    a.TargetMin,
		TargetMax:    a.TargetMax,
		TargetMean:   a.TargetMean,
		Importances:  p.Importances(),
	}
}
