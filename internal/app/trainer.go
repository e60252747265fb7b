package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/velocast/internal/adapters/repository"
	"github.com/okian/velocast/internal/adapters/source"
	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/domain/pipeline"
	"github.com/okian/velocast/internal/domain/regression"
	"github.com/okian/velocast/pkg/logger"
	"github.com/okian/velocast/pkg/metrics"
)

// DefaultCutoff is the first date excluded from training.
var DefaultCutoff = time.Date(2012, time.October, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // immutable default

// TrainingReport summarizes a completed training run.
type TrainingReport struct {
	ArtifactID  string             `json:"artifact_id"`
	Cutoff      string             `json:"cutoff"`
	RowsRead    int                `json:"rows_read"`
	RowsUsed    int                `json:"rows_used"`
	Trees       int                `json:"trees"`
	Nodes       int                `json:"nodes"`
	Duration    time.Duration      `json:"duration_ns"`
	Importances map[string]float64 `json:"feature_importances"`

	// Artifact is the saved artifact, handed to callers that want to serve it at once.
	Artifact *pipeline.Artifact `json:"-"`
}

// Trainer fits the demand pipeline on historical records and persists the result.
type Trainer struct {
	source     source.Source
	store      repository.Store
	cutoff     time.Time
	forestOpts []regression.Option
	logger     logger.Logger
}

// TrainerOption applies a configuration option to the Trainer.
type TrainerOption func(*Trainer)

// WithCutoff sets the first date excluded from training.
func WithCutoff(cutoff time.Time) TrainerOption {
	return func(t *Trainer) {
		if !cutoff.IsZero() {
			t.cutoff = cutoff
		}
	}
}

// WithForestOptions sets the regression hyperparameters.
func WithForestOptions(opts ...regression.Option) TrainerOption {
	return func(t *Trainer) {
		t.forestOpts = append(t.forestOpts, opts...)
	}
}

// WithTrainerLogger sets a custom logger for the trainer.
func WithTrainerLogger(l logger.Logger) TrainerOption {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTrainer builds a trainer reading from src and saving into store.
func NewTrainer(src source.Source, store repository.Store, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		source: src,
		store:  store,
		cutoff: DefaultCutoff,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Cutoff returns the configured cutoff date.
func (t *Trainer) Cutoff() time.Time { return t.cutoff }

// Train reads the full history, keeps records strictly before the cutoff, fits the
// pipeline and saves the artifact. Nothing is written when no record qualifies.
func (t *Trainer) Train(ctx context.Context) (report TrainingReport, err error) {
	start := time.Now()
	cutoff := t.cutoff.Format(model.DateLayout)
	defer func() {
		status := "success"
		if err != nil {
			status = Kind(err)
		}
		metrics.RecordTrainingRun(status, time.Since(start))
	}()

	t.logger.Info(ctx, "training started", logger.String("cutoff", cutoff))

	records, err := t.source.Records(ctx)
	if err != nil {
		t.logger.Error(ctx, "reading historical data failed", logger.Error(err))
		return TrainingReport{}, fmt.Errorf("read historical data: %w", err)
	}

	kept := model.Before(records, t.cutoff)
	if len(kept) == 0 {
		t.logger.Warn(ctx, "no records before cutoff",
			logger.String("cutoff", cutoff),
			logger.Int("rows_read", len(records)),
		)
		return TrainingReport{}, fmt.Errorf("%w: %d records read, none before %s", model.ErrNoTrainingData, len(records), cutoff)
	}

	p, err := pipeline.Fit(ctx, kept, t.forestOpts...)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			t.logger.Error(ctx, "fitting pipeline failed", logger.Error(err))
		}
		return TrainingReport{}, err
	}

	artifact := pipeline.NewArtifact(p, t.cutoff, model.Targets(kept))
	if err := t.store.Save(ctx, artifact); err != nil {
		t.logger.Error(ctx, "saving artifact failed", logger.Error(err))
		return TrainingReport{}, fmt.Errorf("save artifact: %w", err)
	}

	report = TrainingReport{
		ArtifactID:  artifact.ID.String(),
		Cutoff:      cutoff,
		RowsRead:    len(records),
		RowsUsed:    len(kept),
		Trees:       len(p.Forest.Trees),
		Nodes:       p.Forest.NodeCount(),
		Duration:    time.Since(start),
		Importances: p.Importances(),
		Artifact:    artifact,
	}
	metrics.UpdateTrainingRows(report.RowsUsed)
	metrics.UpdateForestSize(report.Trees, report.Nodes)

	t.logger.Info(ctx, "training finished",
		logger.String("artifact", report.ArtifactID),
		logger.Int("rows_read", report.RowsRead),
		logger.Int("rows_used", report.RowsUsed),
		logger.Int("trees", report.Trees),
		logger.Duration("duration", report.Duration),
	)
	return report, nil
}
