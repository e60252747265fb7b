// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/velocast/internal/adapters/repository"
	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/domain/pipeline"
	"github.com/okian/velocast/pkg/logger"
	"github.com/okian/velocast/pkg/metrics"
)

// Service holds the currently served model and coordinates reloads and retraining.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	trainer *Trainer

	// Serving state
	predictor     atomic.Pointer[Predictor]
	predictorOpts []PredictorOption
	training      atomic.Bool
	trainMu       sync.Mutex // held for a whole training run; taken before mu

	// State
	started      bool
	startedAt    time.Time
	lastTraining *TrainingReport

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the artifact store the service loads from.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithTrainer enables on-demand retraining.
func WithTrainer(t *Trainer) Option {
	return func(s *Service) {
		s.trainer = t
	}
}

// WithPredictorOptions sets options applied to every predictor the service builds.
func WithPredictorOptions(opts ...PredictorOption) Option {
	return func(s *Service) {
		s.predictorOpts = append(s.predictorOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the current artifact. A missing artifact is not fatal: the service
// starts without a model and reports model-not-found until one is trained or reloaded.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		return errors.New("service requires an artifact store")
	}

	s.logger.Info(ctx, "starting demand service...")

	if _, err := s.reload(ctx); err != nil {
		if !errors.Is(err, model.ErrModelNotFound) {
			return err
		}
		s.logger.Warn(ctx, "no trained model yet; predictions unavailable until training or reload")
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "demand service started",
		logger.Bool("model_loaded", s.predictor.Load() != nil),
		logger.Bool("training_enabled", s.trainer != nil),
	)
	return nil
}

// Stop releases the artifact store. It waits for an active training run to
// finish so the store is never closed under a save.
func (s *Service) Stop() {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping demand service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing artifact store failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "demand service stopped")
}

// Predict estimates demand with the currently loaded model.
func (s *Service) Predict(ctx context.Context, obs model.Observation) (int, error) {
	p := s.predictor.Load()
	if p == nil {
		metrics.RecordPredictionError(KindModelNotFound)
		return 0, model.ErrModelNotFound
	}
	return p.Predict(ctx, obs)
}

// ModelInfo describes the currently loaded model.
func (s *Service) ModelInfo(_ context.Context) (pipeline.Info, error) {
	p := s.predictor.Load()
	if p == nil {
		return pipeline.Info{}, model.ErrModelNotFound
	}
	return p.Artifact().Info(), nil
}

// Reload replaces the served model with the store's current artifact.
// On failure the previous model keeps serving.
func (s *Service) Reload(ctx context.Context) (pipeline.Info, error) {
	if !s.isStarted() {
		return pipeline.Info{}, ErrNotStarted
	}
	return s.reload(ctx)
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Service) reload(ctx context.Context) (pipeline.Info, error) {
	p, err := LoadPredictor(ctx, s.store, s.predictorOptions()...)
	if err != nil {
		metrics.RecordModelReload(Kind(err))
		return pipeline.Info{}, err
	}
	s.install(ctx, p)
	metrics.RecordModelReload("success")
	return p.Artifact().Info(), nil
}

// Train retrains synchronously and serves the new model on success.
// Only one training run may be active; concurrent calls fail fast.
func (s *Service) Train(ctx context.Context) (TrainingReport, error) {
	if s.trainer == nil {
		return TrainingReport{}, ErrTrainingDisabled
	}
	if !s.trainMu.TryLock() {
		return TrainingReport{}, ErrTrainingInProgress
	}
	defer s.trainMu.Unlock()
	if !s.isStarted() {
		return TrainingReport{}, ErrNotStarted
	}
	s.training.Store(true)
	defer s.training.Store(false)

	report, err := s.trainer.Train(ctx)
	if err != nil {
		return TrainingReport{}, err
	}
	p, err := NewPredictor(report.Artifact, s.predictorOptions()...)
	if err != nil {
		return TrainingReport{}, err
	}
	s.install(ctx, p)

	s.mu.Lock()
	s.lastTraining = &report
	s.mu.Unlock()
	return report, nil
}

func (s *Service) install(ctx context.Context, p *Predictor) {
	s.predictor.Store(p)
	a := p.Artifact()
	metrics.SetModelLoaded(true)
	metrics.UpdateModelCreated(a.CreatedAt)
	s.log().Info(ctx, "serving model",
		logger.String("artifact", a.ID.String()),
		logger.String("cutoff", a.Cutoff.Format(model.DateLayout)),
		logger.Int("training_rows", a.TrainingRows),
	)
}

func (s *Service) predictorOptions() []PredictorOption {
	return append([]PredictorOption{WithPredictorLogger(s.log())}, s.predictorOpts...)
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"model_loaded":     false,
		"training_enabled": s.trainer != nil,
		"training_active":  s.training.Load(),
		"goroutines":       runtime.NumGoroutine(),
	}
	if s.started {
		stats["uptime_seconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	if p := s.predictor.Load(); p != nil {
		a := p.Artifact()
		stats["model_loaded"] = true
		stats["model_id"] = a.ID.String()
		stats["model_created_at"] = a.CreatedAt
		stats["model_training_rows"] = a.TrainingRows
	}
	if s.lastTraining != nil {
		stats["last_training"] = s.lastTraining
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	return stats
}
