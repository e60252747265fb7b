package service

import (
	"fmt"

	"github.com/okian/velocast/internal/adapters/repository"
	"github.com/okian/velocast/internal/adapters/source"
	"github.com/okian/velocast/internal/config"
	"github.com/okian/velocast/internal/domain/regression"
	"github.com/okian/velocast/pkg/logger"
)

// ForestOptions translates forest settings from configuration.
func ForestOptions(cfg *config.Config) []regression.Option {
	return []regression.Option{
		regression.WithTrees(cfg.ForestTrees),
		regression.WithMaxDepth(cfg.ForestMaxDepth),
		regression.WithMinSamplesSplit(cfg.ForestMinSamplesSplit),
		regression.WithMinSamplesLeaf(cfg.ForestMinSamplesLeaf),
		regression.WithMaxFeatures(cfg.ForestMaxFeatures),
		regression.WithSeed(cfg.ForestSeed),
		regression.WithWorkers(cfg.ForestWorkers),
	}
}

// OpenStore opens the configured artifact store.
func OpenStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendLevelDB:
		return repository.OpenLevelDBStore(cfg.ArtifactPath)
	case config.BackendFile, "":
		return repository.NewFileStore(cfg.ArtifactPath)
	default:
		return nil, fmt.Errorf("%w: store_backend %q", config.ErrInvalidConfig, cfg.StoreBackend)
	}
}

// OpenSource returns the configured historical data source.
func OpenSource(cfg *config.Config) (source.Source, error) {
	return source.Open(cfg.DataPath, cfg.DataFormat)
}

// NewTrainerFromConfig builds a trainer for the configured source, store and hyperparameters.
func NewTrainerFromConfig(cfg *config.Config, store repository.Store, l logger.Logger) (*Trainer, error) {
	src, err := OpenSource(cfg)
	if err != nil {
		return nil, err
	}
	cutoff, err := cfg.Cutoff()
	if err != nil {
		return nil, err
	}
	return NewTrainer(src, store,
		WithCutoff(cutoff),
		WithForestOptions(ForestOptions(cfg)...),
		WithTrainerLogger(l),
	), nil
}
