// Package repository persists fitted model artifacts.
package repository

import (
	"context"
	"time"

	"github.com/okian/velocast/internal/domain/pipeline"
	"github.com/okian/velocast/pkg/metrics"
)

// Store provides read/write access to the current model artifact.
type Store interface {
	// Save persists the artifact and makes it the current one.
	// A failed save leaves the previous artifact in place.
	Save(ctx context.Context, a *pipeline.Artifact) error

	// Load returns the current artifact.
	// Returns ErrNotFound if nothing has been saved yet.
	Load(ctx context.Context) (*pipeline.Artifact, error)

	// Close releases underlying resources.
	Close() error
}

// Versioned is implemented by stores that keep every saved artifact.
type Versioned interface {
	Store

	// Get returns the artifact saved under id.
	Get(ctx context.Context, id string) (*pipeline.Artifact, error)

	// IDs lists saved artifact ids in key order.
	IDs(ctx context.Context) ([]string, error)
}

// observe records the outcome of a store operation.
func observe(backend, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordArtifactOperation(backend, op, status, float64(time.Since(start).Microseconds())/1000)
}
