package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/velocast/internal/domain/pipeline"
	"github.com/okian/velocast/pkg/metrics"
)

const fileBackend = "file"

var _ Store = (*FileStore)(nil)

// FileStore keeps the current artifact in a single file.
// Saves go through a temporary file and a rename so readers never see a partial write.
type FileStore struct {
	path string
	mode os.FileMode
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	s := &FileStore{path: path, mode: 0o644}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the artifact file location.
func (s *FileStore) Path() string { return s.path }

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, a *pipeline.Artifact) (err error) {
	start := time.Now()
	defer func() { observe(fileBackend, "save", start, err) }()

	if a == nil {
		return ErrNilArtifact
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := a.Encode(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err = os.Chmod(tmp.Name(), s.mode); err != nil {
		return fmt.Errorf("chmod artifact: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	metrics.UpdateArtifactBytes(buf.Len())
	return nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (a *pipeline.Artifact, err error) {
	start := time.Now()
	defer func() { observe(fileBackend, "load", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()
	return pipeline.Decode(f)
}

// Close implements Store. The file store holds no open handles.
func (s *FileStore) Close() error { return nil }
