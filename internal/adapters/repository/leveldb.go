package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/okian/velocast/internal/domain/pipeline"
	"github.com/okian/velocast/pkg/metrics"
)

const (
	leveldbBackend   = "leveldb"
	defaultKeyPrefix = "velocast/"
	artifactKey      = "artifact-"
	currentKey       = "current"
)

var _ Versioned = (*LevelDBStore)(nil)

// LevelDBStore keeps every saved artifact under its id plus a pointer to the current one.
type LevelDBStore struct {
	db     *leveldb.DB
	prefix string
}

// OpenLevelDBStore opens or creates a database directory at path.
func OpenLevelDBStore(path string, opts ...LevelDBOption) (*LevelDBStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return NewLevelDBStore(db, opts...), nil
}

// NewLevelDBStore wraps an open database.
func NewLevelDBStore(db *leveldb.DB, opts ...LevelDBOption) *LevelDBStore {
	s := &LevelDBStore{db: db, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LevelDBStore) artifactKey(id string) []byte {
	return []byte(s.prefix + artifactKey + id)
}

func (s *LevelDBStore) currentKey() []byte {
	return []byte(s.prefix + currentKey)
}

// Save implements Store. The artifact and the current pointer are written in one batch.
func (s *LevelDBStore) Save(ctx context.Context, a *pipeline.Artifact) (err error) {
	start := time.Now()
	defer func() { observe(leveldbBackend, "save", start, err) }()

	if a == nil {
		return ErrNilArtifact
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var data bytes.Buffer
	if err := a.Encode(&data); err != nil {
		return err
	}
	id := a.ID.String()
	batch := new(leveldb.Batch)
	batch.Put(s.artifactKey(id), data.Bytes())
	batch.Put(s.currentKey(), []byte(id))
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("write artifact %s: %w", id, err)
	}
	metrics.UpdateArtifactBytes(data.Len())
	return nil
}

// Load implements Store.
func (s *LevelDBStore) Load(ctx context.Context) (a *pipeline.Artifact, err error) {
	start := time.Now()
	defer func() { observe(leveldbBackend, "load", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := s.db.Get(s.currentKey(), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read current artifact id: %w", err)
	}
	return s.get(string(id))
}

// Get implements Versioned.
func (s *LevelDBStore) Get(ctx context.Context, id string) (a *pipeline.Artifact, err error) {
	start := time.Now()
	defer func() { observe(leveldbBackend, "get", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.get(id)
}

func (s *LevelDBStore) get(id string) (*pipeline.Artifact, error) {
	data, err := s.db.Get(s.artifactKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", id, err)
	}
	return pipeline.Decode(bytes.NewReader(data))
}

// IDs implements Versioned.
func (s *LevelDBStore) IDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := s.prefix + artifactKey
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	var ids []string
	for iter.Next() {
		ids = append(ids, strings.TrimPrefix(string(iter.Key()), prefix))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Close implements Store.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
