package repository

import "os"

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithFileMode sets the permission bits of the artifact file.
func WithFileMode(mode os.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// LevelDBOption applies a configuration option to the LevelDBStore.
type LevelDBOption func(*LevelDBStore)

// WithKeyPrefix sets the key namespace used inside the database.
func WithKeyPrefix(prefix string) LevelDBOption {
	return func(s *LevelDBStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}
