package repository

import (
	"os"

	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permissions of snapshot files.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.permFile = mode
		}
	}
}

// WithDirMode sets the permissions used when creating the snapshot directory.
func WithDirMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.permDir = mode
		}
	}
}

// WithLogger sets the logger for the FileStore.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}
