package service

import (
	"github.com/sheexliies/ViperDraft/internal/adapters/repository"
	"github.com/sheexliies/ViperDraft/internal/domain/draft"
	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets where snapshots are persisted.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSession names the persisted session.
func WithSession(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.session = id
		}
	}
}

// WithDefaults sets the settings used for fields a load request omits.
func WithDefaults(settings model.Settings) Option {
	return func(s *Service) {
		s.defaults = settings
	}
}

// WithMaxAttempts sets the attempt budget of queued auto drafts.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithQueueSize sets how many auto draft jobs may wait.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the pick request-id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithEngineOptions forwards options to the draft engine.
func WithEngineOptions(opts ...draft.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
