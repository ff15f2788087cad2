package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Apurer/courier-api/internal/domains/pricing/domain"
	"github.com/Apurer/courier-api/internal/domains/pricing/ports"
)

// ErrInvalidInput signals a tariff edit that would break a pricing invariant.
var ErrInvalidInput = errors.New("invalid pricing input")

// Service serialises tariff edits so concurrent partial updates do not
// overwrite each other within one process.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Get(ctx context.Context) (*domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) Update(ctx context.Context, patch domain.Patch) (*domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := current.Apply(patch, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *Service) load(ctx context.Context) (*domain.Config, error) {
	config, err := s.repo.Get(ctx)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, ports.ErrNotConfigured) {
		return nil, err
	}
	defaults := domain.Defaults(s.now())
	if err := s.repo.Save(ctx, defaults); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "initialized default pricing configuration")
	return &defaults, nil
}

var _ ports.Service = (*Service)(nil)
