package application

import (
	"context"
	"strings"
	"time"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

// Service handles notification requests made directly by API callers.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Notification, error) {
	notification, err := domain.New(input.TargetID, input.Title, input.Message, input.Type, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *Service) List(ctx context.Context, filter ports.Filter) ([]*domain.Notification, error) {
	filter.TargetID = strings.TrimSpace(filter.TargetID)
	return s.repo.List(ctx, filter)
}

func (s *Service) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ports.ErrNotFound
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) ClearAll(ctx context.Context, filter ports.Filter) (int64, error) {
	filter.TargetID = strings.TrimSpace(filter.TargetID)
	return s.repo.DeleteAll(ctx, filter)
}

var _ ports.Service = (*Service)(nil)
