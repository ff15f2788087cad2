package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	notifdomain "github.com/Apurer/courier-api/internal/domains/notifications/domain"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	"github.com/Apurer/courier-api/internal/domains/orders/domain"
	"github.com/Apurer/courier-api/internal/domains/orders/ports"
	"github.com/Apurer/courier-api/internal/shared/sequence"
)

// IDPrefix prefixes every generated order identifier.
const IDPrefix = "ORD"

// Service books, prices and tracks customer orders.
type Service struct {
	repo       ports.Repository
	links      ports.ShipmentLinks
	customers  ports.CustomerLookup
	emitter    notifports.Emitter
	logger     *slog.Logger
	now        func() time.Time
	idAttempts int
}

type Option func(*Service)

// WithShipmentLinks enables tracking joins; without it every order is unassigned.
func WithShipmentLinks(links ports.ShipmentLinks) Option {
	return func(s *Service) { s.links = links }
}

// WithCustomerLookup resolves the sender phone to a customer for notifications.
func WithCustomerLookup(lookup ports.CustomerLookup) Option {
	return func(s *Service) { s.customers = lookup }
}

func WithEmitter(emitter notifports.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

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
	s := &Service{
		repo:       repo,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
		idAttempts: sequence.DefaultAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create prices the draft, persists it under the next ORD id and notifies
// the customer registered with the sender phone.
func (s *Service) Create(ctx context.Context, draft domain.Draft) (*domain.Order, error) {
	order, err := domain.NewOrder(draft, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	var saved *domain.Order
	_, err = sequence.Generate(ctx, IDPrefix, s.repo.LatestOrderID, func(ctx context.Context, id string) error {
		candidate := *order
		candidate.ID = id
		out, err := s.repo.Create(ctx, &candidate)
		if errors.Is(err, ports.ErrDuplicateID) {
			return sequence.ErrDuplicate
		}
		if err != nil {
			return err
		}
		saved = out
		return nil
	}, s.idAttempts)
	if errors.Is(err, sequence.ErrExhausted) {
		return nil, fmt.Errorf("%w: %w", ports.ErrDuplicateID, err)
	}
	if err != nil {
		return nil, err
	}
	s.notifyCustomer(ctx, saved)
	return saved, nil
}

func (s *Service) notifyCustomer(ctx context.Context, order *domain.Order) {
	if s.emitter == nil {
		return
	}
	var target string
	if s.customers != nil {
		id, err := s.customers(ctx, order.SenderPhone)
		if err != nil {
			s.logger.WarnContext(ctx, "customer lookup failed",
				slog.String("order_id", order.ID), slog.String("error", err.Error()))
		}
		target = id
	}
	s.emitter.Notify(ctx, target, "New Order Created",
		fmt.Sprintf("Order %s has been placed successfully.", order.ID), notifdomain.CategoryOrder)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	return s.repo.ListByPhone(ctx, phone)
}

// ListWithTracking joins every order with its carrying shipment. Orders that
// are not on a shipment report the Unassigned label for status and driver.
func (s *Service) ListWithTracking(ctx context.Context) ([]domain.Tracking, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	links := map[string]ports.ShipmentRef{}
	if s.links != nil && len(orders) > 0 {
		ids := make([]string, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		if links, err = s.links.ByOrder(ctx, ids); err != nil {
			return nil, err
		}
	}
	out := make([]domain.Tracking, 0, len(orders))
	for _, o := range orders {
		t := domain.Tracking{Order: o, ShipmentStatus: domain.UnassignedLabel, DriverName: domain.UnassignedLabel}
		if ref, ok := links[o.ID]; ok {
			t.ShipmentID = ref.ShipmentID
			t.ShipmentStatus = ref.Status
			if ref.DriverName != "" {
				t.DriverName = ref.DriverName
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	status = domain.Status(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.repo.UpdateStatus(ctx, strings.TrimSpace(id), status, s.now())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

var _ ports.Service = (*Service)(nil)
