package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	"github.com/Apurer/courier-api/internal/shared/hooks"
	"github.com/Apurer/courier-api/internal/shared/sequence"
)

// IDPrefix prefixes every generated shipment identifier.
const IDPrefix = "SHP"

// Service orchestrates the shipment lifecycle: creation, assignment,
// completion and the side effects attached to each transition.
type Service struct {
	repo        ports.Repository
	drivers     ports.DriverDirectory
	emitter     notifports.Emitter
	events      ports.EventPublisher
	idempotency ports.IdempotencyStore
	logger      *slog.Logger
	now         func() time.Time
	idAttempts  int

	onAssigned *hooks.Chain[*Assignment]
}

type Option func(*Service)

// WithEmitter attaches the notification emitter used by assignment hooks.
func WithEmitter(emitter notifports.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

// WithEventPublisher publishes lifecycle events after each transition.
func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

// WithIdempotencyStore enables Idempotency-Key replay for Create.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
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

// WithIDAttempts bounds identifier regeneration on collisions.
func WithIDAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.idAttempts = n
		}
	}
}

// NewService wires the shipments service with its collaborators.
func NewService(repo ports.Repository, drivers ports.DriverDirectory, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		drivers:    drivers,
		events:     ports.NoopPublisher{},
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
		idAttempts: sequence.DefaultAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.onAssigned = hooks.NewChain(s.logger, assignmentHooks(s.emitter, s.events)...)
	return s
}

// Create normalizes the draft, assigns a fresh identifier and persists the
// shipment as Pending. Identifier collisions are retried with a regenerated id.
func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Shipment, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		var err error
		fingerprint, err = FingerprintCreate(input)
		if err != nil {
			return nil, err
		}
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != fingerprint {
				return nil, ports.ErrIdempotencyConflict
			}
			return s.GetByID(ctx, existing.ShipmentID)
		}
	}

	shipment, err := domain.Normalize(input.Draft(), s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.persistNew(ctx, shipment)
	if err != nil {
		return nil, err
	}

	if key != "" && s.idempotency != nil {
		record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
			Key:         key,
			RequestHash: fingerprint,
			ShipmentID:  saved.ShipmentID,
		})
		if errors.Is(err, ports.ErrIdempotencyConflict) && record != nil && record.RequestHash == fingerprint {
			// A concurrent request with the same key won; drop ours and replay theirs.
			if delErr := s.repo.Delete(ctx, saved.ShipmentID); delErr != nil {
				s.logger.WarnContext(ctx, "failed to discard duplicate shipment",
					slog.String("shipment_id", saved.ShipmentID), slog.String("error", delErr.Error()))
			}
			return s.GetByID(ctx, record.ShipmentID)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.events.Publish(ctx, domain.ShipmentCreated{
		BaseEvent:   domain.BaseEvent{Timestamp: saved.CreatedAt},
		ShipmentID:  saved.ShipmentID,
		ServiceType: saved.Parcel.ServiceType,
		Start:       saved.Start,
		End:         saved.End,
		ETA:         saved.ETA,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish shipment created",
			slog.String("shipment_id", saved.ShipmentID), slog.String("error", err.Error()))
	}
	return saved, nil
}

func (s *Service) persistNew(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	var saved *domain.Shipment
	_, err := sequence.Generate(ctx, IDPrefix, s.repo.LatestShipmentID, func(ctx context.Context, id string) error {
		candidate := *shipment
		candidate.ShipmentID = id
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
	return saved, nil
}

// Assign attaches an approved driver to a Pending shipment. The write is
// conditioned on the shipment still being Pending; side effects run afterwards
// and never undo the assignment.
func (s *Service) Assign(ctx context.Context, shipmentID, driverID string) (*domain.Shipment, error) {
	shipmentID, driverID = strings.TrimSpace(shipmentID), strings.TrimSpace(driverID)
	if shipmentID == "" || driverID == "" {
		return nil, mapError(ErrMissingIdentifiers)
	}
	driver, err := s.drivers.FindApproved(ctx, driverID)
	if err != nil {
		return nil, err
	}
	name := driver.Username
	if name == "" {
		name = domain.UnassignedDriverName
	}
	updated, err := s.repo.Assign(ctx, shipmentID, driver.ID, name, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	s.onAssigned.Run(ctx, &Assignment{Shipment: updated, Driver: *driver})
	return updated, nil
}

// Complete marks a Shipping shipment as Delivered.
func (s *Service) Complete(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return nil, ports.ErrNotFound
	}
	delivered, err := s.repo.MarkDelivered(ctx, shipmentID, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	event := domain.ShipmentDelivered{
		BaseEvent:  domain.BaseEvent{Timestamp: delivered.UpdatedAt},
		ShipmentID: delivered.ShipmentID,
		DriverID:   delivered.DriverID,
	}
	if delivered.DeliveredAt != nil {
		event.DeliveredAt = *delivered.DeliveredAt
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish shipment delivered",
			slog.String("shipment_id", shipmentID), slog.String("error", err.Error()))
	}
	return delivered, nil
}

// Update applies a field patch outside the lifecycle.
func (s *Service) Update(ctx context.Context, shipmentID string, patch domain.Patch) (*domain.Shipment, error) {
	if err := patch.Validate(); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.Update(ctx, shipmentID, patch, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	return s.enrichOne(ctx, updated), nil
}

func (s *Service) Delete(ctx context.Context, shipmentID string) error {
	return mapError(s.repo.Delete(ctx, shipmentID))
}

func (s *Service) GetByID(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	shipment, err := s.repo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, mapError(err)
	}
	return s.enrichOne(ctx, shipment), nil
}

// List returns every shipment, newest first.
func (s *Service) List(ctx context.Context) ([]*domain.Shipment, error) {
	return s.list(ctx, ports.ListFilter{})
}

// ListAssigned returns shipments that carry a driver reference.
func (s *Service) ListAssigned(ctx context.Context) ([]*domain.Shipment, error) {
	return s.list(ctx, ports.ListFilter{AssignedOnly: true})
}

func (s *Service) ListForDriver(ctx context.Context, driverID string) ([]*domain.Shipment, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return nil, mapError(domain.ErrEmptyDriver)
	}
	return s.list(ctx, ports.ListFilter{DriverID: driverID})
}

func (s *Service) list(ctx context.Context, filter ports.ListFilter) ([]*domain.Shipment, error) {
	shipments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	s.enrich(ctx, shipments)
	return shipments, nil
}

func (s *Service) enrichOne(ctx context.Context, shipment *domain.Shipment) *domain.Shipment {
	s.enrich(ctx, []*domain.Shipment{shipment})
	return shipment
}

// enrich replaces the denormalized driver name with the directory's current
// display name. Directory failures leave the stored names in place.
func (s *Service) enrich(ctx context.Context, shipments []*domain.Shipment) {
	if s.drivers == nil {
		return
	}
	ids := make([]string, 0, len(shipments))
	seen := make(map[string]struct{}, len(shipments))
	for _, sh := range shipments {
		if sh == nil || !sh.HasDriver() {
			continue
		}
		if _, ok := seen[sh.DriverID]; ok {
			continue
		}
		seen[sh.DriverID] = struct{}{}
		ids = append(ids, sh.DriverID)
	}
	if len(ids) == 0 {
		return
	}
	names, err := s.drivers.Names(ctx, ids)
	if err != nil {
		s.logger.WarnContext(ctx, "driver name enrichment failed", slog.String("error", err.Error()))
		return
	}
	for _, sh := range shipments {
		if sh == nil || !sh.HasDriver() {
			continue
		}
		if name, ok := names[sh.DriverID]; ok && name != "" {
			sh.DriverName = name
		}
	}
}

var _ ports.Service = (*Service)(nil)
