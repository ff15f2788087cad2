package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory shipment store. Transitions hold the write lock
// across the status check and the mutation.
type Repository struct {
	mu        sync.RWMutex
	shipments map[string]*domain.Shipment
	seq       int64
	order     map[string]int64
}

func NewRepository() *Repository {
	return &Repository{
		shipments: map[string]*domain.Shipment{},
		order:     map[string]int64{},
	}
}

func (r *Repository) Create(_ context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	if shipment == nil {
		return nil, errors.New("shipment is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.shipments[shipment.ShipmentID]; exists {
		return nil, ports.ErrDuplicateID
	}
	stored := clone(shipment)
	r.seq++
	r.shipments[stored.ShipmentID] = stored
	r.order[stored.ShipmentID] = r.seq
	return clone(stored), nil
}

func (r *Repository) GetByID(_ context.Context, shipmentID string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	shipment, ok := r.shipments[shipmentID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(shipment), nil
}

// List returns shipments newest first.
func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Shipment, 0, len(r.shipments))
	for _, shipment := range r.shipments {
		if filter.AssignedOnly && !shipment.HasDriver() {
			continue
		}
		if filter.DriverID != "" && shipment.DriverID != filter.DriverID {
			continue
		}
		result = append(result, clone(shipment))
	}
	r.sortNewestFirst(result)
	return result, nil
}

func (r *Repository) LatestShipmentID(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest string
	var latestSeq int64
	for id, seq := range r.order {
		if seq > latestSeq {
			latest, latestSeq = id, seq
		}
	}
	return latest, nil
}

func (r *Repository) Assign(_ context.Context, shipmentID, driverID, driverName string, at time.Time) (*domain.Shipment, error) {
	return r.transition(shipmentID, func(s *domain.Shipment) error {
		return s.AssignTo(driverID, driverName, at)
	})
}

func (r *Repository) MarkDelivered(_ context.Context, shipmentID string, at time.Time) (*domain.Shipment, error) {
	return r.transition(shipmentID, func(s *domain.Shipment) error {
		return s.MarkDelivered(at)
	})
}

func (r *Repository) transition(shipmentID string, apply func(*domain.Shipment) error) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shipment, ok := r.shipments[shipmentID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	next := clone(shipment)
	if err := apply(next); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	r.shipments[shipmentID] = next
	return clone(next), nil
}

func (r *Repository) Update(_ context.Context, shipmentID string, patch domain.Patch, at time.Time) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shipment, ok := r.shipments[shipmentID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	patch.Apply(shipment, at)
	return clone(shipment), nil
}

func (r *Repository) Delete(_ context.Context, shipmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shipments[shipmentID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.shipments, shipmentID)
	delete(r.order, shipmentID)
	return nil
}

func (r *Repository) ListUnnamedAssignments(_ context.Context) ([]*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Shipment
	for _, shipment := range r.shipments {
		if shipment.HasDriver() && (shipment.DriverName == "" || shipment.DriverName == domain.UnassignedDriverName) {
			result = append(result, clone(shipment))
		}
	}
	r.sortNewestFirst(result)
	return result, nil
}

func (r *Repository) SetDriverName(_ context.Context, shipmentID, driverName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	shipment, ok := r.shipments[shipmentID]
	if !ok {
		return ports.ErrNotFound
	}
	shipment.DriverName = strings.TrimSpace(driverName)
	return nil
}

// sortNewestFirst orders by creation time, falling back to insertion order.
func (r *Repository) sortNewestFirst(shipments []*domain.Shipment) {
	sort.SliceStable(shipments, func(i, j int) bool {
		a, b := shipments[i], shipments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return r.order[a.ShipmentID] > r.order[b.ShipmentID]
	})
}

func clone(s *domain.Shipment) *domain.Shipment {
	out := *s
	out.Orders = append([]string(nil), s.Orders...)
	if s.DeliveredAt != nil {
		at := *s.DeliveredAt
		out.DeliveredAt = &at
	}
	return &out
}
