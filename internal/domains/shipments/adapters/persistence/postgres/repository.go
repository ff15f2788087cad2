package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists shipments in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(Models()...)
	}
	return repo
}

// Models lists the GORM models owned by this package.
func Models() []any {
	return []any{&shipmentRecord{}, &idempotencyRecord{}}
}

func (r *Repository) Create(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, errors.New("shipment is nil")
	}
	record := toRecord(shipment)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateID
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record shipmentRecord
	if err := r.db.WithContext(ctx).First(&record, "shipment_id = ?", shipmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("seq DESC")
	if filter.AssignedOnly {
		query = query.Where("driver_id <> ''")
	}
	if filter.DriverID != "" {
		query = query.Where("driver_id = ?", filter.DriverID)
	}
	var records []shipmentRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// LatestShipmentID returns the identifier of the most recently inserted row.
func (r *Repository) LatestShipmentID(ctx context.Context) (string, error) {
	if err := r.ensureDB(); err != nil {
		return "", err
	}
	var record shipmentRecord
	err := r.db.WithContext(ctx).Select("shipment_id").Order("seq DESC").Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return record.ShipmentID, nil
}

func (r *Repository) Assign(ctx context.Context, shipmentID, driverID, driverName string, at time.Time) (*domain.Shipment, error) {
	return r.conditionalUpdate(ctx, shipmentID, domain.StatusPending, map[string]any{
		"driver_id":   driverID,
		"driver_name": driverName,
		"status":      string(domain.StatusShipping),
		"updated_at":  at,
	})
}

func (r *Repository) MarkDelivered(ctx context.Context, shipmentID string, at time.Time) (*domain.Shipment, error) {
	return r.conditionalUpdate(ctx, shipmentID, domain.StatusShipping, map[string]any{
		"status":       string(domain.StatusDelivered),
		"delivered_at": at,
		"updated_at":   at,
	})
}

// conditionalUpdate applies columns only while the row is still in status
// from. Zero affected rows means absent or already advanced.
func (r *Repository) conditionalUpdate(ctx context.Context, shipmentID string, from domain.Status, columns map[string]any) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []shipmentRecord
	result := r.db.WithContext(ctx).
		Model(&records).
		Clauses(clause.Returning{}).
		Where("shipment_id = ? AND status = ?", shipmentID, string(from)).
		Updates(columns)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toDomain(), nil
}

func (r *Repository) Update(ctx context.Context, shipmentID string, patch domain.Patch, at time.Time) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	columns := patchColumns(patch)
	columns["updated_at"] = at
	var records []shipmentRecord
	result := r.db.WithContext(ctx).
		Model(&records).
		Clauses(clause.Returning{}).
		Where("shipment_id = ?", shipmentID).
		Updates(columns)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, shipmentID string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&shipmentRecord{}, "shipment_id = ?", shipmentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ListUnnamedAssignments(ctx context.Context) ([]*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []shipmentRecord
	err := r.db.WithContext(ctx).
		Where("driver_id <> '' AND (driver_name = '' OR driver_name = ?)", domain.UnassignedDriverName).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) SetDriverName(ctx context.Context, shipmentID, driverName string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&shipmentRecord{}).
		Where("shipment_id = ?", shipmentID).
		Update("driver_name", strings.TrimSpace(driverName))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres shipment repository not configured")
	}
	return nil
}

func patchColumns(p domain.Patch) map[string]any {
	columns := map[string]any{}
	setText := func(column string, v *string) {
		if v == nil {
			return
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" {
			columns[column] = trimmed
		}
	}
	setText("sender_name", p.SenderName)
	setText("sender_phone", p.SenderPhone)
	setText("receiver_name", p.ReceiverName)
	setText("receiver_phone", p.ReceiverPhone)
	setText("start", p.Start)
	setText("end", p.End)
	setText("package_type", p.PackageType)
	if p.Notes != nil {
		columns["notes"] = *p.Notes
	}
	if p.ParcelWeight != nil {
		columns["parcel_weight"] = *p.ParcelWeight
	}
	if p.Cost != nil {
		columns["cost"] = *p.Cost
	}
	if p.ETA != nil {
		columns["eta"] = *p.ETA
	}
	return columns
}

func toDomainList(records []shipmentRecord) []*domain.Shipment {
	result := make([]*domain.Shipment, 0, len(records))
	for i := range records {
		result = append(result, records[i].toDomain())
	}
	return result
}
