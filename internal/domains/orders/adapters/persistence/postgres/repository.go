package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/courier-api/internal/domains/orders/domain"
	"github.com/Apurer/courier-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
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
	return []any{&orderRecord{}}
}

type orderRecord struct {
	ID              string    `gorm:"primaryKey;column:id;size:32"`
	Seq             int64     `gorm:"column:seq;autoIncrement;uniqueIndex"`
	SenderName      string    `gorm:"column:sender_name"`
	SenderPhone     string    `gorm:"column:sender_phone;index"`
	ReceiverName    string    `gorm:"column:receiver_name"`
	ReceiverPhone   string    `gorm:"column:receiver_phone;index"`
	DeliveryAddress string    `gorm:"column:delivery_address"`
	PackageType     string    `gorm:"column:package_type"`
	Weight          float64   `gorm:"column:weight"`
	Dimensions      string    `gorm:"column:dimensions"`
	DeliveryType    string    `gorm:"column:delivery_type;type:varchar(16)"`
	PickupDate      string    `gorm:"column:pickup_date"`
	TimeSlot        string    `gorm:"column:time_slot"`
	Notes           string    `gorm:"column:notes"`
	Cost            float64   `gorm:"column:cost"`
	Insurance       float64   `gorm:"column:insurance"`
	GST             float64   `gorm:"column:gst"`
	TotalAmount     float64   `gorm:"column:total_amount"`
	Status          string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateID
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, nil)
}

func (r *Repository) ListByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("sender_phone = ? OR receiver_phone = ?", phone, phone)
	})
}

func (r *Repository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("seq DESC")
	if scope != nil {
		query = query.Scopes(scope)
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Order, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *Repository) LatestOrderID(ctx context.Context) (string, error) {
	if err := r.ensureDB(); err != nil {
		return "", err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).Select("id").Order("seq DESC").Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return record.ID, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	result := r.db.WithContext(ctx).Model(&records).Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": at})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id)
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
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ID:              o.ID,
		SenderName:      o.SenderName,
		SenderPhone:     o.SenderPhone,
		ReceiverName:    o.ReceiverName,
		ReceiverPhone:   o.ReceiverPhone,
		DeliveryAddress: o.DeliveryAddress,
		PackageType:     o.PackageType,
		Weight:          o.Weight,
		Dimensions:      o.Dimensions,
		DeliveryType:    string(o.DeliveryType),
		PickupDate:      o.PickupDate,
		TimeSlot:        o.TimeSlot,
		Notes:           o.Notes,
		Cost:            o.Cost,
		Insurance:       o.Insurance,
		GST:             o.GST,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:              r.ID,
		SenderName:      r.SenderName,
		SenderPhone:     r.SenderPhone,
		ReceiverName:    r.ReceiverName,
		ReceiverPhone:   r.ReceiverPhone,
		DeliveryAddress: r.DeliveryAddress,
		PackageType:     r.PackageType,
		Weight:          r.Weight,
		Dimensions:      r.Dimensions,
		DeliveryType:    domain.DeliveryType(r.DeliveryType),
		PickupDate:      r.PickupDate,
		TimeSlot:        r.TimeSlot,
		Notes:           r.Notes,
		Quote: domain.Quote{
			Cost:        r.Cost,
			Insurance:   r.Insurance,
			GST:         r.GST,
			TotalAmount: r.TotalAmount,
		},
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
