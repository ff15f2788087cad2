package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists notifications in PostgreSQL using GORM.
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

// Models lists the GORM models owned by this adapter.
func Models() []any {
	return []any{&notificationRecord{}}
}

type notificationRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	TargetID  string    `gorm:"column:target_id;size:64;index"`
	Title     string    `gorm:"column:title"`
	Message   string    `gorm:"column:message;type:text"`
	Type      string    `gorm:"column:type;type:varchar(32)"`
	IsRead    bool      `gorm:"column:is_read"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (notificationRecord) TableName() string { return "notifications" }

func (r *Repository) Save(ctx context.Context, notification *domain.Notification) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if notification == nil {
		return errors.New("notification is nil")
	}
	record := toRecord(notification)
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	var records []notificationRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Notification, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r *Repository) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []notificationRecord
	result := r.db.WithContext(ctx).
		Model(&records).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toDomain(), nil
}

func (r *Repository) DeleteAll(ctx context.Context, filter ports.Filter) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	query := r.db.WithContext(ctx)
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	} else {
		query = query.Where("1 = 1")
	}
	result := query.Delete(&notificationRecord{})
	return result.RowsAffected, result.Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres notification repository not configured")
	}
	return nil
}

func toRecord(n *domain.Notification) notificationRecord {
	return notificationRecord{
		ID:        n.ID,
		TargetID:  n.TargetID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func (r notificationRecord) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:        r.ID,
		TargetID:  r.TargetID,
		Title:     r.Title,
		Message:   r.Message,
		Type:      domain.Category(r.Type),
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
}
