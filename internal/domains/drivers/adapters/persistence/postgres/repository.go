package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists drivers in PostgreSQL using GORM.
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
	return []any{&driverRecord{}}
}

type driverRecord struct {
	ID            string    `gorm:"primaryKey;column:id;size:32"`
	Seq           int64     `gorm:"column:seq;autoIncrement;uniqueIndex"`
	Username      string    `gorm:"column:username"`
	Email         string    `gorm:"column:email;uniqueIndex"`
	Phone         string    `gorm:"column:phone;index"`
	PasswordHash  string    `gorm:"column:password_hash"`
	VehicleType   string    `gorm:"column:vehicle_type;type:varchar(16);index"`
	VehicleNumber string    `gorm:"column:vehicle_number;uniqueIndex"`
	IDProof       string    `gorm:"column:id_proof"`
	Status        string    `gorm:"column:status;type:varchar(16);index"`
	PushToken     string    `gorm:"column:push_token"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (driverRecord) TableName() string { return "drivers" }

// Create inserts a driver. The primary key collision is distinguished from
// the email and vehicle number unique indexes by probing the id afterwards.
func (r *Repository) Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, errors.New("driver is nil")
	}
	record := toRecord(driver)
	err := r.db.WithContext(ctx).Create(&record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if _, getErr := r.GetByID(ctx, driver.ID); getErr == nil {
			return nil, ports.ErrDuplicateID
		}
		return nil, ports.ErrAlreadyRegistered
	}
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByLogin(ctx context.Context, emailOrPhone string) (*domain.Driver, error) {
	return r.first(ctx, "email = ? OR phone = ?", emailOrPhone, emailOrPhone)
}

func (r *Repository) ExistsByEmailOrVehicle(ctx context.Context, email, vehicleNumber string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&driverRecord{}).
		Where("email = ? OR vehicle_number = ?", email, vehicleNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("seq DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.VehicleType != "" {
		query = query.Where("vehicle_type = ?", string(filter.VehicleType))
	}
	var records []driverRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Driver, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *Repository) LatestDriverID(ctx context.Context) (string, error) {
	if err := r.ensureDB(); err != nil {
		return "", err
	}
	var record driverRecord
	err := r.db.WithContext(ctx).Select("id").Order("seq DESC").Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return record.ID, err
}

func (r *Repository) SetStatus(ctx context.Context, id string, status domain.Status, at time.Time) (*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []driverRecord
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

func (r *Repository) SetPushToken(ctx context.Context, id, token string, at time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&driverRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"push_token": token, "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) SetPasswordHash(ctx context.Context, id, hash string, at time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&driverRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Names(ctx context.Context, ids []string) (map[string]string, error) {
	names := map[string]string{}
	if len(ids) == 0 {
		return names, nil
	}
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []driverRecord
	if err := r.db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, rec := range records {
		names[rec.ID] = rec.Username
	}
	return names, nil
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record driverRecord
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres driver repository not configured")
	}
	return nil
}

func toRecord(d *domain.Driver) driverRecord {
	return driverRecord{
		ID:            d.ID,
		Username:      d.Username,
		Email:         d.Email,
		Phone:         d.Phone,
		PasswordHash:  d.PasswordHash,
		VehicleType:   string(d.VehicleType),
		VehicleNumber: strings.ToUpper(d.VehicleNumber),
		IDProof:       d.IDProof,
		Status:        string(d.Status),
		PushToken:     d.PushToken,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r driverRecord) toDomain() *domain.Driver {
	return &domain.Driver{
		ID:            r.ID,
		Username:      r.Username,
		Email:         r.Email,
		Phone:         r.Phone,
		PasswordHash:  r.PasswordHash,
		VehicleType:   domain.VehicleType(r.VehicleType),
		VehicleNumber: r.VehicleNumber,
		IDProof:       r.IDProof,
		Status:        domain.Status(r.Status),
		PushToken:     r.PushToken,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
