package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/courier-api/internal/domains/pricing/domain"
	"github.com/Apurer/courier-api/internal/domains/pricing/ports"
)

// singletonID keys the only tariff row.
const singletonID = "default"

var _ ports.Repository = (*Repository)(nil)

// Repository persists the tariff as one PostgreSQL row.
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
	return []any{&pricingRecord{}}
}

type pricingRecord struct {
	ID                string    `gorm:"primaryKey;column:id;size:16"`
	EconomyBaseAmount float64   `gorm:"column:economy_base_amount"`
	EconomyDivisor    float64   `gorm:"column:economy_divisor"`
	EconomyRate       float64   `gorm:"column:economy_rate"`
	EconomyETA        string    `gorm:"column:economy_eta"`
	ExpressBaseAmount float64   `gorm:"column:express_base_amount"`
	ExpressDivisor    float64   `gorm:"column:express_divisor"`
	ExpressRate       float64   `gorm:"column:express_rate"`
	ExpressETA        string    `gorm:"column:express_eta"`
	SatchelA4         float64   `gorm:"column:satchel_a4"`
	SatchelA3         float64   `gorm:"column:satchel_a3"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (pricingRecord) TableName() string { return "pricing" }

func (r *Repository) Get(ctx context.Context) (*domain.Config, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec pricingRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", singletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

// Save upserts the singleton row.
func (r *Repository) Save(ctx context.Context, config domain.Config) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	rec := toRecord(config)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres pricing repository not configured")
	}
	return nil
}

func toRecord(c domain.Config) pricingRecord {
	return pricingRecord{
		ID:                singletonID,
		EconomyBaseAmount: c.Economy.BaseAmount,
		EconomyDivisor:    c.Economy.Divisor,
		EconomyRate:       c.Economy.Rate,
		EconomyETA:        c.Economy.ETA,
		ExpressBaseAmount: c.Express.BaseAmount,
		ExpressDivisor:    c.Express.Divisor,
		ExpressRate:       c.Express.Rate,
		ExpressETA:        c.Express.ETA,
		SatchelA4:         c.Satchel.A4,
		SatchelA3:         c.Satchel.A3,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (r pricingRecord) toDomain() *domain.Config {
	return &domain.Config{
		Economy:   domain.Rate{BaseAmount: r.EconomyBaseAmount, Divisor: r.EconomyDivisor, Rate: r.EconomyRate, ETA: r.EconomyETA},
		Express:   domain.Rate{BaseAmount: r.ExpressBaseAmount, Divisor: r.ExpressDivisor, Rate: r.ExpressRate, ETA: r.ExpressETA},
		Satchel:   domain.Satchel{A4: r.SatchelA4, A3: r.SatchelA3},
		UpdatedAt: r.UpdatedAt,
	}
}
