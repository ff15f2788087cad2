package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNegativeAmount  = errors.New("pricing amounts must not be negative")
	ErrInvalidDivisor  = errors.New("volumetric divisor must be positive")
	ErrInvalidRate     = errors.New("rate must be positive")
	ErrUnknownDelivery = errors.New("delivery type must be economy or express")
)

// Rate prices one delivery speed: a base amount plus rate per chargeable kg,
// where the volumetric weight is length*width*height/Divisor.
type Rate struct {
	BaseAmount float64
	Divisor    float64
	Rate       float64
	ETA        string
}

// Satchel holds the flat prices of pre-paid satchels.
type Satchel struct {
	A4 float64
	A3 float64
}

// Config is the single editable tariff of the service.
type Config struct {
	Economy   Rate
	Express   Rate
	Satchel   Satchel
	UpdatedAt time.Time
}

// Defaults is the tariff used until an administrator edits it.
func Defaults(now time.Time) Config {
	return Config{
		Economy:   Rate{BaseAmount: 20, Divisor: 5000, Rate: 1.2, ETA: "1-4 days"},
		Express:   Rate{BaseAmount: 40, Divisor: 4000, Rate: 1.2, ETA: "1-2 days"},
		Satchel:   Satchel{A4: 90, A3: 110},
		UpdatedAt: now,
	}
}

// RatePatch changes the non-nil fields of a Rate.
type RatePatch struct {
	BaseAmount *float64
	Divisor    *float64
	Rate       *float64
	ETA        *string
}

// SatchelPatch changes the non-nil satchel prices.
type SatchelPatch struct {
	A4 *float64
	A3 *float64
}

// Patch is a partial tariff update. Sections left nil keep their values.
type Patch struct {
	Economy *RatePatch
	Express *RatePatch
	Satchel *SatchelPatch
}

// Apply merges p into c, validates the result and stamps UpdatedAt.
func (c Config) Apply(p Patch, now time.Time) (Config, error) {
	next := c
	next.Economy = next.Economy.merge(p.Economy)
	next.Express = next.Express.merge(p.Express)
	if p.Satchel != nil {
		if p.Satchel.A4 != nil {
			next.Satchel.A4 = *p.Satchel.A4
		}
		if p.Satchel.A3 != nil {
			next.Satchel.A3 = *p.Satchel.A3
		}
	}
	if err := next.Validate(); err != nil {
		return c, err
	}
	next.UpdatedAt = now
	return next, nil
}

func (r Rate) merge(p *RatePatch) Rate {
	if p == nil {
		return r
	}
	if p.BaseAmount != nil {
		r.BaseAmount = *p.BaseAmount
	}
	if p.Divisor != nil {
		r.Divisor = *p.Divisor
	}
	if p.Rate != nil {
		r.Rate = *p.Rate
	}
	if p.ETA != nil {
		r.ETA = strings.TrimSpace(*p.ETA)
	}
	return r
}

func (c Config) Validate() error {
	for _, r := range []Rate{c.Economy, c.Express} {
		switch {
		case r.BaseAmount < 0:
			return ErrNegativeAmount
		case r.Divisor <= 0:
			return ErrInvalidDivisor
		case r.Rate <= 0:
			return ErrInvalidRate
		}
	}
	if c.Satchel.A4 < 0 || c.Satchel.A3 < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// RateFor returns the rate of an economy or express delivery.
func (c Config) RateFor(deliveryType string) (Rate, error) {
	switch strings.ToLower(strings.TrimSpace(deliveryType)) {
	case "economy":
		return c.Economy, nil
	case "express":
		return c.Express, nil
	}
	return Rate{}, ErrUnknownDelivery
}

// Quote charges the base amount plus rate for the greater of actual and
// volumetric weight. Dimensions are in centimetres.
func (r Rate) Quote(weightKg, lengthCm, widthCm, heightCm float64) float64 {
	chargeable := weightKg
	if volumetric := lengthCm * widthCm * heightCm / r.Divisor; volumetric > chargeable {
		chargeable = volumetric
	}
	if chargeable < 0 {
		chargeable = 0
	}
	return r.BaseAmount + r.Rate*chargeable
}
