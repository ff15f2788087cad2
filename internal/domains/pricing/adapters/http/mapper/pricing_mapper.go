package mapper

import (
	"time"

	"github.com/Apurer/courier-api/internal/domains/pricing/domain"
)

type Rate struct {
	BaseAmount float64 `json:"baseAmount"`
	Divisor    float64 `json:"divisor"`
	Rate       float64 `json:"rate"`
	ETA        string  `json:"eta"`
}

type Satchel struct {
	A4 float64 `json:"a4"`
	A3 float64 `json:"a3"`
}

// Pricing is the transport shape of the tariff.
type Pricing struct {
	Economy   Rate      `json:"economy"`
	Express   Rate      `json:"express"`
	Satchel   Satchel   `json:"satchel"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RatePatch struct {
	BaseAmount *float64 `json:"baseAmount"`
	Divisor    *float64 `json:"divisor"`
	Rate       *float64 `json:"rate"`
	ETA        *string  `json:"eta"`
}

type SatchelPatch struct {
	A4 *float64 `json:"a4"`
	A3 *float64 `json:"a3"`
}

// UpdatePricingRequest carries a partial edit; omitted keys keep their value.
type UpdatePricingRequest struct {
	Economy *RatePatch    `json:"economy"`
	Express *RatePatch    `json:"express"`
	Satchel *SatchelPatch `json:"satchel"`
}

func FromDomain(c *domain.Config) Pricing {
	if c == nil {
		return Pricing{}
	}
	return Pricing{
		Economy:   fromRate(c.Economy),
		Express:   fromRate(c.Express),
		Satchel:   Satchel{A4: c.Satchel.A4, A3: c.Satchel.A3},
		UpdatedAt: c.UpdatedAt,
	}
}

func fromRate(r domain.Rate) Rate {
	return Rate{BaseAmount: r.BaseAmount, Divisor: r.Divisor, Rate: r.Rate, ETA: r.ETA}
}

func ToPatch(req UpdatePricingRequest) domain.Patch {
	patch := domain.Patch{
		Economy: toRatePatch(req.Economy),
		Express: toRatePatch(req.Express),
	}
	if req.Satchel != nil {
		patch.Satchel = &domain.SatchelPatch{A4: req.Satchel.A4, A3: req.Satchel.A3}
	}
	return patch
}

func toRatePatch(p *RatePatch) *domain.RatePatch {
	if p == nil {
		return nil
	}
	return &domain.RatePatch{BaseAmount: p.BaseAmount, Divisor: p.Divisor, Rate: p.Rate, ETA: p.ETA}
}
