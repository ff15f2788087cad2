package domain

import "math"

const (
	// Insurance is the flat cover charged on every order.
	Insurance = 20.0
	// GSTRate is applied to the base delivery cost.
	GSTRate = 0.18
)

// Tier is one weight band of the delivery cost table.
type Tier struct {
	MaxWeightKg float64 `json:"maxWeightKg,omitempty"`
	Cost        float64 `json:"cost"`
}

// PriceTable lists the weight bands per delivery type; the last band is open ended.
var PriceTable = map[DeliveryType][]Tier{
	DeliveryExpress: {{MaxWeightKg: 1, Cost: 100}, {MaxWeightKg: 5, Cost: 250}, {Cost: 400}},
	DeliveryEconomy: {{MaxWeightKg: 1, Cost: 50}, {MaxWeightKg: 5, Cost: 150}, {Cost: 250}},
}

// Quote is the priced breakdown of an order.
type Quote struct {
	Cost        float64 `json:"cost"`
	Insurance   float64 `json:"insurance"`
	GST         float64 `json:"gst"`
	TotalAmount float64 `json:"totalAmount"`
}

// Price looks up the base cost for weight and adds insurance and GST. Any
// delivery type other than express is priced as economy.
func Price(weightKg float64, t DeliveryType) Quote {
	tiers := PriceTable[DeliveryEconomy]
	if t == DeliveryExpress {
		tiers = PriceTable[DeliveryExpress]
	}
	cost := tiers[len(tiers)-1].Cost
	for _, tier := range tiers {
		if tier.MaxWeightKg > 0 && weightKg <= tier.MaxWeightKg {
			cost = tier.Cost
			break
		}
	}
	gst := GSTRate * cost
	return Quote{
		Cost:        cost,
		Insurance:   Insurance,
		GST:         gst,
		TotalAmount: math.Round(cost + Insurance + gst),
	}
}
