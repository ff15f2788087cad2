package mapper

import (
	"time"

	"github.com/Apurer/courier-api/internal/domains/orders/domain"
)

type CreateOrderRequest struct {
	SenderName      string  `json:"senderName"`
	SenderPhone     string  `json:"senderPhone"`
	ReceiverName    string  `json:"receiverName"`
	ReceiverPhone   string  `json:"receiverPhone"`
	DeliveryAddress string  `json:"deliveryAddress"`
	PackageType     string  `json:"packageType"`
	Weight          float64 `json:"weight"`
	Dimensions      string  `json:"dimensions"`
	DeliveryType    string  `json:"deliveryType"`
	PickupDate      string  `json:"pickupDate"`
	TimeSlot        string  `json:"timeSlot"`
	Notes           string  `json:"notes"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type Order struct {
	OrderID         string    `json:"orderId"`
	SenderName      string    `json:"senderName"`
	SenderPhone     string    `json:"senderPhone"`
	ReceiverName    string    `json:"receiverName"`
	ReceiverPhone   string    `json:"receiverPhone"`
	DeliveryAddress string    `json:"deliveryAddress"`
	PackageType     string    `json:"packageType"`
	Weight          float64   `json:"weight"`
	Dimensions      string    `json:"dimensions,omitempty"`
	DeliveryType    string    `json:"deliveryType"`
	PickupDate      string    `json:"pickupDate,omitempty"`
	TimeSlot        string    `json:"timeSlot,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Cost            float64   `json:"cost"`
	Insurance       float64   `json:"insurance"`
	GST             float64   `json:"gst"`
	TotalAmount     float64   `json:"totalAmount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TrackedOrder is an order with its shipment progress.
type TrackedOrder struct {
	Order
	TrackingNumber *string `json:"trackingNumber"`
	ShipmentStatus string  `json:"shipmentStatus"`
	Driver         string  `json:"driver"`
}

// PricingTier is one row of the published price table.
type PricingTier struct {
	DeliveryType string  `json:"deliveryType"`
	MaxWeightKg  float64 `json:"maxWeightKg,omitempty"`
	Cost         float64 `json:"cost"`
}

type Pricing struct {
	Tiers     []PricingTier `json:"tiers"`
	Insurance float64       `json:"insurance"`
	GSTRate   float64       `json:"gstRate"`
}

func ToDraft(r CreateOrderRequest) domain.Draft {
	return domain.Draft{
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
	}
}

func FromDomainOrder(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	return Order{
		OrderID:         o.ID,
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

func FromDomainOrders(list []*domain.Order) []Order {
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, FromDomainOrder(o))
	}
	return out
}

func FromTracking(list []domain.Tracking) []TrackedOrder {
	out := make([]TrackedOrder, 0, len(list))
	for _, t := range list {
		item := TrackedOrder{Order: FromDomainOrder(t.Order), ShipmentStatus: t.ShipmentStatus, Driver: t.DriverName}
		if t.ShipmentID != "" {
			id := t.ShipmentID
			item.TrackingNumber = &id
		}
		out = append(out, item)
	}
	return out
}

// CurrentPricing renders the static price table, express first.
func CurrentPricing() Pricing {
	p := Pricing{Insurance: domain.Insurance, GSTRate: domain.GSTRate}
	for _, kind := range []domain.DeliveryType{domain.DeliveryExpress, domain.DeliveryEconomy} {
		for _, tier := range domain.PriceTable[kind] {
			p.Tiers = append(p.Tiers, PricingTier{DeliveryType: string(kind), MaxWeightKg: tier.MaxWeightKg, Cost: tier.Cost})
		}
	}
	return p
}
