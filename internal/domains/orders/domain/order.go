package domain

import (
	"errors"
	"strings"
	"time"
)

// DeliveryType selects the price table.
type DeliveryType string

const (
	DeliveryEconomy DeliveryType = "economy"
	DeliveryExpress DeliveryType = "express"
)

// Status tracks an order through fulfilment.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

var (
	ErrMissingSender   = errors.New("sender name and phone are required")
	ErrMissingReceiver = errors.New("receiver name and phone are required")
	ErrMissingAddress  = errors.New("delivery address is required")
	ErrInvalidWeight   = errors.New("weight must be positive")
	ErrInvalidStatus   = errors.New("order status is invalid")
)

// Order is a customer booking priced from the delivery cost table.
type Order struct {
	ID              string
	SenderName      string
	SenderPhone     string
	ReceiverName    string
	ReceiverPhone   string
	DeliveryAddress string
	PackageType     string
	Weight          float64
	Dimensions      string
	DeliveryType    DeliveryType
	PickupDate      string
	TimeSlot        string
	Notes           string
	Quote
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft is an unpriced order request.
type Draft struct {
	SenderName      string
	SenderPhone     string
	ReceiverName    string
	ReceiverPhone   string
	DeliveryAddress string
	PackageType     string
	Weight          float64
	Dimensions      string
	DeliveryType    DeliveryType
	PickupDate      string
	TimeSlot        string
	Notes           string
}

// NewOrder validates the draft and prices it. The id is assigned on persist.
func NewOrder(d Draft, now time.Time) (*Order, error) {
	o := &Order{
		SenderName:      strings.TrimSpace(d.SenderName),
		SenderPhone:     strings.TrimSpace(d.SenderPhone),
		ReceiverName:    strings.TrimSpace(d.ReceiverName),
		ReceiverPhone:   strings.TrimSpace(d.ReceiverPhone),
		DeliveryAddress: strings.TrimSpace(d.DeliveryAddress),
		PackageType:     strings.TrimSpace(d.PackageType),
		Weight:          d.Weight,
		Dimensions:      strings.TrimSpace(d.Dimensions),
		DeliveryType:    DeliveryType(strings.ToLower(strings.TrimSpace(string(d.DeliveryType)))),
		PickupDate:      strings.TrimSpace(d.PickupDate),
		TimeSlot:        strings.TrimSpace(d.TimeSlot),
		Notes:           d.Notes,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	switch {
	case o.SenderName == "" || o.SenderPhone == "":
		return nil, ErrMissingSender
	case o.ReceiverName == "" || o.ReceiverPhone == "":
		return nil, ErrMissingReceiver
	case o.DeliveryAddress == "":
		return nil, ErrMissingAddress
	case o.Weight <= 0:
		return nil, ErrInvalidWeight
	}
	if o.DeliveryType != DeliveryExpress {
		o.DeliveryType = DeliveryEconomy
	}
	if o.PackageType == "" {
		o.PackageType = "parcel"
	}
	o.Quote = Price(o.Weight, o.DeliveryType)
	return o, nil
}

// Tracking joins an order with the shipment that carries it.
type Tracking struct {
	Order          *Order
	ShipmentID     string
	ShipmentStatus string
	DriverName     string
}

// UnassignedLabel is reported for orders not yet linked to a shipment.
const UnassignedLabel = "Unassigned"
