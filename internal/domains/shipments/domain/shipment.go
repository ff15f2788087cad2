package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is the lifecycle position of a shipment.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipping  Status = "Shipping"
	StatusDelivered Status = "Delivered"
)

// ServiceType selects the delivery tier.
type ServiceType string

const (
	ServiceEconomy ServiceType = "economy"
	ServiceExpress ServiceType = "express"
)

// PaymentMethod is how the sender settles the shipment.
type PaymentMethod string

const (
	PaymentEWallet PaymentMethod = "ewallet"
	PaymentGateway PaymentMethod = "gateway"
	PaymentCOD     PaymentMethod = "cod"
	PaymentPayFast PaymentMethod = "payfast"
)

// PaymentStatus tracks settlement.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// UnassignedDriverName is shown until a driver is attached.
const UnassignedDriverName = "Unassigned"

var (
	ErrMissingParties       = errors.New("sender, collection, delivery and parcel details are required")
	ErrMissingSender        = errors.New("sender name and mobile are required")
	ErrMissingReceiver      = errors.New("receiver name and mobile are required")
	ErrInvalidServiceType   = errors.New("service type must be economy or express")
	ErrInvalidPaymentMethod = errors.New("payment method must be ewallet, gateway, cod or payfast")
	ErrInvalidWeight        = errors.New("weight must not be negative")
	ErrInvalidCost          = errors.New("cost must not be negative")
	ErrInvalidETA           = errors.New("eta must be RFC3339 or YYYY-MM-DD")
	ErrInvalidTransition    = errors.New("shipment status does not allow this transition")
	ErrEmptyDriver          = errors.New("driver id is required")
)

type Address struct {
	Street     string
	Suburb     string
	City       string
	Complex    string
	Province   string
	PostalCode string
	Lat        float64
	Lng        float64
}

// Party is a contact with a structured address.
type Party struct {
	Name      string
	Company   string
	Email     string
	Phone     string
	Telephone string
	Address   Address
}

// Collection is the pickup party plus the number of items handed over.
type Collection struct {
	Party
	NumberOfItems int
}

type Dimensions struct {
	Length float64
	Width  float64
	Height float64
	Weight float64
}

type Parcel struct {
	ServiceType         ServiceType
	ParcelType          string
	Dimensions          Dimensions
	SpecialInstructions string
}

type Payment struct {
	Method        PaymentMethod
	Status        PaymentStatus
	Amount        float64
	TransactionID string
}

// Shipment is the canonical stored shape. Legacy flattened fields are always
// populated next to the structured party records.
type Shipment struct {
	ShipmentID string

	Sender     Party
	Collection Collection
	Delivery   Party
	Parcel     Parcel
	Payment    Payment

	SenderName    string
	SenderPhone   string
	ReceiverName  string
	ReceiverPhone string
	Start         string
	End           string
	ParcelWeight  float64
	PackageType   string
	Cost          float64
	ETA           time.Time
	Notes         string

	Status     Status
	DriverID   string
	DriverName string
	Orders     []string

	DateShipped time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeliveredAt *time.Time
}

// HasDriver reports whether a driver reference is present.
func (s *Shipment) HasDriver() bool {
	return strings.TrimSpace(s.DriverID) != ""
}

// AssignTo moves a pending shipment to Shipping under the given driver.
func (s *Shipment) AssignTo(driverID, driverName string, now time.Time) error {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return ErrEmptyDriver
	}
	if s.Status != StatusPending {
		return ErrInvalidTransition
	}
	s.DriverID = driverID
	s.DriverName = strings.TrimSpace(driverName)
	if s.DriverName == "" {
		s.DriverName = UnassignedDriverName
	}
	s.Status = StatusShipping
	s.UpdatedAt = now
	return nil
}

// MarkDelivered completes a shipment that is currently Shipping.
func (s *Shipment) MarkDelivered(now time.Time) error {
	if s.Status != StatusShipping {
		return ErrInvalidTransition
	}
	delivered := now
	s.Status = StatusDelivered
	s.DeliveredAt = &delivered
	s.UpdatedAt = now
	return nil
}

// Patch holds optional edits to the flattened fields. Nil fields are left
// untouched; patches bypass the lifecycle and apply in any status.
type Patch struct {
	SenderName    *string
	SenderPhone   *string
	ReceiverName  *string
	ReceiverPhone *string
	Start         *string
	End           *string
	ParcelWeight  *float64
	PackageType   *string
	Cost          *float64
	ETA           *time.Time
	Notes         *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.SenderName == nil && p.SenderPhone == nil && p.ReceiverName == nil &&
		p.ReceiverPhone == nil && p.Start == nil && p.End == nil && p.ParcelWeight == nil &&
		p.PackageType == nil && p.Cost == nil && p.ETA == nil && p.Notes == nil
}

// Validate checks numeric fields before the patch reaches storage.
func (p Patch) Validate() error {
	if p.ParcelWeight != nil && *p.ParcelWeight < 0 {
		return ErrInvalidWeight
	}
	if p.Cost != nil && *p.Cost < 0 {
		return ErrInvalidCost
	}
	return nil
}

// Apply copies the set fields onto s.
func (p Patch) Apply(s *Shipment, now time.Time) {
	setString(&s.SenderName, p.SenderName)
	setString(&s.SenderPhone, p.SenderPhone)
	setString(&s.ReceiverName, p.ReceiverName)
	setString(&s.ReceiverPhone, p.ReceiverPhone)
	setString(&s.Start, p.Start)
	setString(&s.End, p.End)
	setString(&s.PackageType, p.PackageType)
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.ParcelWeight != nil {
		s.ParcelWeight = *p.ParcelWeight
	}
	if p.Cost != nil {
		s.Cost = *p.Cost
	}
	if p.ETA != nil {
		s.ETA = *p.ETA
	}
	s.UpdatedAt = now
}

func setString(dst *string, src *string) {
	if src == nil {
		return
	}
	if v := strings.TrimSpace(*src); v != "" {
		*dst = v
	}
}

// ParseETA accepts RFC3339 timestamps or plain dates.
func ParseETA(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidETA
}
