package mapper

import (
	"strings"
	"time"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

type Address struct {
	Street     string  `json:"street,omitempty"`
	Suburb     string  `json:"suburb,omitempty"`
	City       string  `json:"city,omitempty"`
	Complex    string  `json:"complex,omitempty"`
	Province   string  `json:"province,omitempty"`
	PostalCode string  `json:"postalCode,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
}

type SenderDetails struct {
	FullName  string  `json:"fullName"`
	Company   string  `json:"company,omitempty"`
	Email     string  `json:"email,omitempty"`
	Mobile    string  `json:"mobile"`
	Telephone string  `json:"telephone,omitempty"`
	Address   Address `json:"address"`
}

type CollectionDetails struct {
	DispatcherName string  `json:"dispatcherName"`
	Company        string  `json:"company,omitempty"`
	Mobile         string  `json:"mobile"`
	Office         string  `json:"office,omitempty"`
	Email          string  `json:"email,omitempty"`
	Address        Address `json:"address"`
	NumberOfItems  int     `json:"numberOfItems"`
}

type DeliveryDetails struct {
	ReceiverName string  `json:"receiverName"`
	Company      string  `json:"company,omitempty"`
	Mobile       string  `json:"mobile"`
	Office       string  `json:"office,omitempty"`
	Email        string  `json:"email,omitempty"`
	Address      Address `json:"address"`
}

type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Weight float64 `json:"weight"`
}

type ParcelDetails struct {
	ServiceType         string     `json:"serviceType"`
	ParcelType          string     `json:"parcelType,omitempty"`
	Dimensions          Dimensions `json:"dimensions"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
}

type Payment struct {
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId,omitempty"`
}

// CreateShipmentRequest accepts either the detailed shape (all four detail
// blocks present) or the legacy flat fields.
type CreateShipmentRequest struct {
	SenderDetails     *SenderDetails     `json:"senderDetails"`
	CollectionDetails *CollectionDetails `json:"collectionDetails"`
	DeliveryDetails   *DeliveryDetails   `json:"deliveryDetails"`
	ParcelDetails     *ParcelDetails     `json:"parcelDetails"`
	Payment           *Payment           `json:"payment"`

	SenderName    string   `json:"senderName"`
	SenderPhone   string   `json:"senderPhone"`
	ReceiverName  string   `json:"receiverName"`
	ReceiverPhone string   `json:"receiverPhone"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	ParcelWeight  float64  `json:"parcelWeight"`
	PackageType   string   `json:"packageType"`
	Cost          float64  `json:"cost"`
	ETA           string   `json:"eta"`
	Notes         string   `json:"notes"`
	Orders        []string `json:"orders"`
}

// Detailed reports whether the request carries the complete detailed shape.
func (r CreateShipmentRequest) Detailed() bool {
	return r.SenderDetails != nil && r.CollectionDetails != nil && r.DeliveryDetails != nil && r.ParcelDetails != nil
}

// ToCreateInput maps the request onto exactly one draft shape.
func ToCreateInput(r CreateShipmentRequest, idempotencyKey string) (ports.CreateInput, error) {
	in := ports.CreateInput{IdempotencyKey: strings.TrimSpace(idempotencyKey)}
	if r.Detailed() {
		sender := toSenderParty(*r.SenderDetails)
		collection := domain.Collection{
			Party: domain.Party{
				Name:      r.CollectionDetails.DispatcherName,
				Company:   r.CollectionDetails.Company,
				Email:     r.CollectionDetails.Email,
				Phone:     r.CollectionDetails.Mobile,
				Telephone: r.CollectionDetails.Office,
				Address:   toAddress(r.CollectionDetails.Address),
			},
			NumberOfItems: r.CollectionDetails.NumberOfItems,
		}
		delivery := domain.Party{
			Name:      r.DeliveryDetails.ReceiverName,
			Company:   r.DeliveryDetails.Company,
			Email:     r.DeliveryDetails.Email,
			Phone:     r.DeliveryDetails.Mobile,
			Telephone: r.DeliveryDetails.Office,
			Address:   toAddress(r.DeliveryDetails.Address),
		}
		parcel := domain.Parcel{
			ServiceType:         domain.ServiceType(strings.ToLower(strings.TrimSpace(r.ParcelDetails.ServiceType))),
			ParcelType:          r.ParcelDetails.ParcelType,
			Dimensions:          domain.Dimensions(r.ParcelDetails.Dimensions),
			SpecialInstructions: r.ParcelDetails.SpecialInstructions,
		}
		draft := &domain.DetailedDraft{
			Sender:     &sender,
			Collection: &collection,
			Delivery:   &delivery,
			Parcel:     &parcel,
			Cost:       r.Cost,
			Notes:      r.Notes,
			Orders:     r.Orders,
		}
		if r.Payment != nil {
			draft.Payment = &domain.Payment{
				Method:        domain.PaymentMethod(strings.ToLower(strings.TrimSpace(r.Payment.Method))),
				Status:        domain.PaymentStatus(r.Payment.Status),
				Amount:        r.Payment.Amount,
				TransactionID: r.Payment.TransactionID,
			}
		}
		in.Detailed = draft
		return in, nil
	}

	legacy := &domain.LegacyDraft{
		SenderName:    r.SenderName,
		SenderPhone:   r.SenderPhone,
		ReceiverName:  r.ReceiverName,
		ReceiverPhone: r.ReceiverPhone,
		Start:         r.Start,
		End:           r.End,
		ParcelWeight:  r.ParcelWeight,
		PackageType:   r.PackageType,
		Cost:          r.Cost,
		Notes:         r.Notes,
		Orders:        r.Orders,
	}
	if strings.TrimSpace(r.ETA) != "" {
		eta, err := domain.ParseETA(r.ETA)
		if err != nil {
			return ports.CreateInput{}, err
		}
		legacy.ETA = &eta
	}
	in.Legacy = legacy
	return in, nil
}

// UpdateShipmentRequest carries the editable legacy fields; absent fields are kept.
type UpdateShipmentRequest struct {
	SenderName    *string  `json:"senderName"`
	SenderPhone   *string  `json:"senderPhone"`
	ReceiverName  *string  `json:"receiverName"`
	ReceiverPhone *string  `json:"receiverPhone"`
	Start         *string  `json:"start"`
	End           *string  `json:"end"`
	ParcelWeight  *float64 `json:"parcelWeight"`
	PackageType   *string  `json:"packageType"`
	Cost          *float64 `json:"cost"`
	ETA           *string  `json:"eta"`
	Notes         *string  `json:"notes"`
}

func ToPatch(r UpdateShipmentRequest) (domain.Patch, error) {
	patch := domain.Patch{
		SenderName:    r.SenderName,
		SenderPhone:   r.SenderPhone,
		ReceiverName:  r.ReceiverName,
		ReceiverPhone: r.ReceiverPhone,
		Start:         r.Start,
		End:           r.End,
		ParcelWeight:  r.ParcelWeight,
		PackageType:   r.PackageType,
		Cost:          r.Cost,
		Notes:         r.Notes,
	}
	if r.ETA != nil {
		eta, err := domain.ParseETA(*r.ETA)
		if err != nil {
			return domain.Patch{}, err
		}
		patch.ETA = &eta
	}
	return patch, nil
}

// AssignRequest is the admin assignment payload.
type AssignRequest struct {
	ShipmentID string `json:"shipmentId"`
	DriverID   string `json:"driverId"`
}

// StatusRequest is the driver completion payload. Only "Delivered" is accepted.
type StatusRequest struct {
	ShipmentID string `json:"shipmentId"`
	Status     string `json:"status"`
}

// Shipment is the transport representation of a shipment.
type Shipment struct {
	ShipmentID        string             `json:"shipmentId"`
	SenderDetails     *SenderDetails     `json:"senderDetails,omitempty"`
	CollectionDetails *CollectionDetails `json:"collectionDetails,omitempty"`
	DeliveryDetails   *DeliveryDetails   `json:"deliveryDetails,omitempty"`
	ParcelDetails     *ParcelDetails     `json:"parcelDetails,omitempty"`
	Payment           Payment            `json:"payment"`

	SenderName    string  `json:"senderName"`
	SenderPhone   string  `json:"senderPhone"`
	ReceiverName  string  `json:"receiverName"`
	ReceiverPhone string  `json:"receiverPhone"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	ParcelWeight  float64 `json:"parcelWeight"`
	PackageType   string  `json:"packageType"`
	Cost          float64 `json:"cost"`
	ETA           string  `json:"eta"`
	Notes         string  `json:"notes"`

	Status      string     `json:"status"`
	Driver      *string    `json:"driver"`
	DriverName  string     `json:"driverName"`
	Orders      []string   `json:"orders"`
	DateShipped time.Time  `json:"dateShipped"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func FromDomainShipment(s *domain.Shipment) Shipment {
	if s == nil {
		return Shipment{}
	}
	out := Shipment{
		ShipmentID: s.ShipmentID,
		Payment: Payment{
			Method:        string(s.Payment.Method),
			Status:        string(s.Payment.Status),
			Amount:        s.Payment.Amount,
			TransactionID: s.Payment.TransactionID,
		},
		SenderName:    s.SenderName,
		SenderPhone:   s.SenderPhone,
		ReceiverName:  s.ReceiverName,
		ReceiverPhone: s.ReceiverPhone,
		Start:         s.Start,
		End:           s.End,
		ParcelWeight:  s.ParcelWeight,
		PackageType:   s.PackageType,
		Cost:          s.Cost,
		Notes:         s.Notes,
		Status:        string(s.Status),
		DriverName:    s.DriverName,
		Orders:        s.Orders,
		DateShipped:   s.DateShipped,
		DeliveredAt:   s.DeliveredAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if out.Orders == nil {
		out.Orders = []string{}
	}
	if !s.ETA.IsZero() {
		out.ETA = s.ETA.Format(time.RFC3339)
	}
	if s.HasDriver() {
		id := s.DriverID
		out.Driver = &id
	}
	if s.Sender.Name != "" || s.Sender.Phone != "" {
		out.SenderDetails = &SenderDetails{
			FullName: s.Sender.Name, Company: s.Sender.Company, Email: s.Sender.Email,
			Mobile: s.Sender.Phone, Telephone: s.Sender.Telephone, Address: fromAddress(s.Sender.Address),
		}
		out.CollectionDetails = &CollectionDetails{
			DispatcherName: s.Collection.Name, Company: s.Collection.Company, Mobile: s.Collection.Phone,
			Office: s.Collection.Telephone, Email: s.Collection.Email,
			Address: fromAddress(s.Collection.Address), NumberOfItems: s.Collection.NumberOfItems,
		}
		out.DeliveryDetails = &DeliveryDetails{
			ReceiverName: s.Delivery.Name, Company: s.Delivery.Company, Mobile: s.Delivery.Phone,
			Office: s.Delivery.Telephone, Email: s.Delivery.Email, Address: fromAddress(s.Delivery.Address),
		}
		out.ParcelDetails = &ParcelDetails{
			ServiceType:         string(s.Parcel.ServiceType),
			ParcelType:          s.Parcel.ParcelType,
			Dimensions:          Dimensions(s.Parcel.Dimensions),
			SpecialInstructions: s.Parcel.SpecialInstructions,
		}
	}
	return out
}

func FromDomainShipments(list []*domain.Shipment) []Shipment {
	out := make([]Shipment, 0, len(list))
	for _, s := range list {
		out = append(out, FromDomainShipment(s))
	}
	return out
}

func toSenderParty(d SenderDetails) domain.Party {
	return domain.Party{
		Name:      d.FullName,
		Company:   d.Company,
		Email:     d.Email,
		Phone:     d.Mobile,
		Telephone: d.Telephone,
		Address:   toAddress(d.Address),
	}
}

func toAddress(a Address) domain.Address {
	return domain.Address{
		Street: a.Street, Suburb: a.Suburb, City: a.City, Complex: a.Complex,
		Province: a.Province, PostalCode: a.PostalCode, Lat: a.Latitude, Lng: a.Longitude,
	}
}

func fromAddress(a domain.Address) Address {
	return Address{
		Street: a.Street, Suburb: a.Suburb, City: a.City, Complex: a.Complex,
		Province: a.Province, PostalCode: a.PostalCode, Latitude: a.Lat, Longitude: a.Lng,
	}
}
