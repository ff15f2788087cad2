package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

// shipmentRecord stores the flattened fields as columns and the structured
// party records as JSON. Seq orders inserts for identifier generation.
type shipmentRecord struct {
	ShipmentID string `gorm:"primaryKey;column:shipment_id;size:32"`
	Seq        int64  `gorm:"column:seq;autoIncrement;uniqueIndex"`

	Sender     partyJSON      `gorm:"column:sender;type:jsonb;serializer:json"`
	Collection collectionJSON `gorm:"column:collection;type:jsonb;serializer:json"`
	Delivery   partyJSON      `gorm:"column:delivery;type:jsonb;serializer:json"`
	Parcel     parcelJSON     `gorm:"column:parcel;type:jsonb;serializer:json"`

	PaymentMethod        string  `gorm:"column:payment_method;type:varchar(16)"`
	PaymentStatus        string  `gorm:"column:payment_status;type:varchar(16)"`
	PaymentAmount        float64 `gorm:"column:payment_amount"`
	PaymentTransactionID string  `gorm:"column:payment_transaction_id"`

	SenderName    string    `gorm:"column:sender_name"`
	SenderPhone   string    `gorm:"column:sender_phone"`
	ReceiverName  string    `gorm:"column:receiver_name"`
	ReceiverPhone string    `gorm:"column:receiver_phone"`
	Start         string    `gorm:"column:start"`
	End           string    `gorm:"column:end"`
	ParcelWeight  float64   `gorm:"column:parcel_weight"`
	PackageType   string    `gorm:"column:package_type"`
	Cost          float64   `gorm:"column:cost"`
	ETA           time.Time `gorm:"column:eta"`
	Notes         string    `gorm:"column:notes"`

	Status     string         `gorm:"column:status;type:varchar(16);index"`
	DriverID   string         `gorm:"column:driver_id;size:32;index"`
	DriverName string         `gorm:"column:driver_name"`
	Orders     pq.StringArray `gorm:"column:orders;type:text[]"`

	DateShipped time.Time  `gorm:"column:date_shipped"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
}

func (shipmentRecord) TableName() string { return "shipments" }

type addressJSON struct {
	Street     string  `json:"street,omitempty"`
	Suburb     string  `json:"suburb,omitempty"`
	City       string  `json:"city,omitempty"`
	Complex    string  `json:"complex,omitempty"`
	Province   string  `json:"province,omitempty"`
	PostalCode string  `json:"postalCode,omitempty"`
	Lat        float64 `json:"latitude,omitempty"`
	Lng        float64 `json:"longitude,omitempty"`
}

type partyJSON struct {
	Name      string      `json:"name,omitempty"`
	Company   string      `json:"company,omitempty"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"mobile,omitempty"`
	Telephone string      `json:"telephone,omitempty"`
	Address   addressJSON `json:"address"`
}

type collectionJSON struct {
	partyJSON
	NumberOfItems int `json:"numberOfItems"`
}

type parcelJSON struct {
	ServiceType         string  `json:"serviceType,omitempty"`
	ParcelType          string  `json:"parcelType,omitempty"`
	Length              float64 `json:"length,omitempty"`
	Width               float64 `json:"width,omitempty"`
	Height              float64 `json:"height,omitempty"`
	Weight              float64 `json:"weight,omitempty"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

func toRecord(s *domain.Shipment) shipmentRecord {
	return shipmentRecord{
		ShipmentID:           s.ShipmentID,
		Sender:               fromParty(s.Sender),
		Collection:           collectionJSON{partyJSON: fromParty(s.Collection.Party), NumberOfItems: s.Collection.NumberOfItems},
		Delivery:             fromParty(s.Delivery),
		Parcel:               fromParcel(s.Parcel),
		PaymentMethod:        string(s.Payment.Method),
		PaymentStatus:        string(s.Payment.Status),
		PaymentAmount:        s.Payment.Amount,
		PaymentTransactionID: s.Payment.TransactionID,
		SenderName:           s.SenderName,
		SenderPhone:          s.SenderPhone,
		ReceiverName:         s.ReceiverName,
		ReceiverPhone:        s.ReceiverPhone,
		Start:                s.Start,
		End:                  s.End,
		ParcelWeight:         s.ParcelWeight,
		PackageType:          s.PackageType,
		Cost:                 s.Cost,
		ETA:                  s.ETA,
		Notes:                s.Notes,
		Status:               string(s.Status),
		DriverID:             s.DriverID,
		DriverName:           s.DriverName,
		Orders:               pq.StringArray(append([]string{}, s.Orders...)),
		DateShipped:          s.DateShipped,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		DeliveredAt:          s.DeliveredAt,
	}
}

func (r shipmentRecord) toDomain() *domain.Shipment {
	return &domain.Shipment{
		ShipmentID: r.ShipmentID,
		Sender:     r.Sender.toDomain(),
		Collection: domain.Collection{Party: r.Collection.partyJSON.toDomain(), NumberOfItems: r.Collection.NumberOfItems},
		Delivery:   r.Delivery.toDomain(),
		Parcel: domain.Parcel{
			ServiceType: domain.ServiceType(r.Parcel.ServiceType),
			ParcelType:  r.Parcel.ParcelType,
			Dimensions: domain.Dimensions{
				Length: r.Parcel.Length,
				Width:  r.Parcel.Width,
				Height: r.Parcel.Height,
				Weight: r.Parcel.Weight,
			},
			SpecialInstructions: r.Parcel.SpecialInstructions,
		},
		Payment: domain.Payment{
			Method:        domain.PaymentMethod(r.PaymentMethod),
			Status:        domain.PaymentStatus(r.PaymentStatus),
			Amount:        r.PaymentAmount,
			TransactionID: r.PaymentTransactionID,
		},
		SenderName:    r.SenderName,
		SenderPhone:   r.SenderPhone,
		ReceiverName:  r.ReceiverName,
		ReceiverPhone: r.ReceiverPhone,
		Start:         r.Start,
		End:           r.End,
		ParcelWeight:  r.ParcelWeight,
		PackageType:   r.PackageType,
		Cost:          r.Cost,
		ETA:           r.ETA,
		Notes:         r.Notes,
		Status:        domain.Status(r.Status),
		DriverID:      r.DriverID,
		DriverName:    r.DriverName,
		Orders:        append([]string(nil), r.Orders...),
		DateShipped:   r.DateShipped,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		DeliveredAt:   r.DeliveredAt,
	}
}

func fromParty(p domain.Party) partyJSON {
	return partyJSON{
		Name:      p.Name,
		Company:   p.Company,
		Email:     p.Email,
		Phone:     p.Phone,
		Telephone: p.Telephone,
		Address: addressJSON{
			Street:     p.Address.Street,
			Suburb:     p.Address.Suburb,
			City:       p.Address.City,
			Complex:    p.Address.Complex,
			Province:   p.Address.Province,
			PostalCode: p.Address.PostalCode,
			Lat:        p.Address.Lat,
			Lng:        p.Address.Lng,
		},
	}
}

func (p partyJSON) toDomain() domain.Party {
	return domain.Party{
		Name:      p.Name,
		Company:   p.Company,
		Email:     p.Email,
		Phone:     p.Phone,
		Telephone: p.Telephone,
		Address: domain.Address{
			Street:     p.Address.Street,
			Suburb:     p.Address.Suburb,
			City:       p.Address.City,
			Complex:    p.Address.Complex,
			Province:   p.Address.Province,
			PostalCode: p.Address.PostalCode,
			Lat:        p.Address.Lat,
			Lng:        p.Address.Lng,
		},
	}
}

func fromParcel(p domain.Parcel) parcelJSON {
	return parcelJSON{
		ServiceType:         string(p.ServiceType),
		ParcelType:          p.ParcelType,
		Length:              p.Dimensions.Length,
		Width:               p.Dimensions.Width,
		Height:              p.Dimensions.Height,
		Weight:              p.Dimensions.Weight,
		SpecialInstructions: p.SpecialInstructions,
	}
}
