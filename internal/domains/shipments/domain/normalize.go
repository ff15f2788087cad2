package domain

import (
	"strings"
	"time"
)

const (
	expressTransit = 2 * 24 * time.Hour
	economyTransit = 4 * 24 * time.Hour
	legacyTransit  = 3 * 24 * time.Hour

	legacyEmail      = "legacy@example.com"
	placeholder      = "N/A"
	unknownPlace     = "Unknown"
	unknownPhone     = "0000000000"
	legacyPostalCode = "0000"
	defaultPackage   = "parcel"
)

// Draft is an unsaved shipment payload in one of the accepted shapes.
type Draft interface {
	normalize(now time.Time) (*Shipment, error)
}

// DetailedDraft carries full party records.
type DetailedDraft struct {
	Sender     *Party
	Collection *Collection
	Delivery   *Party
	Parcel     *Parcel
	Payment    *Payment
	Cost       float64
	Notes      string
	Orders     []string
}

// LegacyDraft is the flattened payload used by older clients.
type LegacyDraft struct {
	SenderName    string
	SenderPhone   string
	ReceiverName  string
	ReceiverPhone string
	Start         string
	End           string
	ParcelWeight  float64
	PackageType   string
	Cost          float64
	ETA           *time.Time
	Notes         string
	Orders        []string
}

// Normalize maps either draft shape into the canonical Shipment with status
// Pending. The identifier is left empty for the caller to assign.
func Normalize(d Draft, now time.Time) (*Shipment, error) {
	if d == nil {
		return nil, ErrMissingParties
	}
	s, err := d.normalize(now)
	if err != nil {
		return nil, err
	}
	s.Status = StatusPending
	s.DriverName = UnassignedDriverName
	s.DateShipped = now
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (d DetailedDraft) normalize(now time.Time) (*Shipment, error) {
	if d.Sender == nil || d.Collection == nil || d.Delivery == nil || d.Parcel == nil {
		return nil, ErrMissingParties
	}
	sender, collection, delivery, parcel := trimParty(*d.Sender), *d.Collection, trimParty(*d.Delivery), *d.Parcel
	collection.Party = trimParty(collection.Party)
	if sender.Name == "" || sender.Phone == "" {
		return nil, ErrMissingSender
	}
	if delivery.Name == "" || delivery.Phone == "" {
		return nil, ErrMissingReceiver
	}
	switch parcel.ServiceType {
	case "":
		parcel.ServiceType = ServiceEconomy
	case ServiceEconomy, ServiceExpress:
	default:
		return nil, ErrInvalidServiceType
	}
	if parcel.Dimensions.Weight < 0 {
		return nil, ErrInvalidWeight
	}
	if d.Cost < 0 {
		return nil, ErrInvalidCost
	}
	if collection.NumberOfItems <= 0 {
		collection.NumberOfItems = 1
	}

	payment := Payment{Method: PaymentGateway}
	if d.Payment != nil {
		payment.Method = d.Payment.Method
		payment.Amount = d.Payment.Amount
		payment.TransactionID = d.Payment.TransactionID
	}
	if payment.Method == "" {
		payment.Method = PaymentGateway
	}
	if !validMethod(payment.Method) {
		return nil, ErrInvalidPaymentMethod
	}
	if payment.Amount == 0 {
		payment.Amount = d.Cost
	}
	payment.Status = PaymentPending

	transit := economyTransit
	if parcel.ServiceType == ServiceExpress {
		transit = expressTransit
	}

	return &Shipment{
		Sender:        sender,
		Collection:    collection,
		Delivery:      delivery,
		Parcel:        parcel,
		Payment:       payment,
		SenderName:    orDefault(sender.Name, placeholder),
		SenderPhone:   orDefault(sender.Phone, unknownPhone),
		ReceiverName:  orDefault(delivery.Name, placeholder),
		ReceiverPhone: orDefault(delivery.Phone, unknownPhone),
		Start:         orDefault(collection.Address.City, unknownPlace),
		End:           orDefault(delivery.Address.City, unknownPlace),
		ParcelWeight:  positiveOr(parcel.Dimensions.Weight, 1),
		PackageType:   orDefault(parcel.ParcelType, defaultPackage),
		Cost:          payment.Amount,
		ETA:           now.Add(transit),
		Notes:         strings.TrimSpace(d.Notes),
		Orders:        append([]string(nil), d.Orders...),
	}, nil
}

func (d LegacyDraft) normalize(now time.Time) (*Shipment, error) {
	receiverName := strings.TrimSpace(d.ReceiverName)
	receiverPhone := strings.TrimSpace(d.ReceiverPhone)
	if receiverName == "" || receiverPhone == "" {
		return nil, ErrMissingReceiver
	}
	if d.ParcelWeight < 0 {
		return nil, ErrInvalidWeight
	}
	if d.Cost < 0 {
		return nil, ErrInvalidCost
	}
	senderName := orDefault(d.SenderName, placeholder)
	senderPhone := orDefault(d.SenderPhone, unknownPhone)
	start := orDefault(d.Start, unknownPlace)
	end := orDefault(d.End, unknownPlace)
	weight := positiveOr(d.ParcelWeight, 1)
	packageType := orDefault(d.PackageType, defaultPackage)

	base := now
	if d.ETA != nil && !d.ETA.IsZero() {
		base = *d.ETA
	}

	return &Shipment{
		Sender:     legacyParty(senderName, senderPhone, start),
		Collection: Collection{Party: legacyParty(senderName, senderPhone, start), NumberOfItems: 1},
		Delivery:   legacyParty(receiverName, receiverPhone, end),
		Parcel: Parcel{
			ServiceType: ServiceEconomy,
			ParcelType:  packageType,
			Dimensions:  Dimensions{Weight: weight},
		},
		Payment: Payment{
			Method: PaymentCOD,
			Status: PaymentPending,
			Amount: d.Cost,
		},
		SenderName:    senderName,
		SenderPhone:   senderPhone,
		ReceiverName:  receiverName,
		ReceiverPhone: receiverPhone,
		Start:         start,
		End:           end,
		ParcelWeight:  weight,
		PackageType:   packageType,
		Cost:          d.Cost,
		ETA:           base.Add(legacyTransit),
		Notes:         strings.TrimSpace(d.Notes),
		Orders:        append([]string(nil), d.Orders...),
	}, nil
}

func legacyParty(name, phone, city string) Party {
	return Party{
		Name:  name,
		Email: legacyEmail,
		Phone: phone,
		Address: Address{
			Street:     placeholder,
			Suburb:     placeholder,
			City:       city,
			Province:   placeholder,
			PostalCode: legacyPostalCode,
		},
	}
}

func trimParty(p Party) Party {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.Address.City = strings.TrimSpace(p.Address.City)
	return p
}

func validMethod(m PaymentMethod) bool {
	switch m {
	case PaymentEWallet, PaymentGateway, PaymentCOD, PaymentPayFast:
		return true
	}
	return false
}

// RequiresRedirect reports whether the payment method settles through the
// hosted payment page.
func (m PaymentMethod) RequiresRedirect() bool {
	switch m {
	case PaymentGateway, PaymentEWallet, PaymentPayFast:
		return true
	}
	return false
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
