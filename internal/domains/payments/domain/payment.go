package domain

import (
	"errors"
	"math"
	"strings"
)

const (
	// DefaultCurrency is used when the caller and configuration name none.
	DefaultCurrency = "inr"
	// MaxAmount caps a single charge in major units, keeping minor units well inside int64.
	MaxAmount = 1_000_000_000.0
)

var (
	ErrInvalidAmount     = errors.New("amount must be a positive number no larger than 1000000000")
	ErrMissingShipmentID = errors.New("shipment id is required")
)

// GatewayIntent is the secret material a mobile client needs to finish a
// card payment.
type GatewayIntent struct {
	PaymentIntent  string
	EphemeralKey   string
	Customer       string
	PublishableKey string
}

// Checkout describes what a hosted payment page charges for.
type Checkout struct {
	ShipmentID  string
	BuyerName   string
	Email       string
	Amount      float64
	ServiceType string
}

// FirstName is the first whitespace-separated word of the buyer name.
func (c Checkout) FirstName() string {
	parts := strings.Fields(c.BuyerName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName joins the remaining words, falling back to "Sender".
func (c Checkout) LastName() string {
	parts := strings.Fields(c.BuyerName)
	if len(parts) < 2 {
		return "Sender"
	}
	return strings.Join(parts[1:], " ")
}

// Field is one signed redirect parameter. Order matters for the signature.
type Field struct {
	Key   string
	Value string
}

// RedirectPayment is a hosted payment page URL and its signed parameters.
type RedirectPayment struct {
	URL         string
	RedirectURL string
	Fields      []Field
}

// Value returns the first field with the given key.
func (r RedirectPayment) Value(key string) string {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// MinorUnits converts a major-unit amount to the provider's smallest unit.
func MinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || amount <= 0 || amount > MaxAmount {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(amount * 100)), nil
}
