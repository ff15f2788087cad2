package ports

import (
	"context"
	"errors"

	"github.com/Apurer/courier-api/internal/domains/payments/domain"
)

var (
	// ErrProvider wraps any upstream payment gateway failure.
	ErrProvider = errors.New("payment provider error")
	// ErrShipmentNotFound is returned when the shipment to charge for is absent.
	ErrShipmentNotFound = errors.New("shipment not found")
)

// CardGateway creates card payment intents.
type CardGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (*domain.GatewayIntent, error)
}

// RedirectGateway signs hosted payment page parameters.
type RedirectGateway interface {
	Build(checkout domain.Checkout) (*domain.RedirectPayment, error)
}

// CheckoutSource loads what a shipment charges for.
type CheckoutSource interface {
	Checkout(ctx context.Context, shipmentID string) (*domain.Checkout, error)
}

// Service exposes payment initiation to adapters.
type Service interface {
	CreateGatewayIntent(ctx context.Context, amount float64, currency, userID string) (*domain.GatewayIntent, error)
	CreateRedirectPayment(ctx context.Context, shipmentID string) (*domain.RedirectPayment, error)
}
