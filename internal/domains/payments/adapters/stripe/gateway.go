package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/Apurer/courier-api/internal/domains/payments/domain"
	"github.com/Apurer/courier-api/internal/domains/payments/ports"
)

// EphemeralKeyVersion is the API version mobile SDKs pin ephemeral keys to.
const EphemeralKeyVersion = "2022-11-15"

// Gateway creates a customer, an ephemeral key and a PaymentIntent per call.
type Gateway struct {
	client         *client.API
	publishableKey string
}

// NewGateway initialises a dedicated client instead of the package globals.
// A nil backends value targets the live Stripe API.
func NewGateway(secretKey, publishableKey string, backends *stripego.Backends) *Gateway {
	return &Gateway{
		client:         client.New(secretKey, backends),
		publishableKey: publishableKey,
	}
}

func (g *Gateway) CreateIntent(ctx context.Context, amountMinor int64, currency string) (*domain.GatewayIntent, error) {
	if amountMinor <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	customerParams := &stripego.CustomerParams{}
	customerParams.Context = ctx
	customer, err := g.client.Customers.New(customerParams)
	if err != nil {
		return nil, mapStripeError("create customer", err)
	}

	keyParams := &stripego.EphemeralKeyParams{
		Customer:      stripego.String(customer.ID),
		StripeVersion: stripego.String(EphemeralKeyVersion),
	}
	keyParams.Context = ctx
	key, err := g.client.EphemeralKeys.New(keyParams)
	if err != nil {
		return nil, mapStripeError("create ephemeral key", err)
	}

	intentParams := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(amountMinor),
		Currency: stripego.String(currency),
		Customer: stripego.String(customer.ID),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	intentParams.Context = ctx
	intent, err := g.client.PaymentIntents.New(intentParams)
	if err != nil {
		return nil, mapStripeError("create payment intent", err)
	}

	return &domain.GatewayIntent{
		PaymentIntent:  intent.ClientSecret,
		EphemeralKey:   key.Secret,
		Customer:       customer.ID,
		PublishableKey: g.publishableKey,
	}, nil
}

func mapStripeError(step string, err error) error {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %s: %s (status %d)", ports.ErrProvider, step, stripeErr.Msg, stripeErr.HTTPStatusCode)
	}
	return fmt.Errorf("%w: %s: %w", ports.ErrProvider, step, err)
}

var _ ports.CardGateway = (*Gateway)(nil)
