package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	notifdomain "github.com/Apurer/courier-api/internal/domains/notifications/domain"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	"github.com/Apurer/courier-api/internal/domains/payments/domain"
	"github.com/Apurer/courier-api/internal/domains/payments/ports"
)

// ErrGatewayDisabled is returned when no card gateway is configured.
var ErrGatewayDisabled = errors.New("card payments are not configured")

// Service initiates card and hosted-page payments.
type Service struct {
	cards     ports.CardGateway
	redirects ports.RedirectGateway
	checkouts ports.CheckoutSource
	emitter   notifports.Emitter
	logger    *slog.Logger
	currency  string
}

type Option func(*Service)

// WithCardGateway enables CreateGatewayIntent.
func WithCardGateway(g ports.CardGateway) Option {
	return func(s *Service) { s.cards = g }
}

func WithEmitter(emitter notifports.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCurrency sets the currency used when the caller names none.
func WithCurrency(currency string) Option {
	return func(s *Service) {
		if c := strings.ToLower(strings.TrimSpace(currency)); c != "" {
			s.currency = c
		}
	}
}

func NewService(redirects ports.RedirectGateway, checkouts ports.CheckoutSource, opts ...Option) *Service {
	s := &Service{
		redirects: redirects,
		checkouts: checkouts,
		logger:    slog.New(slog.DiscardHandler),
		currency:  domain.DefaultCurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateGatewayIntent converts amount to minor units and asks the card
// gateway for a client secret. The user, when known, is notified.
func (s *Service) CreateGatewayIntent(ctx context.Context, amount float64, currency, userID string) (*domain.GatewayIntent, error) {
	minor, err := domain.MinorUnits(amount)
	if err != nil {
		return nil, mapError(err)
	}
	if s.cards == nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrProvider, ErrGatewayDisabled)
	}
	if strings.TrimSpace(currency) == "" {
		currency = s.currency
	}
	intent, err := s.cards.CreateIntent(ctx, minor, currency)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return nil, mapError(err)
		}
		if !errors.Is(err, ports.ErrProvider) {
			err = fmt.Errorf("%w: %w", ports.ErrProvider, err)
		}
		return nil, err
	}
	if s.emitter != nil {
		s.emitter.Notify(ctx, strings.TrimSpace(userID), "Payment Successful",
			fmt.Sprintf("Your payment of %s %s has been processed successfully.",
				strings.ToUpper(currency), strconv.FormatFloat(amount, 'f', -1, 64)),
			notifdomain.CategoryPayment)
	}
	return intent, nil
}

// CreateRedirectPayment signs a hosted payment page request for the shipment.
func (s *Service) CreateRedirectPayment(ctx context.Context, shipmentID string) (*domain.RedirectPayment, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return nil, mapError(domain.ErrMissingShipmentID)
	}
	checkout, err := s.checkouts.Checkout(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	payment, err := s.redirects.Build(*checkout)
	if err != nil {
		return nil, mapError(err)
	}
	return payment, nil
}

var _ ports.Service = (*Service)(nil)
