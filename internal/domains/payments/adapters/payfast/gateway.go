package payfast

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Apurer/courier-api/internal/domains/payments/domain"
	"github.com/Apurer/courier-api/internal/domains/payments/ports"
)

const (
	SandboxURL = "https://sandbox.payfast.co.za/eng/process"
	LiveURL    = "https://www.payfast.co.za/eng/process"

	// Public sandbox merchant used when no credentials are configured.
	SandboxMerchantID  = "10044381"
	SandboxMerchantKey = "rdpy6ewl5duej"
)

// Config holds merchant credentials and the callback hosts.
type Config struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	Sandbox     bool
	FrontendURL string
	BackendURL  string
}

// Gateway builds signed PayFast redirect payments.
type Gateway struct {
	cfg Config
}

// NewGateway applies sandbox credentials when the merchant is unset.
func NewGateway(cfg Config) *Gateway {
	if strings.TrimSpace(cfg.MerchantID) == "" || strings.TrimSpace(cfg.MerchantKey) == "" {
		cfg.MerchantID = SandboxMerchantID
		cfg.MerchantKey = SandboxMerchantKey
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:5173"
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = "http://localhost:8080"
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	return &Gateway{cfg: cfg}
}

// UsesSandboxMerchant reports whether the public sandbox merchant is in use.
func (g *Gateway) UsesSandboxMerchant() bool {
	return g.cfg.MerchantID == SandboxMerchantID
}

// Build orders the merchant, buyer and transaction fields, signs them and
// renders the GET redirect URL.
func (g *Gateway) Build(checkout domain.Checkout) (*domain.RedirectPayment, error) {
	if strings.TrimSpace(checkout.ShipmentID) == "" {
		return nil, domain.ErrMissingShipmentID
	}
	fields := []domain.Field{
		{Key: "merchant_id", Value: g.cfg.MerchantID},
		{Key: "merchant_key", Value: g.cfg.MerchantKey},
		{Key: "return_url", Value: g.cfg.FrontendURL + "/payment/success"},
		{Key: "cancel_url", Value: g.cfg.FrontendURL + "/payment/cancel"},
		{Key: "notify_url", Value: g.cfg.BackendURL + "/api/payment/notify"},
		{Key: "name_first", Value: checkout.FirstName()},
		{Key: "name_last", Value: checkout.LastName()},
		{Key: "email_address", Value: checkout.Email},
		{Key: "m_payment_id", Value: checkout.ShipmentID},
		{Key: "amount", Value: strconv.FormatFloat(checkout.Amount, 'f', 2, 64)},
		{Key: "item_name", Value: "Shipment " + checkout.ShipmentID},
		{Key: "item_description", Value: fmt.Sprintf("%s delivery", checkout.ServiceType)},
	}
	fields = append(fields, domain.Field{Key: "signature", Value: Signature(fields, g.cfg.Passphrase)})

	base := LiveURL
	if g.cfg.Sandbox {
		base = SandboxURL
	}
	return &domain.RedirectPayment{
		URL:         base,
		RedirectURL: base + "?" + query(fields),
		Fields:      fields,
	}, nil
}

func query(fields []domain.Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(f.Key)+"="+url.QueryEscape(f.Value))
	}
	return strings.Join(parts, "&")
}

var _ ports.RedirectGateway = (*Gateway)(nil)
