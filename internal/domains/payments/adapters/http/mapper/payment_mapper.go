package mapper

import (
	"github.com/Apurer/courier-api/internal/domains/payments/domain"
)

type PaymentIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	UserID   string  `json:"userId,omitempty"`
}

type PaymentIntentResponse struct {
	PaymentIntent  string `json:"paymentIntent"`
	EphemeralKey   string `json:"ephemeralKey"`
	Customer       string `json:"customer"`
	PublishableKey string `json:"publishableKey"`
}

type PayFastRequest struct {
	ShipmentID string `json:"shipmentId"`
}

// RedirectPayment keeps the raw parameters next to the GET redirect so a
// client may also submit them as a form POST.
type RedirectPayment struct {
	URL         string            `json:"url"`
	RedirectURL string            `json:"redirectUrl"`
	PaymentData map[string]string `json:"paymentData"`
}

func FromGatewayIntent(intent *domain.GatewayIntent) PaymentIntentResponse {
	if intent == nil {
		return PaymentIntentResponse{}
	}
	return PaymentIntentResponse{
		PaymentIntent:  intent.PaymentIntent,
		EphemeralKey:   intent.EphemeralKey,
		Customer:       intent.Customer,
		PublishableKey: intent.PublishableKey,
	}
}

func FromRedirectPayment(payment *domain.RedirectPayment) *RedirectPayment {
	if payment == nil {
		return nil
	}
	data := make(map[string]string, len(payment.Fields))
	for _, f := range payment.Fields {
		data[f.Key] = f.Value
	}
	return &RedirectPayment{URL: payment.URL, RedirectURL: payment.RedirectURL, PaymentData: data}
}
