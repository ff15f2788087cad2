package courierserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymenthttpmapper "github.com/Apurer/courier-api/internal/domains/payments/adapters/http/mapper"
	paymentports "github.com/Apurer/courier-api/internal/domains/payments/ports"
)

// PaymentAPI starts card and hosted-page payments.
type PaymentAPI struct {
	service paymentports.Service
}

func NewPaymentAPI(service paymentports.Service) PaymentAPI {
	return PaymentAPI{service: service}
}

// Post /api/payments/create-payment-intent
func (api *PaymentAPI) CreatePaymentIntent(c *gin.Context) {
	var payload paymenthttpmapper.PaymentIntentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if payload.Amount <= 0 {
		respondBadRequest(c, "amount must be positive")
		return
	}
	intent, err := api.service.CreateGatewayIntent(c.Request.Context(), payload.Amount, payload.Currency, payload.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromGatewayIntent(intent))
}

// Post /api/payments/payfast
func (api *PaymentAPI) InitiatePayFast(c *gin.Context) {
	var payload paymenthttpmapper.PayFastRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if payload.ShipmentID == "" {
		respondBadRequest(c, "shipmentId is required")
		return
	}
	payment, err := api.service.CreateRedirectPayment(c.Request.Context(), payload.ShipmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromRedirectPayment(payment))
}
