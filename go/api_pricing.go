package courierserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/courier-api/internal/domains/orders/adapters/http/mapper"
	pricinghttpmapper "github.com/Apurer/courier-api/internal/domains/pricing/adapters/http/mapper"
	pricingports "github.com/Apurer/courier-api/internal/domains/pricing/ports"
)

// PricingAPI serves the editable tariff and the order cost table.
type PricingAPI struct {
	service pricingports.Service
}

func NewPricingAPI(service pricingports.Service) PricingAPI {
	return PricingAPI{service: service}
}

// Get /api/pricing
func (api *PricingAPI) GetPricing(c *gin.Context) {
	config, err := api.service.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pricinghttpmapper.FromDomain(config))
}

// Put /api/pricing
// Merges the economy, express and satchel sections that are present.
func (api *PricingAPI) UpdatePricing(c *gin.Context) {
	var payload pricinghttpmapper.UpdatePricingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	config, err := api.service.Update(c.Request.Context(), pricinghttpmapper.ToPatch(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pricing updated successfully", "pricing": pricinghttpmapper.FromDomain(config)})
}

// Get /api/pricing/orders
func (api *PricingAPI) GetOrderTariff(c *gin.Context) {
	c.JSON(http.StatusOK, orderhttpmapper.CurrentPricing())
}
