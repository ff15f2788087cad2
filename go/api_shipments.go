package courierserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	paymenthttpmapper "github.com/Apurer/courier-api/internal/domains/payments/adapters/http/mapper"
	paymentports "github.com/Apurer/courier-api/internal/domains/payments/ports"
	shipmenthttpmapper "github.com/Apurer/courier-api/internal/domains/shipments/adapters/http/mapper"
	shipmentdomain "github.com/Apurer/courier-api/internal/domains/shipments/domain"
	shipmentports "github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

// DocumentRenderer produces the printable shipment documents.
type DocumentRenderer interface {
	RenderWaybill(shipment *shipmentdomain.Shipment) ([]byte, error)
	RenderProofOfDelivery(shipment *shipmentdomain.Shipment) ([]byte, error)
}

// ShipmentAPI wires HTTP transport with the shipment lifecycle and its workflows.
type ShipmentAPI struct {
	service   shipmentports.Service
	workflows shipmentports.WorkflowOrchestrator
	payments  paymentports.Service
	documents DocumentRenderer
	logger    *slog.Logger
}

// NewShipmentAPI creates a ShipmentAPI. payments may be nil, in which case no
// redirect payment is attached to created shipments.
func NewShipmentAPI(service shipmentports.Service, workflows shipmentports.WorkflowOrchestrator, payments paymentports.Service, documents DocumentRenderer, logger *slog.Logger) ShipmentAPI {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return ShipmentAPI{service: service, workflows: workflows, payments: payments, documents: documents, logger: logger}
}

type createShipmentResponse struct {
	Message     string                             `json:"message"`
	Shipment    shipmenthttpmapper.Shipment        `json:"shipment"`
	PaymentData *paymenthttpmapper.RedirectPayment `json:"paymentData,omitempty"`
}

// Post /api/shipments
// Accepts either the detailed or the legacy flattened payload.
func (api *ShipmentAPI) CreateShipment(c *gin.Context) {
	var payload shipmenthttpmapper.CreateShipmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	input, err := shipmenthttpmapper.ToCreateInput(payload, c.GetHeader("Idempotency-Key"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	saved, err := api.createShipment(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createShipmentResponse{
		Message:     "Shipment created successfully",
		Shipment:    shipmenthttpmapper.FromDomainShipment(saved),
		PaymentData: api.redirectPayment(c.Request.Context(), saved),
	})
}

func (api *ShipmentAPI) createShipment(ctx context.Context, input shipmentports.CreateInput) (*shipmentdomain.Shipment, error) {
	if api.workflows != nil {
		return api.workflows.CreateShipment(ctx, input)
	}
	return api.service.Create(ctx, input)
}

// redirectPayment signs a hosted payment for online payment methods. A
// failure leaves the shipment response without payment data.
func (api *ShipmentAPI) redirectPayment(ctx context.Context, s *shipmentdomain.Shipment) *paymenthttpmapper.RedirectPayment {
	if api.payments == nil {
		return nil
	}
	if !s.Payment.Method.RequiresRedirect() {
		return nil
	}
	payment, err := api.payments.CreateRedirectPayment(ctx, s.ShipmentID)
	if err != nil {
		api.logger.WarnContext(ctx, "redirect payment not attached",
			slog.String("shipment_id", s.ShipmentID), slog.String("error", err.Error()))
		return nil
	}
	return paymenthttpmapper.FromRedirectPayment(payment)
}

// Get /api/shipments
func (api *ShipmentAPI) ListShipments(c *gin.Context) {
	list, err := api.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipmenthttpmapper.FromDomainShipments(list))
}

// Get /api/shipments/:shipmentId
func (api *ShipmentAPI) GetShipment(c *gin.Context) {
	shipment, err := api.service.GetByID(c.Request.Context(), c.Param("shipmentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipmenthttpmapper.FromDomainShipment(shipment))
}

// Patch /api/shipments/:shipmentId
func (api *ShipmentAPI) UpdateShipment(c *gin.Context) {
	var payload shipmenthttpmapper.UpdateShipmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	patch, err := shipmenthttpmapper.ToPatch(payload)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	updated, err := api.service.Update(c.Request.Context(), c.Param("shipmentId"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipmenthttpmapper.FromDomainShipment(updated))
}

// Delete /api/shipments/:shipmentId
func (api *ShipmentAPI) DeleteShipment(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("shipmentId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shipment deleted successfully"})
}

// Get /api/shipments/:shipmentId/waybill
func (api *ShipmentAPI) Waybill(c *gin.Context) {
	api.renderDocument(c, "waybill", func(s *shipmentdomain.Shipment) ([]byte, error) {
		return api.documents.RenderWaybill(s)
	})
}

// Get /api/shipments/:shipmentId/pod
func (api *ShipmentAPI) ProofOfDelivery(c *gin.Context) {
	api.renderDocument(c, "pod", func(s *shipmentdomain.Shipment) ([]byte, error) {
		return api.documents.RenderProofOfDelivery(s)
	})
}

func (api *ShipmentAPI) renderDocument(c *gin.Context, kind string, render func(*shipmentdomain.Shipment) ([]byte, error)) {
	shipment, err := api.service.GetByID(c.Request.Context(), c.Param("shipmentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := render(shipment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.pdf", kind, shipment.ShipmentID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
