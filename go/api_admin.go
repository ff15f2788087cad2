package courierserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	driverhttpmapper "github.com/Apurer/courier-api/internal/domains/drivers/adapters/http/mapper"
	driverdomain "github.com/Apurer/courier-api/internal/domains/drivers/domain"
	driverports "github.com/Apurer/courier-api/internal/domains/drivers/ports"
	shipmenthttpmapper "github.com/Apurer/courier-api/internal/domains/shipments/adapters/http/mapper"
	shipmentports "github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

// AdminAPI implements driver approval and shipment dispatch.
type AdminAPI struct {
	drivers   driverports.Service
	shipments shipmentports.Service
}

func NewAdminAPI(drivers driverports.Service, shipments shipmentports.Service) AdminAPI {
	return AdminAPI{drivers: drivers, shipments: shipments}
}

// Get /api/admin/drivers
func (api *AdminAPI) ListDrivers(c *gin.Context) {
	api.listDrivers(c, driverports.Filter{})
}

// Get /api/admin/drivers/pending
func (api *AdminAPI) ListPendingDrivers(c *gin.Context) {
	api.listDrivers(c, driverports.Filter{Status: driverdomain.StatusPending})
}

// Get /api/admin/drivers/approved
func (api *AdminAPI) ListApprovedDrivers(c *gin.Context) {
	api.listDrivers(c, driverports.Filter{Status: driverdomain.StatusApproved})
}

// Get /api/admin/drivers/vehicle/:vehicleType
func (api *AdminAPI) ListDriversByVehicle(c *gin.Context) {
	vehicle := driverdomain.VehicleType(c.Param("vehicleType"))
	if !vehicle.Valid() {
		respondBadRequest(c, driverdomain.ErrInvalidVehicleType.Error())
		return
	}
	api.listDrivers(c, driverports.Filter{VehicleType: vehicle})
}

func (api *AdminAPI) listDrivers(c *gin.Context, filter driverports.Filter) {
	list, err := api.drivers.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, driverhttpmapper.FromDomainDrivers(list))
}

// Patch /api/admin/drivers/status
func (api *AdminAPI) SetDriverStatus(c *gin.Context) {
	var payload driverhttpmapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	driver, err := api.drivers.SetStatus(c.Request.Context(), payload.DriverID, driverdomain.Status(payload.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Driver " + string(driver.Status) + " successfully",
		"driver":  driverhttpmapper.FromDomainDriver(driver),
	})
}

// Post /api/admin/shipments/assign
func (api *AdminAPI) AssignShipment(c *gin.Context) {
	var payload shipmenthttpmapper.AssignRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	shipment, err := api.shipments.Assign(c.Request.Context(), payload.ShipmentID, payload.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Shipment assigned successfully",
		"shipment": shipmenthttpmapper.FromDomainShipment(shipment),
	})
}

// Get /api/admin/shipments/assigned
func (api *AdminAPI) ListAssignedShipments(c *gin.Context) {
	list, err := api.shipments.ListAssigned(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipmenthttpmapper.FromDomainShipments(list))
}
