package courierserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	driverhttpmapper "github.com/Apurer/courier-api/internal/domains/drivers/adapters/http/mapper"
	driverports "github.com/Apurer/courier-api/internal/domains/drivers/ports"
	notificationhttpmapper "github.com/Apurer/courier-api/internal/domains/notifications/adapters/http/mapper"
	notificationports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	shipmenthttpmapper "github.com/Apurer/courier-api/internal/domains/shipments/adapters/http/mapper"
	shipmentdomain "github.com/Apurer/courier-api/internal/domains/shipments/domain"
	shipmentports "github.com/Apurer/courier-api/internal/domains/shipments/ports"
	userdomain "github.com/Apurer/courier-api/internal/domains/users/domain"
	apierrors "github.com/Apurer/courier-api/internal/shared/errors"
)

// DriverAPI implements the driver onboarding flow and the driver app endpoints.
type DriverAPI struct {
	drivers       driverports.Service
	shipments     shipmentports.Service
	notifications notificationports.Service
}

func NewDriverAPI(drivers driverports.Service, shipments shipmentports.Service, notifications notificationports.Service) DriverAPI {
	return DriverAPI{drivers: drivers, shipments: shipments, notifications: notifications}
}

// Post /api/drivers/register
// Stores a pending registration and mails the verification code.
func (api *DriverAPI) Register(c *gin.Context) {
	var payload driverhttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := api.drivers.StartRegistration(c.Request.Context(), driverhttpmapper.ToRegistrationInput(payload)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to email. Please verify to complete registration."})
}

// Post /api/drivers/verify
func (api *DriverAPI) Verify(c *gin.Context) {
	var payload driverhttpmapper.VerifyRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if payload.Email == "" || payload.Code == "" {
		respondBadRequest(c, "email and code are required")
		return
	}
	driver, err := api.drivers.VerifyRegistration(c.Request.Context(), payload.Email, payload.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Driver registered successfully. Account is pending approval.",
		"driverId": driver.ID,
	})
}

// Post /api/drivers/login
func (api *DriverAPI) Login(c *gin.Context) {
	var payload driverhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if payload.EmailOrPhone == "" || payload.Password == "" {
		respondBadRequest(c, "emailOrPhone and password are required")
		return
	}
	result, err := api.drivers.Login(c.Request.Context(), payload.EmailOrPhone, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, driverhttpmapper.FromLoginResult(result))
}

// Post /api/drivers/forgot-password
func (api *DriverAPI) ForgotPassword(c *gin.Context) {
	var payload driverhttpmapper.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if !strings.Contains(payload.Email, "@") {
		respondBadRequest(c, "valid email is required")
		return
	}
	if err := api.drivers.RequestPasswordReset(c.Request.Context(), payload.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset code sent to your email"})
}

// Post /api/drivers/reset-password
func (api *DriverAPI) ResetPassword(c *gin.Context) {
	var payload driverhttpmapper.ResetPasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if payload.Email == "" || payload.Code == "" || payload.NewPassword == "" {
		respondBadRequest(c, "email, code and newPassword are required")
		return
	}
	if err := api.drivers.ResetPassword(c.Request.Context(), payload.Email, payload.Code, payload.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// Get /api/drivers/check/:driverId
func (api *DriverAPI) Check(c *gin.Context) {
	driver, err := api.drivers.Get(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver found", "driver": driverhttpmapper.FromDomainDriver(driver)})
}

// Head /api/drivers/check/:driverId
// Answers 200 or 404 without a body.
func (api *DriverAPI) CheckExists(c *gin.Context) {
	ok, err := api.drivers.Exists(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// Get /api/drivers/:driverId/notifications
func (api *DriverAPI) Notifications(c *gin.Context) {
	driverID := c.Param("driverId")
	if !requireSelfOrAdmin(c, driverID) {
		return
	}
	list, err := api.notifications.List(c.Request.Context(), notificationports.Filter{TargetID: driverID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notificationhttpmapper.FromDomainNotifications(list))
}

// Get /api/drivers/:driverId/shipments
func (api *DriverAPI) Shipments(c *gin.Context) {
	driverID := c.Param("driverId")
	if !requireSelfOrAdmin(c, driverID) {
		return
	}
	list, err := api.shipments.ListForDriver(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipmenthttpmapper.FromDomainShipments(list))
}

// Put /api/drivers/:driverId/push-token
func (api *DriverAPI) UpdatePushToken(c *gin.Context) {
	driverID := c.Param("driverId")
	if !requireSelfOrAdmin(c, driverID) {
		return
	}
	var payload driverhttpmapper.PushTokenRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := api.drivers.UpdatePushToken(c.Request.Context(), driverID, payload.FCMToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push token updated"})
}

// Put /api/driver/update-shipment-status
// Drivers can only complete shipments; every other status is rejected.
func (api *DriverAPI) UpdateShipmentStatus(c *gin.Context) {
	var payload shipmenthttpmapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if payload.ShipmentID == "" {
		respondBadRequest(c, "shipmentId is required")
		return
	}
	if shipmentdomain.Status(payload.Status) != shipmentdomain.StatusDelivered {
		respondBadRequest(c, "status must be Delivered")
		return
	}
	ctx := c.Request.Context()
	current, err := api.shipments.GetByID(ctx, payload.ShipmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !assignedToCaller(c, current.DriverID) {
		respondProblem(c, apierrors.ErrNotFound.WithDetail("shipment not found or not assigned to you"))
		return
	}
	shipment, err := api.shipments.Complete(ctx, payload.ShipmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Shipment status updated successfully",
		"shipment": shipmenthttpmapper.FromDomainShipment(shipment),
	})
}

// assignedToCaller reports whether the shipment has a driver the caller may act for.
func assignedToCaller(c *gin.Context, driverID string) bool {
	if driverID == "" {
		return false
	}
	p := principalFrom(c)
	return p != nil && (p.Role == userdomain.RoleAdmin || p.Subject == driverID)
}
