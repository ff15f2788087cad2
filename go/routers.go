package courierserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userdomain "github.com/Apurer/courier-api/internal/domains/users/domain"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Roles, when set, require a bearer token carrying one of them.
	Roles []userdomain.Role
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{}
		if len(route.Roles) > 0 {
			handlers = append(handlers, handleFunctions.Auth.RequireRole(route.Roles...))
		}
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions bundles every API section served by the router.
type ApiHandleFunctions struct {
	Auth            *Authenticator
	HealthAPI       HealthAPI
	AuthAPI         AuthAPI
	ShipmentAPI     ShipmentAPI
	AdminAPI        AdminAPI
	DriverAPI       DriverAPI
	OrderAPI        OrderAPI
	NotificationAPI NotificationAPI
	PaymentAPI      PaymentAPI
	PricingAPI      PricingAPI
	CustomerAPI     CustomerAPI
	RealtimeAPI     RealtimeAPI
}

var (
	adminOnly       = []userdomain.Role{userdomain.RoleAdmin}
	driverOrAdmin   = []userdomain.Role{userdomain.RoleDriver, userdomain.RoleAdmin}
	customerOrAdmin = []userdomain.Role{userdomain.RoleCustomer, userdomain.RoleAdmin}
	anyAccountRole  = []userdomain.Role{userdomain.RoleCustomer, userdomain.RoleDriver, userdomain.RoleAdmin}
)

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", h.HealthAPI.Healthz, nil},
		{"Readyz", http.MethodGet, "/readyz", h.HealthAPI.Readyz, nil},

		{"Register", http.MethodPost, "/api/auth/register", h.AuthAPI.Register, nil},
		{"Login", http.MethodPost, "/api/auth/login", h.AuthAPI.Login, nil},
		{"Logout", http.MethodPost, "/api/auth/logout", h.AuthAPI.Logout, anyAccountRole},
		{"ForgotPassword", http.MethodPost, "/api/auth/forgot-password", h.AuthAPI.ForgotPassword, nil},
		{"ResetPassword", http.MethodPost, "/api/auth/reset-password", h.AuthAPI.ResetPassword, nil},
		{"GetProfile", http.MethodGet, "/api/auth/profile", h.AuthAPI.GetProfile, customerOrAdmin},
		{"UpdateProfile", http.MethodPatch, "/api/auth/profile", h.AuthAPI.UpdateProfile, customerOrAdmin},

		{"CreateShipment", http.MethodPost, "/api/shipments", h.ShipmentAPI.CreateShipment, nil},
		{"ListShipments", http.MethodGet, "/api/shipments", h.ShipmentAPI.ListShipments, nil},
		{"GetShipment", http.MethodGet, "/api/shipments/:shipmentId", h.ShipmentAPI.GetShipment, nil},
		{"UpdateShipment", http.MethodPatch, "/api/shipments/:shipmentId", h.ShipmentAPI.UpdateShipment, nil},
		{"DeleteShipment", http.MethodDelete, "/api/shipments/:shipmentId", h.ShipmentAPI.DeleteShipment, adminOnly},
		{"ShipmentWaybill", http.MethodGet, "/api/shipments/:shipmentId/waybill", h.ShipmentAPI.Waybill, nil},
		{"ShipmentProofOfDelivery", http.MethodGet, "/api/shipments/:shipmentId/pod", h.ShipmentAPI.ProofOfDelivery, nil},

		{"ListDrivers", http.MethodGet, "/api/admin/drivers", h.AdminAPI.ListDrivers, adminOnly},
		{"ListPendingDrivers", http.MethodGet, "/api/admin/drivers/pending", h.AdminAPI.ListPendingDrivers, adminOnly},
		{"ListApprovedDrivers", http.MethodGet, "/api/admin/drivers/approved", h.AdminAPI.ListApprovedDrivers, adminOnly},
		{"ListDriversByVehicle", http.MethodGet, "/api/admin/drivers/vehicle/:vehicleType", h.AdminAPI.ListDriversByVehicle, adminOnly},
		{"SetDriverStatus", http.MethodPatch, "/api/admin/drivers/status", h.AdminAPI.SetDriverStatus, adminOnly},
		{"AssignShipment", http.MethodPost, "/api/admin/shipments/assign", h.AdminAPI.AssignShipment, adminOnly},
		{"ListAssignedShipments", http.MethodGet, "/api/admin/shipments/assigned", h.AdminAPI.ListAssignedShipments, adminOnly},
		{"ListCustomers", http.MethodGet, "/api/admin/customers", h.CustomerAPI.ListCustomers, adminOnly},
		{"GetCustomer", http.MethodGet, "/api/admin/customers/:customerId", h.CustomerAPI.GetCustomer, adminOnly},

		{"RegisterDriver", http.MethodPost, "/api/drivers/register", h.DriverAPI.Register, nil},
		{"VerifyDriver", http.MethodPost, "/api/drivers/verify", h.DriverAPI.Verify, nil},
		{"LoginDriver", http.MethodPost, "/api/drivers/login", h.DriverAPI.Login, nil},
		{"DriverForgotPassword", http.MethodPost, "/api/drivers/forgot-password", h.DriverAPI.ForgotPassword, nil},
		{"DriverResetPassword", http.MethodPost, "/api/drivers/reset-password", h.DriverAPI.ResetPassword, nil},
		{"CheckDriver", http.MethodGet, "/api/drivers/check/:driverId", h.DriverAPI.Check, nil},
		{"CheckDriverExists", http.MethodHead, "/api/drivers/check/:driverId", h.DriverAPI.CheckExists, nil},
		{"DriverNotifications", http.MethodGet, "/api/drivers/:driverId/notifications", h.DriverAPI.Notifications, driverOrAdmin},
		{"DriverShipments", http.MethodGet, "/api/drivers/:driverId/shipments", h.DriverAPI.Shipments, driverOrAdmin},
		{"UpdatePushToken", http.MethodPut, "/api/drivers/:driverId/push-token", h.DriverAPI.UpdatePushToken, driverOrAdmin},
		{"UpdateShipmentStatus", http.MethodPut, "/api/driver/update-shipment-status", h.DriverAPI.UpdateShipmentStatus, driverOrAdmin},

		{"CreateOrder", http.MethodPost, "/api/orders", h.OrderAPI.CreateOrder, nil},
		{"ListOrders", http.MethodGet, "/api/orders", h.OrderAPI.ListOrders, nil},
		{"TrackOrders", http.MethodGet, "/api/orders/tracking", h.OrderAPI.TrackOrders, nil},
		{"ListOrdersByPhone", http.MethodGet, "/api/orders/by-phone/:phone", h.OrderAPI.ListOrdersByPhone, nil},
		{"GetOrder", http.MethodGet, "/api/orders/:orderId", h.OrderAPI.GetOrder, nil},
		{"UpdateOrderStatus", http.MethodPatch, "/api/orders/:orderId/status", h.OrderAPI.UpdateOrderStatus, adminOnly},
		{"DeleteOrder", http.MethodDelete, "/api/orders/:orderId", h.OrderAPI.DeleteOrder, adminOnly},

		{"CreateNotification", http.MethodPost, "/api/notifications", h.NotificationAPI.CreateNotification, nil},
		{"ListNotifications", http.MethodGet, "/api/notifications", h.NotificationAPI.ListNotifications, nil},
		{"MarkNotificationRead", http.MethodPatch, "/api/notifications/:id/read", h.NotificationAPI.MarkRead, nil},
		{"ClearNotifications", http.MethodDelete, "/api/notifications", h.NotificationAPI.ClearNotifications, nil},

		{"CreatePaymentIntent", http.MethodPost, "/api/payments/create-payment-intent", h.PaymentAPI.CreatePaymentIntent, nil},
		{"InitiatePayFast", http.MethodPost, "/api/payments/payfast", h.PaymentAPI.InitiatePayFast, nil},

		{"GetPricing", http.MethodGet, "/api/pricing", h.PricingAPI.GetPricing, nil},
		{"UpdatePricing", http.MethodPut, "/api/pricing", h.PricingAPI.UpdatePricing, adminOnly},
		{"GetOrderTariff", http.MethodGet, "/api/pricing/orders", h.PricingAPI.GetOrderTariff, nil},

		{"Realtime", http.MethodGet, "/ws", h.RealtimeAPI.Serve, nil},
	}
}
