package courierserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	drivermail "github.com/Apurer/courier-api/internal/domains/drivers/adapters/mail"
	drivermemory "github.com/Apurer/courier-api/internal/domains/drivers/adapters/memory"
	driverapp "github.com/Apurer/courier-api/internal/domains/drivers/application"
	driverdomain "github.com/Apurer/courier-api/internal/domains/drivers/domain"
	notifmemory "github.com/Apurer/courier-api/internal/domains/notifications/adapters/memory"
	notifapp "github.com/Apurer/courier-api/internal/domains/notifications/application"
	ordermemory "github.com/Apurer/courier-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/courier-api/internal/domains/orders/adapters/tracking"
	orderapp "github.com/Apurer/courier-api/internal/domains/orders/application"
	"github.com/Apurer/courier-api/internal/domains/payments/adapters/checkout"
	"github.com/Apurer/courier-api/internal/domains/payments/adapters/payfast"
	paymentapp "github.com/Apurer/courier-api/internal/domains/payments/application"
	pricingmemory "github.com/Apurer/courier-api/internal/domains/pricing/adapters/memory"
	pricingapp "github.com/Apurer/courier-api/internal/domains/pricing/application"
	"github.com/Apurer/courier-api/internal/domains/shipments/adapters/directory"
	"github.com/Apurer/courier-api/internal/domains/shipments/adapters/documents"
	shipmentmemory "github.com/Apurer/courier-api/internal/domains/shipments/adapters/memory"
	shipmentworkflows "github.com/Apurer/courier-api/internal/domains/shipments/adapters/workflows"
	shipmentapp "github.com/Apurer/courier-api/internal/domains/shipments/application"
	usermemory "github.com/Apurer/courier-api/internal/domains/users/adapters/memory"
	userapp "github.com/Apurer/courier-api/internal/domains/users/application"
	userdomain "github.com/Apurer/courier-api/internal/domains/users/domain"
	"github.com/Apurer/courier-api/internal/shared/verification"
)

// resetCode is the code every password reset in these tests mails out.
const resetCode = "246810"

type testServer struct {
	engine  *gin.Engine
	users   *userapp.Service
	drivers *drivermemory.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	notifRepo := notifmemory.NewRepository()
	emitter := notifapp.NewEmitter(notifRepo)
	notifications := notifapp.NewService(notifRepo)
	mailer := drivermail.NewLogMailer(nil)
	codes := verification.NewMemoryStore()
	fixedCode := func() (string, error) { return resetCode, nil }

	users := userapp.NewService(usermemory.NewRepository(), usermemory.NewSessionStore(),
		userapp.WithMailer(mailer),
		userapp.WithResetCodes(codes),
		userapp.WithCodeGenerator(fixedCode),
		userapp.WithEmitter(emitter),
	)

	driverRepo := drivermemory.NewRepository()
	issue := func(ctx context.Context, driverID string) (string, error) {
		return users.IssueSession(ctx, driverID, userdomain.RoleDriver)
	}
	drivers := driverapp.NewService(driverRepo, drivermemory.NewRegistrationStore(), mailer, issue,
		driverapp.WithEmitter(emitter),
		driverapp.WithResetCodes(codes),
		driverapp.WithCodeGenerator(fixedCode),
		driverapp.WithSessionRevoker(users.RevokeSessions),
	)

	shipments := shipmentapp.NewService(shipmentmemory.NewRepository(), directory.NewDrivers(driverRepo),
		shipmentapp.WithEmitter(emitter),
		shipmentapp.WithIdempotencyStore(shipmentmemory.NewIdempotencyStore()),
	)
	orders := orderapp.NewService(ordermemory.NewRepository(), orderapp.WithShipmentLinks(tracking.NewShipments(shipments)))
	payments := paymentapp.NewService(payfast.NewGateway(payfast.Config{Sandbox: true}), checkout.NewShipments(shipments))

	handlers := ApiHandleFunctions{
		Auth:            NewAuthenticator(users, WithDriverGate(drivers)),
		HealthAPI:       NewHealthAPI(nil),
		AuthAPI:         NewAuthAPI(users),
		ShipmentAPI:     NewShipmentAPI(shipments, shipmentworkflows.NewInlineShipmentWorkflows(shipments), payments, documents.NewRenderer(), nil),
		AdminAPI:        NewAdminAPI(drivers, shipments),
		DriverAPI:       NewDriverAPI(drivers, shipments, notifications),
		OrderAPI:        NewOrderAPI(orders),
		NotificationAPI: NewNotificationAPI(notifications),
		PaymentAPI:      NewPaymentAPI(payments),
		PricingAPI:      NewPricingAPI(pricingapp.NewService(pricingmemory.NewRepository())),
		CustomerAPI:     NewCustomerAPI(users, orders),
	}
	return &testServer{engine: NewRouterWithGinEngine(gin.New(), handlers), users: users, drivers: driverRepo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	_, err := s.users.EnsureAdmin(ctx, "admin@courier.test", "admin-secret")
	require.NoError(t, err)
	result, err := s.users.Login(ctx, "admin@courier.test", "admin-secret")
	require.NoError(t, err)
	return result.Token
}

func (s *testServer) approvedDriver(t *testing.T, id string) string {
	t.Helper()
	ctx := context.Background()
	_, err := s.drivers.Create(ctx, &driverdomain.Driver{
		ID:            id,
		Username:      "driver-" + id,
		Email:         id + "@courier.test",
		Phone:         "98" + id,
		VehicleType:   driverdomain.VehicleType("bike"),
		VehicleNumber: "KA-01-" + id,
		Status:        driverdomain.StatusApproved,
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)
	token, err := s.users.IssueSession(ctx, id, userdomain.RoleDriver)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type createdShipment struct {
	Message  string `json:"message"`
	Shipment struct {
		ShipmentID string  `json:"shipmentId"`
		Status     string  `json:"status"`
		Driver     *string `json:"driver"`
		DriverName string  `json:"driverName"`
	} `json:"shipment"`
	PaymentData *struct {
		URL         string            `json:"url"`
		PaymentData map[string]string `json:"paymentData"`
	} `json:"paymentData"`
}

var legacyShipment = map[string]any{
	"senderName":    "Asha",
	"senderPhone":   "9000000001",
	"receiverName":  "Vikram",
	"receiverPhone": "9000000002",
	"start":         "Pune",
	"end":           "Mumbai",
	"parcelWeight":  2.5,
	"cost":          150,
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateShipment_Legacy(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/shipments", "", legacyShipment)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[createdShipment](t, rec)
	assert.Equal(t, "Shipment created successfully", body.Message)
	assert.Equal(t, "SHP001", body.Shipment.ShipmentID)
	assert.Equal(t, "Pending", body.Shipment.Status)
	assert.Nil(t, body.Shipment.Driver)
	assert.Equal(t, "Unassigned", body.Shipment.DriverName)
	assert.Nil(t, body.PaymentData, "cash on delivery needs no redirect")

	rec = s.do(t, http.MethodGet, "/api/shipments/SHP001", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateShipment_RejectsMissingReceiver(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/shipments", "", map[string]any{"senderName": "Asha"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestCreateShipment_IdempotencyKeyReplays(t *testing.T) {
	s := newTestServer(t)
	req := func(body any) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodPost, "/api/shipments", bytes.NewReader(raw))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Idempotency-Key", "booking-42")
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, r)
		return rec
	}

	first := req(legacyShipment)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := req(legacyShipment)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, decode[createdShipment](t, first).Shipment.ShipmentID, decode[createdShipment](t, second).Shipment.ShipmentID)

	changed := map[string]any{"receiverName": "Someone Else", "receiverPhone": "9000000003"}
	conflict := req(changed)
	assert.Equal(t, http.StatusConflict, conflict.Code)
}

func TestCreateShipment_PayFastAttachesRedirect(t *testing.T) {
	s := newTestServer(t)
	payload := map[string]any{
		"senderDetails":     map[string]any{"fullName": "Asha Rao", "mobile": "9000000001", "email": "asha@example.com"},
		"collectionDetails": map[string]any{"dispatcherName": "Asha Rao", "mobile": "9000000001", "address": map[string]any{"city": "Pune"}},
		"deliveryDetails":   map[string]any{"receiverName": "Vikram", "mobile": "9000000002", "address": map[string]any{"city": "Mumbai"}},
		"parcelDetails":     map[string]any{"serviceType": "express", "parcelType": "Document", "dimensions": map[string]any{"weight": 1}},
		"payment":           map[string]any{"method": "payfast", "amount": 200},
	}
	rec := s.do(t, http.MethodPost, "/api/shipments", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[createdShipment](t, rec)
	require.NotNil(t, body.PaymentData)
	assert.Equal(t, payfast.SandboxURL, body.PaymentData.URL)
	assert.Equal(t, "200.00", body.PaymentData.PaymentData["amount"])
	assert.Equal(t, body.Shipment.ShipmentID, body.PaymentData.PaymentData["m_payment_id"])
	assert.NotEmpty(t, body.PaymentData.PaymentData["signature"])
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/admin/drivers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	driverToken := s.approvedDriver(t, "DRV001")
	rec = s.do(t, http.MethodGet, "/api/admin/drivers", driverToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/drivers/approved", s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "DRV001", list[0]["driverId"])
	assert.NotContains(t, list[0], "password")
}

func TestListDriversByVehicle_RejectsUnknownVehicle(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/admin/drivers/vehicle/rocket", s.adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignAndDeliverShipment(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	driverToken := s.approvedDriver(t, "DRV001")
	otherToken := s.approvedDriver(t, "DRV002")

	rec := s.do(t, http.MethodPost, "/api/shipments", "", legacyShipment)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[createdShipment](t, rec).Shipment.ShipmentID

	rec = s.do(t, http.MethodPost, "/api/admin/shipments/assign", admin, map[string]string{"shipmentId": id, "driverId": "DRV009"})
	assert.Equal(t, http.StatusNotFound, rec.Code, "unknown drivers cannot be assigned")

	rec = s.do(t, http.MethodPost, "/api/admin/shipments/assign", admin, map[string]string{"shipmentId": id, "driverId": "DRV001"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assigned := decode[createdShipment](t, rec)
	assert.Equal(t, "Shipping", assigned.Shipment.Status)
	assert.Equal(t, "driver-DRV001", assigned.Shipment.DriverName)

	rec = s.do(t, http.MethodGet, "/api/drivers/DRV001/notifications", driverToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[[]map[string]any](t, rec)
	require.NotEmpty(t, notes)
	assert.Equal(t, "New Shipment Assigned", notes[0]["title"])

	rec = s.do(t, http.MethodGet, "/api/drivers/DRV001/shipments", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/driver/update-shipment-status", driverToken, map[string]string{"shipmentId": id, "status": "Shipping"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/driver/update-shipment-status", otherToken, map[string]string{"shipmentId": id, "status": "Delivered"})
	assert.Equal(t, http.StatusNotFound, rec.Code, "shipments of other drivers are invisible")

	rec = s.do(t, http.MethodPut, "/api/driver/update-shipment-status", driverToken, map[string]string{"shipmentId": id, "status": "Delivered"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Delivered", decode[createdShipment](t, rec).Shipment.Status)

	rec = s.do(t, http.MethodGet, "/api/shipments/"+id+"/pod", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=pod-"+id+".pdf", rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestWaybill_UnknownShipment(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/shipments/SHP404/waybill", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteShipment_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/shipments", "", legacyShipment)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/shipments/SHP001", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/shipments/SHP001", s.adminToken(t), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/shipments/SHP001", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/payments/create-payment-intent", "", map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/payments/create-payment-intent", "", map[string]any{"amount": 1e12})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "amounts beyond the charge cap are rejected before the gateway")

	rec = s.do(t, http.MethodPost, "/api/payments/create-payment-intent", "", map[string]any{"amount": 10})
	assert.Equal(t, http.StatusBadGateway, rec.Code, "no card gateway configured")

	rec = s.do(t, http.MethodPost, "/api/payments/payfast", "", map[string]any{"shipmentId": "SHP404"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrdersAndPricing(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/pricing/orders", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gstRate")

	rec = s.do(t, http.MethodPost, "/api/orders", "", map[string]any{
		"senderName":      "Asha",
		"senderPhone":     "9000000001",
		"receiverName":    "Vikram",
		"receiverPhone":   "9000000002",
		"deliveryAddress": "12 MG Road, Mumbai",
		"weight":          3,
		"deliveryType":    "express",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Message string         `json:"message"`
		Order   map[string]any `json:"order"`
	}](t, rec)
	assert.Equal(t, "Order created successfully", created.Message)
	orderID, _ := created.Order["orderId"].(string)
	require.NotEmpty(t, orderID)

	rec = s.do(t, http.MethodGet, "/api/orders/by-phone/9000000001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(t, http.MethodPatch, "/api/orders/"+orderID+"/status", "", map[string]string{"status": "Delivered"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/orders/tracking", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotificationsFeed(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/notifications", "", map[string]string{"userId": "USR1", "title": "Hello", "message": "World"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec = s.do(t, http.MethodPatch, "/api/notifications/"+id+"/read", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["isRead"])

	rec = s.do(t, http.MethodDelete, "/api/notifications?userId=USR1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["deleted"])

	rec = s.do(t, http.MethodPatch, "/api/notifications/missing/read", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "phone": "9000000001", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decode[map[string]any](t, rec)["token"].(string)
	require.NotEmpty(t, token)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRejectedDriverLosesAccess(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	driverToken := s.approvedDriver(t, "DRV001")

	rec := s.do(t, http.MethodPost, "/api/shipments", "", legacyShipment)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[createdShipment](t, rec).Shipment.ShipmentID
	rec = s.do(t, http.MethodPost, "/api/admin/shipments/assign", admin, map[string]string{"shipmentId": id, "driverId": "DRV001"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPatch, "/api/admin/drivers/status", admin, map[string]string{"driverId": "DRV001", "status": "rejected"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/drivers/DRV001/shipments", driverToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodPut, "/api/driver/update-shipment-status", driverToken, map[string]string{"shipmentId": id, "status": "Delivered"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/shipments/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Shipping", decode[map[string]any](t, rec)["status"])
}

func TestDriverGateBlocksUnapprovedTokens(t *testing.T) {
	s := newTestServer(t)
	driverToken := s.approvedDriver(t, "DRV001")

	// A token that outlived the approval, e.g. one issued before a status change
	// written straight to the store.
	_, err := s.drivers.SetStatus(context.Background(), "DRV001", driverdomain.StatusRejected, time.Now())
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/api/drivers/DRV001/shipments", driverToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ghost, err := s.users.IssueSession(context.Background(), "DRV404", userdomain.RoleDriver)
	require.NoError(t, err)
	rec = s.do(t, http.MethodGet, "/api/drivers/DRV404/shipments", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateShipmentStatus_UnassignedShipmentIsNotFound(t *testing.T) {
	s := newTestServer(t)
	driverToken := s.approvedDriver(t, "DRV001")

	rec := s.do(t, http.MethodPost, "/api/shipments", "", legacyShipment)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[createdShipment](t, rec).Shipment.ShipmentID

	rec = s.do(t, http.MethodPut, "/api/driver/update-shipment-status", driverToken, map[string]string{"shipmentId": id, "status": "Delivered"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPut, "/api/driver/update-shipment-status", s.adminToken(t), map[string]string{"shipmentId": id, "status": "Delivered"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckDriver(t *testing.T) {
	s := newTestServer(t)
	s.approvedDriver(t, "DRV001")

	rec := s.do(t, http.MethodGet, "/api/drivers/check/DRV001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Driver found", body["message"])
	assert.Equal(t, "DRV001", body["driver"].(map[string]any)["driverId"])

	rec = s.do(t, http.MethodGet, "/api/drivers/check/DRV404", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodHead, "/api/drivers/check/DRV001", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodHead, "/api/drivers/check/DRV404", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDriverPasswordReset(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	hash, err := driverdomain.HashPassword("Old!pass1")
	require.NoError(t, err)
	_, err = s.drivers.Create(ctx, &driverdomain.Driver{
		ID: "DRV001", Username: "Sipho", Email: "sipho@courier.test", Phone: "0821112222",
		PasswordHash: hash, VehicleType: driverdomain.VehicleVan, VehicleNumber: "ND1",
		Status: driverdomain.StatusApproved, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	rec := s.do(t, http.MethodPost, "/api/drivers/login", "", map[string]string{"emailOrPhone": "sipho@courier.test", "password": "Old!pass1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	oldToken, _ := decode[map[string]any](t, rec)["token"].(string)
	require.NotEmpty(t, oldToken)

	rec = s.do(t, http.MethodPost, "/api/drivers/forgot-password", "", map[string]string{"email": "nobody@courier.test"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/drivers/forgot-password", "", map[string]string{"email": "sipho@courier.test"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/drivers/reset-password", "", map[string]string{"email": "sipho@courier.test", "code": "000000", "newPassword": "New!pass2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/drivers/reset-password", "", map[string]string{"email": "sipho@courier.test", "code": resetCode, "newPassword": "weak"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/drivers/reset-password", "", map[string]string{"email": "sipho@courier.test", "code": resetCode, "newPassword": "New!pass2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Password reset successfully", decode[map[string]any](t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/drivers/DRV001/shipments", oldToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/drivers/login", "", map[string]string{"emailOrPhone": "sipho@courier.test", "password": "New!pass2"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerPasswordResetAndProfile(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "phone": "9000000001", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decode[map[string]any](t, rec)["token"].(string)

	rec = s.do(t, http.MethodPatch, "/api/auth/profile", "", map[string]string{"nickName": "A"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodPatch, "/api/auth/profile", token, map[string]string{"nickName": "A", "fullName": "", "gender": "female"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[struct {
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
	}](t, rec)
	assert.Equal(t, "Profile updated", updated.Message)
	assert.Equal(t, "Asha", updated.User["name"])
	assert.Equal(t, "A", updated.User["nickName"])

	rec = s.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "female", decode[map[string]any](t, rec)["gender"])

	rec = s.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "asha@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"email": "asha@example.com", "code": resetCode, "newPassword": "newsecret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Password reset successful. Please log in again.", decode[map[string]any](t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"email": "ghost@example.com", "code": resetCode, "newPassword": "newsecret"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCustomers(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "phone": "9000000001", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID, _ := decode[map[string]any](t, rec)["customerId"].(string)

	order := map[string]any{
		"senderName": "Asha", "senderPhone": "9000000001", "receiverName": "Vikram", "receiverPhone": "9000000002",
		"deliveryAddress": "12 MG Road, Mumbai", "weight": 1, "deliveryType": "economy",
	}
	rec = s.do(t, http.MethodPost, "/api/orders", "", order)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inbound := map[string]any{
		"senderName": "Vikram", "senderPhone": "9000000002", "receiverName": "Asha", "receiverPhone": "9000000001",
		"deliveryAddress": "1 FC Road, Pune", "weight": 1, "deliveryType": "economy",
	}
	rec = s.do(t, http.MethodPost, "/api/orders", "", inbound)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/customers", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Customers []map[string]any `json:"customers"`
	}](t, rec)
	require.Len(t, list.Customers, 1, "administrators are not customers")
	assert.Equal(t, customerID, list.Customers[0]["customerId"])
	assert.EqualValues(t, 1, list.Customers[0]["totalOrders"])

	rec = s.do(t, http.MethodGet, "/api/admin/customers/"+customerID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[map[string]any](t, rec)
	assert.Equal(t, "9000000001", detail["contact"])
	assert.Len(t, detail["orders"], 1)

	rec = s.do(t, http.MethodGet, "/api/admin/customers/nobody", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPricingEditableByAdmin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/pricing", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	initial := decode[map[string]any](t, rec)
	assert.Equal(t, map[string]any{"baseAmount": 20.0, "divisor": 5000.0, "rate": 1.2, "eta": "1-4 days"}, initial["economy"])
	assert.Equal(t, map[string]any{"a4": 90.0, "a3": 110.0}, initial["satchel"])

	update := map[string]any{"express": map[string]any{"baseAmount": 45}}
	rec = s.do(t, http.MethodPut, "/api/pricing", "", update)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := s.adminToken(t)
	rec = s.do(t, http.MethodPut, "/api/pricing", admin, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Message string         `json:"message"`
		Pricing map[string]any `json:"pricing"`
	}](t, rec)
	assert.Equal(t, "Pricing updated successfully", body.Message)
	express := body.Pricing["express"].(map[string]any)
	assert.Equal(t, 45.0, express["baseAmount"])
	assert.Equal(t, 4000.0, express["divisor"])
	assert.Equal(t, "1-2 days", express["eta"])

	rec = s.do(t, http.MethodPut, "/api/pricing", admin, map[string]any{"economy": map[string]any{"divisor": 0}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/pricing", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 45.0, decode[map[string]any](t, rec)["express"].(map[string]any)["baseAmount"])
}
