package courierserver

import (
	"github.com/gin-gonic/gin"

	driverapp "github.com/Apurer/courier-api/internal/domains/drivers/application"
	driverports "github.com/Apurer/courier-api/internal/domains/drivers/ports"
	notifapp "github.com/Apurer/courier-api/internal/domains/notifications/application"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	orderapp "github.com/Apurer/courier-api/internal/domains/orders/application"
	orderports "github.com/Apurer/courier-api/internal/domains/orders/ports"
	paymentapp "github.com/Apurer/courier-api/internal/domains/payments/application"
	paymentports "github.com/Apurer/courier-api/internal/domains/payments/ports"
	pricingapp "github.com/Apurer/courier-api/internal/domains/pricing/application"
	shipmentapp "github.com/Apurer/courier-api/internal/domains/shipments/application"
	shipmentports "github.com/Apurer/courier-api/internal/domains/shipments/ports"
	userapp "github.com/Apurer/courier-api/internal/domains/users/application"
	userports "github.com/Apurer/courier-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/courier-api/internal/shared/errors"
)

// responder maps every context's sentinel errors onto problem documents.
// Mappers are consulted in order.
var responder = apierrors.NewResponder(
	apierrors.Match(apierrors.ErrUnauthorized, userapp.ErrAuthentication, driverapp.ErrAuthentication),
	apierrors.Match(apierrors.ErrForbidden, driverapp.ErrNotApproved),
	apierrors.Match(apierrors.ErrConflict, shipmentports.ErrIdempotencyConflict),
	apierrors.Match(apierrors.ErrDuplicateID,
		shipmentports.ErrDuplicateID,
		orderports.ErrDuplicateID,
		driverports.ErrDuplicateID,
	),
	apierrors.Match(apierrors.ErrValidation,
		shipmentapp.ErrInvalidInput,
		driverapp.ErrInvalidInput,
		orderapp.ErrInvalidInput,
		userapp.ErrInvalidInput,
		notifapp.ErrInvalidInput,
		paymentapp.ErrInvalidInput,
		pricingapp.ErrInvalidInput,
		driverports.ErrAlreadyRegistered,
		driverports.ErrRegistrationNotFound,
		driverports.ErrCodeExpired,
		driverports.ErrInvalidCode,
		userports.ErrEmailTaken,
	),
	apierrors.Match(apierrors.ErrNotFound,
		shipmentports.ErrNotFound,
		shipmentports.ErrDriverUnavailable,
		driverports.ErrNotFound,
		orderports.ErrNotFound,
		notifports.ErrNotFound,
		userports.ErrNotFound,
		paymentports.ErrShipmentNotFound,
	),
	apierrors.Match(apierrors.ErrPaymentProvider, paymentports.ErrProvider),
)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, detail string) {
	respondProblem(c, apierrors.ErrValidation.WithDetail(detail))
}
