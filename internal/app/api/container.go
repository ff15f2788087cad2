package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	courierserver "github.com/Apurer/courier-api/go"

	drivermail "github.com/Apurer/courier-api/internal/domains/drivers/adapters/mail"
	drivermemory "github.com/Apurer/courier-api/internal/domains/drivers/adapters/memory"
	driverobs "github.com/Apurer/courier-api/internal/domains/drivers/adapters/observability"
	driverpostgres "github.com/Apurer/courier-api/internal/domains/drivers/adapters/persistence/postgres"
	driverredis "github.com/Apurer/courier-api/internal/domains/drivers/adapters/redis"
	driverapp "github.com/Apurer/courier-api/internal/domains/drivers/application"
	driverports "github.com/Apurer/courier-api/internal/domains/drivers/ports"

	notifmemory "github.com/Apurer/courier-api/internal/domains/notifications/adapters/memory"
	notifobs "github.com/Apurer/courier-api/internal/domains/notifications/adapters/observability"
	notifmongo "github.com/Apurer/courier-api/internal/domains/notifications/adapters/persistence/mongo"
	notifpostgres "github.com/Apurer/courier-api/internal/domains/notifications/adapters/persistence/postgres"
	"github.com/Apurer/courier-api/internal/domains/notifications/adapters/push/fcm"
	"github.com/Apurer/courier-api/internal/domains/notifications/adapters/realtime/websocket"
	notifapp "github.com/Apurer/courier-api/internal/domains/notifications/application"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"

	ordermemory "github.com/Apurer/courier-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/courier-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/courier-api/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/courier-api/internal/domains/orders/adapters/tracking"
	orderapp "github.com/Apurer/courier-api/internal/domains/orders/application"
	orderports "github.com/Apurer/courier-api/internal/domains/orders/ports"

	"github.com/Apurer/courier-api/internal/domains/payments/adapters/checkout"
	paymentobs "github.com/Apurer/courier-api/internal/domains/payments/adapters/observability"
	"github.com/Apurer/courier-api/internal/domains/payments/adapters/payfast"
	paymentstripe "github.com/Apurer/courier-api/internal/domains/payments/adapters/stripe"
	paymentapp "github.com/Apurer/courier-api/internal/domains/payments/application"
	paymentports "github.com/Apurer/courier-api/internal/domains/payments/ports"

	pricingmemory "github.com/Apurer/courier-api/internal/domains/pricing/adapters/memory"
	pricingobs "github.com/Apurer/courier-api/internal/domains/pricing/adapters/observability"
	pricingpostgres "github.com/Apurer/courier-api/internal/domains/pricing/adapters/persistence/postgres"
	pricingapp "github.com/Apurer/courier-api/internal/domains/pricing/application"
	pricingports "github.com/Apurer/courier-api/internal/domains/pricing/ports"

	"github.com/Apurer/courier-api/internal/domains/shipments/adapters/directory"
	shipmentkafka "github.com/Apurer/courier-api/internal/domains/shipments/adapters/events/kafka"
	shipmentmemory "github.com/Apurer/courier-api/internal/domains/shipments/adapters/memory"
	shipmentobs "github.com/Apurer/courier-api/internal/domains/shipments/adapters/observability"
	shipmentpostgres "github.com/Apurer/courier-api/internal/domains/shipments/adapters/persistence/postgres"
	shipmentapp "github.com/Apurer/courier-api/internal/domains/shipments/application"
	shipmentports "github.com/Apurer/courier-api/internal/domains/shipments/ports"

	usermemory "github.com/Apurer/courier-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/courier-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/courier-api/internal/domains/users/adapters/persistence/postgres"
	userredis "github.com/Apurer/courier-api/internal/domains/users/adapters/redis"
	userapp "github.com/Apurer/courier-api/internal/domains/users/application"
	userdomain "github.com/Apurer/courier-api/internal/domains/users/domain"
	userports "github.com/Apurer/courier-api/internal/domains/users/ports"

	platformkafka "github.com/Apurer/courier-api/internal/platform/kafka"
	"github.com/Apurer/courier-api/internal/platform/migrations"
	platformmongo "github.com/Apurer/courier-api/internal/platform/mongo"
	platformobservability "github.com/Apurer/courier-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/courier-api/internal/platform/postgres"
	platformredis "github.com/Apurer/courier-api/internal/platform/redis"
	"github.com/Apurer/courier-api/internal/shared/verification"
)

// Container holds every wired service of the courier backend. Stores that
// are not configured fall back to their in-memory adapters.
type Container struct {
	Logger *slog.Logger

	DB    *gorm.DB
	Redis *goredis.Client
	Mongo *mongo.Database

	Users         userports.Service
	Drivers       driverports.Service
	Shipments     shipmentports.Service
	Orders        orderports.Service
	Notifications notifports.Service
	Payments      paymentports.Service
	Pricing       pricingports.Service
	Emitter       notifports.Emitter
	Hub           *websocket.Hub

	// ShipmentCore is the undecorated lifecycle service used by maintenance jobs.
	ShipmentCore *shipmentapp.Service
	// Sessions is set only when user sessions live in PostgreSQL.
	Sessions *userpostgres.SessionStore
}

// Build connects the configured stores, runs migrations and wires every
// bounded context. The returned cleanup releases connections in reverse order.
func Build(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Container, func(), error) {
	logger := instruments.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	c := &Container{Logger: logger}
	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.DatabaseURL, logger)
	cleanups = append(cleanups, closeDB)
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, nil, err
	}
	rdb, closeRedis := platformredis.ConnectOptional(ctx, cfg.RedisURL, logger)
	cleanups = append(cleanups, closeRedis)
	mdb, closeMongo := platformmongo.ConnectOptional(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	cleanups = append(cleanups, closeMongo)
	c.DB, c.Redis, c.Mongo = db, rdb, mdb

	notifRepo, err := buildNotificationRepository(ctx, c)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	c.Hub = websocket.NewHub(logger, originChecker(cfg.CORSOrigins))
	cleanups = append(cleanups, c.Hub.Close)
	emitterOpts := []notifapp.EmitterOption{
		notifapp.WithBroadcaster(c.Hub),
		notifapp.WithEmitterLogger(logger),
	}
	if sender := buildPushSender(ctx, cfg, logger); sender != nil {
		emitterOpts = append(emitterOpts, notifapp.WithPushSender(sender))
	}
	c.Emitter = notifapp.NewEmitter(notifRepo, emitterOpts...)
	c.Notifications = notifobs.New(notifapp.NewService(notifRepo),
		notifobs.WithLogger(logger),
		notifobs.WithTracer(instruments.Tracer("internal.notifications.application")),
		notifobs.WithMeter(instruments.Meter("internal.notifications.application")),
	)

	mailer := buildMailer(cfg, logger)
	resetCodes := buildResetCodeStore(c)
	userCore, sessions := buildUserService(c, cfg,
		userapp.WithMailer(mailer),
		userapp.WithResetCodes(resetCodes),
		userapp.WithEmitter(c.Emitter),
	)
	c.Sessions = sessions
	c.Users = userobs.New(userCore,
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	if cfg.AdminEmail != "" {
		if _, err := c.Users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	var driverRepo driverports.Repository = drivermemory.NewRepository()
	if db != nil {
		driverRepo = driverpostgres.NewRepository(db)
	}
	var registrations driverports.RegistrationStore = drivermemory.NewRegistrationStore()
	if rdb != nil {
		registrations = driverredis.NewRegistrationStore(rdb)
	}
	issue := func(ctx context.Context, driverID string) (string, error) {
		return c.Users.IssueSession(ctx, driverID, userdomain.RoleDriver)
	}
	c.Drivers = driverobs.New(
		driverapp.NewService(driverRepo, registrations, mailer, issue,
			driverapp.WithEmitter(c.Emitter),
			driverapp.WithLogger(logger),
			driverapp.WithResetCodes(resetCodes),
			driverapp.WithSessionRevoker(c.Users.RevokeSessions),
		),
		driverobs.WithLogger(logger),
		driverobs.WithTracer(instruments.Tracer("internal.drivers.application")),
		driverobs.WithMeter(instruments.Meter("internal.drivers.application")),
	)

	shipmentOpts := []shipmentapp.Option{
		shipmentapp.WithEmitter(c.Emitter),
		shipmentapp.WithLogger(logger),
	}
	var shipmentRepo shipmentports.Repository = shipmentmemory.NewRepository()
	var idempotency shipmentports.IdempotencyStore = shipmentmemory.NewIdempotencyStore()
	if db != nil {
		shipmentRepo = shipmentpostgres.NewRepository(db)
		idempotency = shipmentpostgres.NewIdempotencyStore(db)
	}
	shipmentOpts = append(shipmentOpts, shipmentapp.WithIdempotencyStore(idempotency))
	if publisher := buildEventPublisher(cfg, logger); publisher != nil {
		cleanups = append(cleanups, func() { _ = publisher.Close() })
		shipmentOpts = append(shipmentOpts, shipmentapp.WithEventPublisher(publisher))
	}
	c.ShipmentCore = shipmentapp.NewService(shipmentRepo, directory.NewDrivers(driverRepo), shipmentOpts...)
	c.Shipments = shipmentobs.New(c.ShipmentCore,
		shipmentobs.WithLogger(logger),
		shipmentobs.WithTracer(instruments.Tracer("internal.shipments.application")),
		shipmentobs.WithMeter(instruments.Meter("internal.shipments.application")),
	)

	var orderRepo orderports.Repository = ordermemory.NewRepository()
	if db != nil {
		orderRepo = orderpostgres.NewRepository(db)
	}
	lookup := func(ctx context.Context, phone string) (string, error) {
		user, err := c.Users.GetByPhone(ctx, phone)
		if err != nil {
			if errors.Is(err, userports.ErrNotFound) {
				return "", nil
			}
			return "", err
		}
		return user.ID, nil
	}
	c.Orders = orderobs.New(
		orderapp.NewService(orderRepo,
			orderapp.WithShipmentLinks(tracking.NewShipments(c.Shipments)),
			orderapp.WithCustomerLookup(lookup),
			orderapp.WithEmitter(c.Emitter),
			orderapp.WithLogger(logger),
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var pricingRepo pricingports.Repository = pricingmemory.NewRepository()
	if db != nil {
		pricingRepo = pricingpostgres.NewRepository(db)
	}
	c.Pricing = pricingobs.New(pricingapp.NewService(pricingRepo, pricingapp.WithLogger(logger)),
		pricingobs.WithLogger(logger),
		pricingobs.WithTracer(instruments.Tracer("internal.pricing.application")),
		pricingobs.WithMeter(instruments.Meter("internal.pricing.application")),
	)

	c.Payments = paymentobs.New(buildPaymentService(c, cfg, logger),
		paymentobs.WithLogger(logger),
		paymentobs.WithTracer(instruments.Tracer("internal.payments.application")),
		paymentobs.WithMeter(instruments.Meter("internal.payments.application")),
	)
	return c, cleanup, nil
}

// ReadinessChecks probes every configured external store.
func (c *Container) ReadinessChecks() map[string]courierserver.ReadinessCheck {
	checks := map[string]courierserver.ReadinessCheck{}
	if c.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() }
	}
	if c.Mongo != nil {
		checks["mongo"] = func(ctx context.Context) error { return c.Mongo.Client().Ping(ctx, nil) }
	}
	return checks
}

func buildNotificationRepository(ctx context.Context, c *Container) (notifports.Repository, error) {
	switch {
	case c.Mongo != nil:
		c.Logger.Info("notification repository configured with mongo")
		return notifmongo.NewRepository(ctx, c.Mongo)
	case c.DB != nil:
		return notifpostgres.NewRepository(c.DB), nil
	default:
		return notifmemory.NewRepository(), nil
	}
}

// buildResetCodeStore shares password reset codes across replicas when Redis is configured.
func buildResetCodeStore(c *Container) verification.Store {
	if c.Redis != nil {
		return verification.NewRedisStore(c.Redis)
	}
	return verification.NewMemoryStore()
}

func buildUserService(c *Container, cfg Config, opts ...userapp.Option) (*userapp.Service, *userpostgres.SessionStore) {
	var repo userports.Repository = usermemory.NewRepository()
	var sessions userports.SessionStore = usermemory.NewSessionStore()
	var purgeable *userpostgres.SessionStore
	if c.DB != nil {
		repo = userpostgres.NewRepository(c.DB)
		purgeable = userpostgres.NewSessionStore(c.DB)
		sessions = purgeable
	}
	if c.Redis != nil {
		c.Logger.Info("user sessions stored in redis")
		sessions = userredis.NewSessionStore(c.Redis)
		purgeable = nil
	}
	opts = append(opts, userapp.WithSessionTTL(cfg.SessionTTL))
	return userapp.NewService(repo, sessions, opts...), purgeable
}

func buildMailer(cfg Config, logger *slog.Logger) driverports.Mailer {
	if strings.TrimSpace(cfg.SMTP.Host) == "" {
		logger.Warn("SMTP_HOST not set, verification codes are written to the log")
		return drivermail.NewLogMailer(logger)
	}
	return drivermail.NewSMTPMailer(drivermail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     strconv.Itoa(cfg.SMTP.Port),
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}

func buildPushSender(ctx context.Context, cfg Config, logger *slog.Logger) notifports.PushSender {
	if strings.TrimSpace(cfg.FirebaseCredentialsFile) == "" {
		return nil
	}
	sender, err := fcm.New(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Warn("push notifications disabled", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("push notifications enabled")
	return sender
}

func buildEventPublisher(cfg Config, logger *slog.Logger) *shipmentkafka.Publisher {
	if strings.TrimSpace(cfg.KafkaBrokers) == "" {
		return nil
	}
	writer, err := platformkafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaShipmentTopic)
	if err != nil {
		logger.Warn("shipment events disabled", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("shipment events published to kafka", slog.String("topic", cfg.KafkaShipmentTopic))
	return shipmentkafka.NewPublisher(writer)
}

func buildPaymentService(c *Container, cfg Config, logger *slog.Logger) *paymentapp.Service {
	gateway := payfast.NewGateway(payfast.Config{
		MerchantID:  cfg.PayFast.MerchantID,
		MerchantKey: cfg.PayFast.MerchantKey,
		Passphrase:  cfg.PayFast.Passphrase,
		Sandbox:     cfg.PayFast.Sandbox,
		FrontendURL: cfg.FrontendURL,
		BackendURL:  cfg.BackendURL,
	})
	if gateway.UsesSandboxMerchant() {
		logger.Warn("PayFast merchant credentials not set, using sandbox merchant")
	}
	opts := []paymentapp.Option{
		paymentapp.WithEmitter(c.Emitter),
		paymentapp.WithLogger(logger),
		paymentapp.WithCurrency(cfg.PaymentCurrency),
	}
	if strings.TrimSpace(cfg.StripeSecretKey) != "" {
		opts = append(opts, paymentapp.WithCardGateway(
			paymentstripe.NewGateway(cfg.StripeSecretKey, cfg.StripePublishableKey, nil),
		))
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, card payments disabled")
	}
	return paymentapp.NewService(gateway, checkout.NewShipments(c.Shipments), opts...)
}

// originChecker accepts websocket upgrades from the configured CORS origins.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.TrimSuffix(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.TrimSuffix(origin, "/")]
		return ok
	}
}
