package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	HTTPAddr     string
	ServiceName  string
	Environment  string
	LogLevel     string
	OTLPEndpoint string
	OTLPInsecure bool

	DatabaseURL   string
	RedisURL      string
	MongoURI      string
	MongoDatabase string

	KafkaBrokers       string
	KafkaShipmentTopic string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	CORSOrigins []string

	StripeSecretKey      string
	StripePublishableKey string
	PaymentCurrency      string
	PayFast              PayFastConfig
	FrontendURL          string
	BackendURL           string

	FirebaseCredentialsFile string
	SMTP                    SMTPConfig

	AdminEmail           string
	AdminPassword        string
	SessionTTL           time.Duration
	SessionPurgeInterval time.Duration
}

type PayFastConfig struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	Sandbox     bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LoadConfig reads an optional .env file, then environment variables, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", slog.String("error", err.Error()))
	}
	return loadConfig(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SERVICE_NAME", "courier-api")
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("MONGO_DATABASE", "courier")
	v.SetDefault("KAFKA_SHIPMENT_TOPIC", "shipments.lifecycle")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("PAYMENT_CURRENCY", "inr")
	v.SetDefault("PAYFAST_MODE", "sandbox")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("BACKEND_URL", "http://localhost:8080")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_PURGE_INTERVAL", "0s")
	return v
}

func loadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddr:     listenAddr(v),
		ServiceName:  v.GetString("SERVICE_NAME"),
		Environment:  v.GetString("ENVIRONMENT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		OTLPEndpoint: strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure: v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),

		DatabaseURL:   firstNonEmpty(v.GetString("DATABASE_URL"), v.GetString("POSTGRES_DSN")),
		RedisURL:      strings.TrimSpace(v.GetString("REDIS_URL")),
		MongoURI:      strings.TrimSpace(v.GetString("MONGO_URI")),
		MongoDatabase: v.GetString("MONGO_DATABASE"),

		KafkaBrokers:       strings.TrimSpace(v.GetString("KAFKA_BROKERS")),
		KafkaShipmentTopic: v.GetString("KAFKA_SHIPMENT_TOPIC"),

		TemporalAddress:   v.GetString("TEMPORAL_ADDRESS"),
		TemporalNamespace: v.GetString("TEMPORAL_NAMESPACE"),
		TemporalDisabled:  v.GetBool("TEMPORAL_DISABLED"),

		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		StripeSecretKey:      strings.TrimSpace(v.GetString("STRIPE_SECRET_KEY")),
		StripePublishableKey: strings.TrimSpace(v.GetString("STRIPE_PUBLISHABLE_KEY")),
		PaymentCurrency:      strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		PayFast: PayFastConfig{
			MerchantID:  strings.TrimSpace(v.GetString("PAYFAST_MERCHANT_ID")),
			MerchantKey: strings.TrimSpace(v.GetString("PAYFAST_MERCHANT_KEY")),
			Passphrase:  v.GetString("PAYFAST_PASSPHRASE"),
			Sandbox:     strings.EqualFold(v.GetString("PAYFAST_MODE"), "sandbox"),
		},
		FrontendURL: firstNonEmpty(v.GetString("FRONTEND_URL"), v.GetString("BASE_URL")),
		BackendURL:  firstNonEmpty(v.GetString("BACKEND_URL"), v.GetString("API_URL")),

		FirebaseCredentialsFile: strings.TrimSpace(v.GetString("FIREBASE_CREDENTIALS_FILE")),
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(v.GetString("SMTP_HOST")),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},

		AdminEmail:    strings.TrimSpace(v.GetString("ADMIN_EMAIL")),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.SessionTTL, err = positiveDuration(v, "SESSION_TTL", false); err != nil {
		return Config{}, err
	}
	if cfg.SessionPurgeInterval, err = positiveDuration(v, "SESSION_PURGE_INTERVAL", true); err != nil {
		return Config{}, err
	}
	if cfg.SMTP.Host != "" && (cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535) {
		return Config{}, fmt.Errorf("SMTP_PORT must be a valid port")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}

// listenAddr honours the legacy PORT variable when HTTP_ADDR is left at its default.
func listenAddr(v *viper.Viper) string {
	if v.IsSet("HTTP_ADDR") && v.GetString("HTTP_ADDR") != ":8080" {
		return v.GetString("HTTP_ADDR")
	}
	if port := strings.TrimSpace(v.GetString("PORT")); port != "" {
		return ":" + strings.TrimPrefix(port, ":")
	}
	return v.GetString("HTTP_ADDR")
}

func positiveDuration(v *viper.Viper, key string, allowZero bool) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("%s must be a positive duration such as 30m or 24h", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
