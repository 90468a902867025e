package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	Webhooks     WebhooksConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPROUTVEST_APP_ENV" required:"true"`
	Port         string `envconfig:"SPROUTVEST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SPROUTVEST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPROUTVEST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SPROUTVEST_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SPROUTVEST_DB_DSN"`
	Driver string `envconfig:"SPROUTVEST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SPROUTVEST_DB_HOST"`
	LegacyPort     int    `envconfig:"SPROUTVEST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SPROUTVEST_DB_USER"`
	LegacyPassword string `envconfig:"SPROUTVEST_DB_PASSWORD"`
	LegacyName     string `envconfig:"SPROUTVEST_DB_NAME"`
	LegacySSLMode  string `envconfig:"SPROUTVEST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPROUTVEST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SPROUTVEST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SPROUTVEST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPROUTVEST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SPROUTVEST_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SPROUTVEST_REDIS_ADDR"`
	Password     string        `envconfig:"SPROUTVEST_REDIS_PASSWORD"`
	DB           int           `envconfig:"SPROUTVEST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SPROUTVEST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPROUTVEST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPROUTVEST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPROUTVEST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SPROUTVEST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SPROUTVEST_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SPROUTVEST_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SPROUTVEST_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SPROUTVEST_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"SPROUTVEST_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

// WebhooksConfig carries the per-processor webhook credentials. Stripe signs
// deliveries with a timestamped HMAC; Flutterwave sends a static verification
// hash header.
type WebhooksConfig struct {
	StripeSigningSecret   string        `envconfig:"SPROUTVEST_STRIPE_WEBHOOK_SECRET" required:"true"`
	FlutterwaveSecretHash string        `envconfig:"SPROUTVEST_FLUTTERWAVE_SECRET_HASH" required:"true"`
	CorrelationSecret     string        `envconfig:"SPROUTVEST_CORRELATION_SECRET" required:"true"`
	MaxBodyBytes          int64         `envconfig:"SPROUTVEST_WEBHOOK_MAX_BODY_BYTES" default:"1048576"`
	DedupeTTL             time.Duration `envconfig:"SPROUTVEST_WEBHOOK_DEDUPE_TTL" default:"24h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SPROUTVEST_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SPROUTVEST_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SPROUTVEST_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	PaymentsTopic             string `envconfig:"SPROUTVEST_PUBSUB_PAYMENTS_TOPIC" required:"true"`
	PaymentsSubscription      string `envconfig:"SPROUTVEST_PUBSUB_PAYMENTS_SUBSCRIPTION" required:"true"`
	NotificationsSubscription string `envconfig:"SPROUTVEST_PUBSUB_NOTIFICATIONS_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset            string `envconfig:"SPROUTVEST_BIGQUERY_DATASET" default:"sproutvest"`
	PaymentEventsTable string `envconfig:"SPROUTVEST_BIGQUERY_PAYMENT_EVENTS_TABLE" default:"payment_events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SPROUTVEST_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SPROUTVEST_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SPROUTVEST_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
