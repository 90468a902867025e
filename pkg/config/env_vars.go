package config

const EnvPrefix = "SPROUTVEST"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "SPROUTVEST_APP_ENV"
	EnvPort     = "SPROUTVEST_APP_PORT"
	EnvLogLevel = "SPROUTVEST_LOG_LEVEL"

	EnvDBDSN  = "SPROUTVEST_DB_DSN"
	EnvDBHost = "SPROUTVEST_DB_HOST"
	EnvDBUser = "SPROUTVEST_DB_USER"
	EnvDBName = "SPROUTVEST_DB_NAME"

	EnvRedisURL = "SPROUTVEST_REDIS_URL"

	EnvJWTSecret  = "SPROUTVEST_JWT_SECRET"
	EnvJWTIssuer  = "SPROUTVEST_JWT_ISSUER"
	EnvJWTExpMins = "SPROUTVEST_JWT_EXPIRATION_MINUTES"

	EnvStripeWebhookSecret    = "SPROUTVEST_STRIPE_WEBHOOK_SECRET"
	EnvFlutterwaveSecretHash  = "SPROUTVEST_FLUTTERWAVE_SECRET_HASH"
	EnvCorrelationSecret      = "SPROUTVEST_CORRELATION_SECRET"
	EnvGCPProjectID           = "SPROUTVEST_GCP_PROJECT_ID"
	EnvPubSubPaymentsTopic    = "SPROUTVEST_PUBSUB_PAYMENTS_TOPIC"
	EnvPubSubPaymentsSub      = "SPROUTVEST_PUBSUB_PAYMENTS_SUBSCRIPTION"
	EnvPubSubNotificationsSub = "SPROUTVEST_PUBSUB_NOTIFICATIONS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
