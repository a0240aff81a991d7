package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Env var names shared with tests and operational tooling.
const (
	EnvAppEnv                 = "SUPPLYCART_APP_ENV"
	EnvPort                   = "SUPPLYCART_APP_PORT"
	EnvLogLevel               = "SUPPLYCART_LOG_LEVEL"
	EnvDBDSN                  = "SUPPLYCART_DB_DSN"
	EnvDBHost                 = "SUPPLYCART_DB_HOST"
	EnvDBPort                 = "SUPPLYCART_DB_PORT"
	EnvDBUser                 = "SUPPLYCART_DB_USER"
	EnvDBPassword             = "SUPPLYCART_DB_PASSWORD"
	EnvDBName                 = "SUPPLYCART_DB_NAME"
	EnvRedisURL               = "SUPPLYCART_REDIS_URL"
	EnvJWTSecret              = "SUPPLYCART_JWT_SECRET"
	EnvJWTIssuer              = "SUPPLYCART_JWT_ISSUER"
	EnvJWTExpMins             = "SUPPLYCART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SUPPLYCART_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "SUPPLYCART_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic      = "SUPPLYCART_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub        = "SUPPLYCART_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvPubSubNotificationSub  = "SUPPLYCART_PUBSUB_NOTIFICATION_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
