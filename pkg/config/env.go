package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogWarnStack = "STOREFRONT_LOG_WARN_STACK"
	EnvCORSOrigins  = "STOREFRONT_CORS_ORIGINS"

	EnvCartBackend         = "STOREFRONT_CART_BACKEND"
	EnvCartNamespace       = "STOREFRONT_CART_NAMESPACE"
	EnvCartSnapshotTTL     = "STOREFRONT_CART_SNAPSHOT_TTL"
	EnvCartSweepInterval   = "STOREFRONT_CART_SWEEP_INTERVAL"
	EnvCartDefaultCurrency = "STOREFRONT_CART_DEFAULT_CURRENCY"
	EnvCartMaxOpenStores   = "STOREFRONT_CART_MAX_OPEN_STORES"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvRedisAddr = "STOREFRONT_REDIS_ADDR"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"

	EnvSQLitePath = "STOREFRONT_SQLITE_PATH"

	EnvRateLimitWindow  = "STOREFRONT_RATE_LIMIT_CART_WINDOW"
	EnvRateLimitSession = "STOREFRONT_RATE_LIMIT_CART_SESSION_LIMIT"
	EnvRateLimitIP      = "STOREFRONT_RATE_LIMIT_CART_IP_LIMIT"

	EnvAutoMigrate = "STOREFRONT_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
