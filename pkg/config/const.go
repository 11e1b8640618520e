package config

const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv        = "LEAFLINE_APP_ENV"
	EnvPort          = "LEAFLINE_APP_PORT"
	EnvDBDSN         = "LEAFLINE_DB_DSN"
	EnvDBHost        = "LEAFLINE_DB_HOST"
	EnvDBUser        = "LEAFLINE_DB_USER"
	EnvDBName        = "LEAFLINE_DB_NAME"
	EnvRedisURL      = "LEAFLINE_REDIS_URL"
	EnvSessionSecret = "LEAFLINE_SESSION_SECRET"
	EnvUseSQLite     = "LEAFLINE_USE_SQLITE"
	EnvPolicyMinAge  = "LEAFLINE_POLICY_MINIMUM_AGE"
	EnvPolicyCats    = "LEAFLINE_POLICY_ALLOWED_CATEGORIES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
