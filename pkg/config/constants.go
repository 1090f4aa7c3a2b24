package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "FUNNELSIGHT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "FUNNELSIGHT_APP_ENV"
	EnvPort     = "FUNNELSIGHT_APP_PORT"
	EnvDBDSN    = "FUNNELSIGHT_DB_DSN"
	EnvDBHost   = "FUNNELSIGHT_DB_HOST"
	EnvDBUser   = "FUNNELSIGHT_DB_USER"
	EnvDBName   = "FUNNELSIGHT_DB_NAME"
	EnvRedisURL = "FUNNELSIGHT_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
