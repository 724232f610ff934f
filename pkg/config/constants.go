package config

// EnvPrefix is intentionally empty; every field carries its fully-qualified
// envconfig tag so variable names stay greppable.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "STUDENTMGMT_APP_ENV"
	EnvPort     = "STUDENTMGMT_APP_PORT"
	EnvDBDSN    = "STUDENTMGMT_DB_DSN"
	EnvDBHost   = "STUDENTMGMT_DB_HOST"
	EnvDBUser   = "STUDENTMGMT_DB_USER"
	EnvDBName   = "STUDENTMGMT_DB_NAME"
	EnvRedisURL = "STUDENTMGMT_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
