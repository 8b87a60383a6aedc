package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, docs).
const (
	EnvAppEnv   = "CHAIRTIME_APP_ENV"
	EnvPort     = "CHAIRTIME_APP_PORT"
	EnvDBDSN    = "CHAIRTIME_DB_DSN"
	EnvDBHost   = "CHAIRTIME_DB_HOST"
	EnvDBUser   = "CHAIRTIME_DB_USER"
	EnvDBName   = "CHAIRTIME_DB_NAME"
	EnvRedisURL = "CHAIRTIME_REDIS_URL"

	EnvPayoutCutoffHour = "CHAIRTIME_PAYOUT_CUTOFF_HOUR"
	EnvPayoutRounding   = "CHAIRTIME_PAYOUT_ROUNDING"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
