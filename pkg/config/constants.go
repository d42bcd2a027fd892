package config

// EnvPrefix scopes every environment variable read by envconfig.
const EnvPrefix = "LAUNDRYPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "LAUNDRYPOS_DB_DSN"
	EnvDBHost = "LAUNDRYPOS_DB_HOST"
	EnvDBUser = "LAUNDRYPOS_DB_USER"
	EnvDBName = "LAUNDRYPOS_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
