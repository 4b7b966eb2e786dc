package config

const (
	// EnvPrefix namespaces every environment variable read by envconfig.
	EnvPrefix = "FLEURS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
