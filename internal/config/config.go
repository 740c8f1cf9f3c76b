package config

type Config interface {
	EnvConfig
	ProviderConfig
	StoreConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Provider
	Store
	Security
}

func New() Config {
	return mainConfig{}
}
