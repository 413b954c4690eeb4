package config

type Config interface {
	EnvConfig
	MicrosoftConfig
	ClickUpConfig
	RelayConfig
}

type mainConfig struct {
	EnvVars
	Microsoft
	ClickUp
	Relay
}

func New() Config {
	return mainConfig{}
}
