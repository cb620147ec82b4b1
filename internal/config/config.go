package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config interface {
	EnvConfig
	SessionConfig
	DevServerConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetLogLevel() string
	GetLogFormat() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Session
	DevServer
}

func New() Config {
	return mainConfig{}
}

// Load reads a .env file from the working directory, if any, before
// returning the environment backed configuration.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}
	return New()
}
