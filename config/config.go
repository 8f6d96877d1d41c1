// Package config reads the client settings from FDOCONF_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const EnvPrefix = "FDOCONF"

type Config struct {
	URL       string `envconfig:"FDOCONF_URL"`
	LogLevel  string `envconfig:"FDOCONF_LOG_LEVEL" default:"info"`
	UserAgent string `envconfig:"FDOCONF_USER_AGENT" default:"fdoconf"`
	Session   string `envconfig:"FDOCONF_SESSION"`
	Tracing   bool   `envconfig:"FDOCONF_TRACING" default:"false"`
}

// LoadEnvFiles loads the given .env files into the environment. Variables
// already set win. A missing file is not an error.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(file); err != nil {
			return errors.Wrapf(err, "loading %s", file)
		}
	}

	return nil
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	return &cfg, nil
}

// Validate checks the settings once every source has been applied
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("backend url is required, set FDOCONF_URL or --url")
	}

	return nil
}

// Override replaces settings given on the command line. Empty values keep
// the environment setting.
func (c *Config) Override(url string, logLevel string) {
	if url != "" {
		c.URL = url
	}

	if logLevel != "" {
		c.LogLevel = logLevel
	}
}
