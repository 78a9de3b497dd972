package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config is filled from HOTELIER_* environment variables. A .env file, when
// present, is loaded into the environment before processing.
type Config struct {
	DataDir    string `envconfig:"DATA_DIR" default:"./data"`
	HotelsFile string `envconfig:"HOTELS_FILE" default:"hotels.json"`
	UsersFile  string `envconfig:"USERS_FILE" default:"users.json"`
	Tracing    bool   `envconfig:"TRACING" default:"false"`
}

func Load() (*Config, error) {
	var conf Config

	if err := envconfig.Process("hotelier", &conf); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}

	return &conf, nil
}

func (c *Config) HotelsPath() string {
	return filepath.Join(c.DataDir, c.HotelsFile)
}

func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}
