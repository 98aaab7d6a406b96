package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr        string `env:"WEGGO_API_ADDR" envDefault:":8080"`
	DataDir     string `env:"WEGGO_DATA_DIR" envDefault:"./local-data"`
	CatalogDSN  string `env:"WEGGO_CATALOG_DSN"`
	LogLevel    string `env:"WEGGO_LOG_LEVEL" envDefault:"info"`
	SearchLimit int    `env:"WEGGO_SEARCH_LIMIT" envDefault:"10"`
}

// Load parses the configuration from the environment. When WEGGO_CATALOG_DSN
// is set the Postgres catalog adapter is used; otherwise the SQLite catalog
// under DataDir is opened.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
