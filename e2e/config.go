package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// WS_ADDR points at a running chat server, e.g. ws://localhost:8080/ws.
	// Leaving it empty skips the suite.
	WSAddr  string `envconfig:"WS_ADDR"`
	TCPAddr string `envconfig:"TCP_ADDR"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
