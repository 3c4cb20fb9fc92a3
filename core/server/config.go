package server

import "fmt"

// Config holds configuration for the status HTTP server.
type Config struct {
	// Enabled starts the status server alongside the supervisor.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Host is the listen address; empty listens on all interfaces.
	Host string `mapstructure:"host" default:"127.0.0.1"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
