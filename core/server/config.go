package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// Host is the interface to bind; empty binds all interfaces.
	Host string `mapstructure:"host" default:""`
}

// Address returns the listen address.
func (c Config) Address() string {
	port := strings.TrimPrefix(c.Port, ":")
	if port == "" {
		port = "8080"
	}
	return c.Host + ":" + port
}
