package server_test

import (
	"testing"

	"quiz-manager/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		cfg  server.Config
		want string
	}{
		{"PortOnly", server.Config{Port: "8080"}, ":8080"},
		{"ColonPort", server.Config{Port: ":9000"}, ":9000"},
		{"HostAndPort", server.Config{Host: "127.0.0.1", Port: "8081"}, "127.0.0.1:8081"},
		{"Empty", server.Config{}, ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Address())
		})
	}
}
