package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Config configures the API key check.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Header is the request header holding the key. Defaults to X-API-Key.
	Header string
	// Public lists path prefixes served without a key.
	Public []string
}

// New returns a middleware that rejects requests without the configured API key.
func New(cfg Config) fiber.Handler {
	if cfg.Header == "" {
		cfg.Header = "X-API-Key"
	}
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		for _, prefix := range cfg.Public {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}
		key := c.Get(cfg.Header)
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}
