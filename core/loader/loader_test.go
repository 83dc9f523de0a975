package loader_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"quiz-manager/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	if s.err != nil {
		return s.err
	}
	s.loaded = true
	app.Get("/"+s.name, func(c *fiber.Ctx) error { return c.SendString(s.name) })
	return nil
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("LoadsEnabled", func(t *testing.T) {
		app := fiber.New()
		on := &stubFeature{name: "quiz", enabled: true}
		off := &stubFeature{name: "matching", enabled: false}

		mgr := loader.NewManager(nil)
		mgr.Register(on)
		mgr.Register(off)
		require.NoError(t, mgr.LoadAll(app))

		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
		assert.Len(t, mgr.Features(), 2)

		resp, err := app.Test(httptest.NewRequest("GET", "/quiz", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		mgr := loader.NewManager(nil)
		mgr.Register(&stubFeature{name: "broken", enabled: true, err: errors.New("boom")})
		after := &stubFeature{name: "after", enabled: true}
		mgr.Register(after)

		err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "broken")
		assert.False(t, after.loaded)
	})
}
