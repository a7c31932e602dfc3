package update

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	lib := newFakeLibrary(manga(1, "Alpha", "mangadex"))
	src := newFakeSource("mangadex")
	src.set(1, rc("c1", 1, "A"))
	s := newTestScheduler(Config{MaxConcurrency: 1}, lib, WithSources(src))

	feature := NewFeature(s)
	assert.Equal(t, "update", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	t.Run("Start", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/updates", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 1.0, body["queued"])

		require.NoError(t, s.Wait(context.Background()))
	})

	t.Run("Status", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/updates", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var status Status
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		assert.False(t, status.Running)
	})

	t.Run("Cancel while idle", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/updates", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	})
}
