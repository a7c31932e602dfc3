package integrity

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"chapter-sync/core/database"
	"chapter-sync/core/reconcile"
	"chapter-sync/core/storage/mocks"
	"chapter-sync/feature/downloads"
	"chapter-sync/feature/library"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orphan = "mangadex/Test Manga/Ch.9 - old/"

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, library.Migrate(db))

	_, err = library.NewStore(db).AddManga(context.Background(), reconcile.Manga{
		Title: "Test Manga", Source: "mangadex", URL: "/manga/1",
	})
	require.NoError(t, err)
	return db
}

func setupTestApp(t *testing.T, db *gorm.DB) (*fiber.App, *mocks.Client) {
	t.Helper()
	client := new(mocks.Client)
	feature := NewFeature(client, "downloads", downloads.NewLayout(""), zap.NewNop(), db)

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, client
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestFeature(t *testing.T) {
	feature := NewFeature(new(mocks.Client), "downloads", downloads.NewLayout(""), zap.NewNop(), nil)
	assert.Equal(t, "integrity", feature.Name())
	assert.False(t, feature.IsEnabled())

	feature = NewFeature(nil, "downloads", downloads.NewLayout(""), zap.NewNop(), setupDB(t))
	assert.True(t, feature.IsEnabled())
}

func TestHandleDownloadsCheck(t *testing.T) {
	t.Run("Report", func(t *testing.T) {
		app, client := setupTestApp(t, setupDB(t))
		client.On("ListObjects", mock.Anything, "downloads", mock.Anything).Return(listing(orphan))

		status, body := getJSON(t, app, "/integrity/downloads")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, []any{orphan}, body["orphans"])
		client.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fix", func(t *testing.T) {
		app, client := setupTestApp(t, setupDB(t))
		client.On("ListObjects", mock.Anything, "downloads", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return !opts.Recursive
		})).Return(listing(orphan))
		client.On("ListObjects", mock.Anything, "downloads", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Recursive
		})).Return(listing(orphan + "001.jpg"))
		client.On("RemoveObjects", mock.Anything, "downloads", mock.Anything, mock.Anything).Return(nil)

		status, body := getJSON(t, app, "/integrity/downloads?fix=true")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "fixed", body["status"])
		assert.Equal(t, float64(1), body["removed"])
		assert.Equal(t, []string{orphan + "001.jpg"}, client.Removed)
	})

	t.Run("No Storage", func(t *testing.T) {
		feature := NewFeature(nil, "downloads", downloads.NewLayout(""), zap.NewNop(), setupDB(t))
		app := fiber.New()
		require.NoError(t, feature.Load(app))

		status, body := getJSON(t, app, "/integrity/downloads")
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Equal(t, ErrNoStorage.Error(), body["error"])
	})
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t, setupDB(t))

	status, body := getJSON(t, app, "/integrity/schema")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["matched"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, client := setupTestApp(t, setupDB(t))
	client.On("ListObjects", mock.Anything, "downloads", mock.Anything).Return(listing())

	status, body := getJSON(t, app, "/integrity")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "schema")
	assert.Contains(t, body, "downloads")
}
