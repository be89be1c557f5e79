package handlers_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apujo-dev/apujo/db"
	"github.com/apujo-dev/apujo/internal/auth"
	"github.com/apujo-dev/apujo/internal/config"
	"github.com/apujo-dev/apujo/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	db.DB = gdb

	return mock
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		StaticRoot:      t.TempDir(),
		MaxUploadSize:   10 << 20,
	}
}

// testRouter wires the handler methods without auth middleware so the CRUD
// behavior can be exercised directly.
func testRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()

	cfg := testConfig(t)
	require.NoError(t, auth.Init(cfg))

	h := handlers.New(cfg)
	r := gin.New()

	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.POST("/api/auth/logout", h.Logout)

	r.GET("/api/thoughts", h.ListThoughts)
	r.GET("/api/thoughts/:slug", h.GetThought)
	r.POST("/api/thoughts", h.CreateThought)
	r.PUT("/api/thoughts/:slug", h.UpdateThought)
	r.DELETE("/api/thoughts/:slug", h.DeleteThought)

	r.GET("/api/works", h.ListWorks)
	r.GET("/api/works/:slug", h.GetWork)
	r.POST("/api/works", h.CreateWork)
	r.PUT("/api/works/:slug", h.UpdateWork)
	r.DELETE("/api/works/:slug", h.DeleteWork)

	r.GET("/api/analytics", h.ListAnalytics)
	r.GET("/api/analytics/:slug", h.GetAnalytic)
	r.POST("/api/analytics", h.CreateAnalytic)
	r.PUT("/api/analytics/:slug", h.UpdateAnalytic)
	r.DELETE("/api/analytics/:slug", h.DeleteAnalytic)

	r.POST("/api/uploads", h.UploadImage)
	r.GET("/api/images/:category/:filename", h.ServeImage)
	r.GET("/api/images/:category/:filename/blob", h.ServeImageBlob)

	return r, cfg
}

func writeUploadFile(t *testing.T, cfg *config.Config, category, name string) string {
	t.Helper()

	dir := filepath.Join(cfg.UploadsRoot(), category)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	target := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(target, []byte("file-content"), 0o644))

	return target
}
