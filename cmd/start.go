package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chapter-sync/core/loader"
	"chapter-sync/core/logger"
	"chapter-sync/core/middleware/auth"
	"chapter-sync/core/middleware/rayid"
	"chapter-sync/feature/downloads"
	"chapter-sync/feature/integrity"
	"chapter-sync/feature/library"
	"chapter-sync/feature/update"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "chapter-sync/docs/swagger"
)

// @title Chapter Sync API
// @version 1.0
// @description API for reconciling manga chapters and running library updates.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chapter sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := a.logger
		defer logg.Sync()

		if a.db != nil {
			if err := library.VerifySchema(a.db); err != nil {
				logg.Fatal("Library schema check failed", zap.Error(err))
			}
		}

		cfg := a.cfg.Server
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           cfg.ReadTimeout(),
			BodyLimit:             cfg.BodyLimit(),
		})

		mgr := loader.NewManager(logg)
		mgr.Register(library.NewFeature(a.db, a.reconciler, a.scheduler, logg))
		mgr.Register(update.NewFeature(a.scheduler))
		mgr.Register(downloads.NewFeature(a.downloads))
		mgr.Register(integrity.NewFeature(a.storage, a.cfg.Storage.Bucket, downloads.NewLayout(a.cfg.Downloads.Prefix), logg, a.db))

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(cfg.ApiKey))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Address()))
			if err := app.Listen(cfg.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")

		if a.scheduler != nil {
			a.scheduler.Cancel()
			waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := a.scheduler.Wait(waitCtx); err != nil {
				logg.Warn("Update campaign did not stop in time", zap.Error(err))
			}
			cancel()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
