package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-manager/core/loader"
	"quiz-manager/core/logger"
	"quiz-manager/core/middleware/auth"
	"quiz-manager/core/middleware/rayid"
	authFeature "quiz-manager/feature/auth"
	"quiz-manager/feature/integrity"
	"quiz-manager/feature/items"
	"quiz-manager/feature/matching"
	"quiz-manager/feature/quiz"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "quiz-manager/docs/swagger"
)

// @title Quiz Manager API
// @version 1.0
// @description API for editing quiz variants and playing matching games.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the quiz manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Configuration, logger and backend client
		d, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := d.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := d.client.EnsureSession(ctx); err != nil {
			logg.Warn("Backend login failed, requests will be sent without a session", zap.Error(err))
		}

		// 2. Optional stores
		store := d.openStorage(ctx)
		db := d.openDatabase()
		itemsSvc, err := d.itemsService(d.backup(store))
		if err != nil {
			logg.Fatal("Invalid editor configuration", zap.Error(err))
		}

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// 4. Register Features
		mgr := loader.NewManager(logg)
		quizFeature := quiz.NewFeature(d.client, d.cfg.Editor.LoadConcurrency, logg)
		mgr.Register(quizFeature)
		mgr.Register(items.NewFeature(itemsSvc))
		mgr.Register(matching.NewFeature(matching.NewService(
			quizFeature.Service().Loader(),
			d.attempts(db),
			matching.Config{
				MaxSessions: d.cfg.Matching.MaxSessions,
				SessionTTL:  time.Duration(d.cfg.Matching.SessionTTLMinutes) * time.Minute,
				Shuffle:     d.cfg.Matching.Shuffle,
			},
			logg,
		)))
		mgr.Register(authFeature.NewFeature(d.client, logg))
		mgr.Register(integrity.NewFeature(d.client, store, d.cfg.Storage.Bucket, d.cfg.Editor.BackupPrefix, db, logg))

		// Middleware Registration
		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(logger.Middleware(logg))

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: d.cfg.Server.ApiKey, Public: []string{"/swagger"}}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("address", d.cfg.Server.Address()),
				zap.String("backend", d.cfg.API.BaseURL),
			)
			if err := app.Listen(d.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
