package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"prompt-console/core/config"
	"prompt-console/core/database"
	"prompt-console/core/docstore"
	"prompt-console/core/logger"
	"prompt-console/core/middleware/auth"
	"prompt-console/core/middleware/rayid"
	"prompt-console/feature/device"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the prompt console server",
	Long:  `Starts the HTTP server serving the device ledger and admission API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the document store
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		store, err := docstore.NewGormClient(db)
		if err != nil {
			logg.Fatal("Failed to initialize document store", zap.Error(err))
		}

		// 4. Wire the device feature
		registry := device.NewRegistry(store, logg)
		settings := device.NewSettings(store, logg)
		gate := device.NewGate(registry, settings, logg)
		handler := device.NewHandler(registry, gate, logg)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// RayID must be first so everything downstream is traceable.
		app.Use(rayid.New())

		// Request logging with Zap + RayID
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

		// Auth protects the whole API surface.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		handler.RegisterRoutes(app.Group("/api"))

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
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
	RootCmd.AddCommand(serveCmd)
}
