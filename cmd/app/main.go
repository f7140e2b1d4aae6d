package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/safatanc/tapreview-core/injector"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

func main() {
	config, err := infrastructures.LoadConfig(context.Background())
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	infrastructures.ConfigureLogger(config)

	app, err := injector.InitializeApplication(config)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	app.Scheduler.Start()

	router := fiber.New(infrastructures.NewFiberConfig(config))

	// Add CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.PublicBaseURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PATCH, OPTIONS",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length, Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:           300,
	}))

	app.RegisterRoutes(router)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logrus.Info("shutting down")
		if err := router.ShutdownWithTimeout(30 * time.Second); err != nil {
			logrus.Errorf("Failed to shut down server: %v", err)
		}
	}()

	if err := router.Listen(config.ListenAddr()); err != nil {
		logrus.Fatalf("Server stopped: %v", err)
	}

	if err := app.Shutdown(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
}
