package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/NomadCrew/nomad-crew-newsletter/config"
	"github.com/NomadCrew/nomad-crew-newsletter/internal/startup"
	"github.com/NomadCrew/nomad-crew-newsletter/logger"
)

// @title        Newsletter API
// @version      1.0
// @description  Newsletter sign-up with email confirmation.
// @BasePath     /
func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "configuration"
	}

	cfg, err := config.LoadConfig(config.Options{Dir: configDir})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, err := startup.Build(cfg, startup.BuildOptions{})
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Errorf("Server exited with error: %v", err)
	}
}
