// @title SDO Task Tracker API
// @version 1.0
// @description Distance-learning task tracker: task cases, review workflow and progress dashboards.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"path/filepath"
	"sdo_backend/internal/app"
	"sdo_backend/internal/config"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "run database migrations on start even in release mode")
	watch := flag.Bool("watch-config", true, "reload config.yaml when it changes")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	if *migrateOnly {
		log.Println("Database migration finished")
		return
	}

	configFile := ""
	if *watch {
		configFile = filepath.Join(*configDir, "config.yaml")
	}
	application.Run(configFile)
}
