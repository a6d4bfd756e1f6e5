package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/server"
	"github.com/substratal/mediagrab/internal/storage"
	"github.com/substratal/mediagrab/pkg/logger"
)

func main() {
	log.Println("Starting mediagrab server")

	configPath := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	cfgFile, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	files := storage.NewManager(cfg.Storage.TempDir, appLogger)
	if err := files.EnsureRoot(); err != nil {
		appLogger.Fatalf("could not prepare temp dir %s: %v", cfg.Storage.TempDir, err)
	}
	appLogger.Infof("temp dir ready: %s", cfg.Storage.TempDir)

	s := server.NewServer(cfg, files, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Fatalf("could not start server: %v", err)
	}
}
