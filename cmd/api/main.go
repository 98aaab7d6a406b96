package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/example/weggo/api-go/internal/catalog"
	"github.com/example/weggo/api-go/internal/config"
	"github.com/example/weggo/api-go/internal/httpapi"
	"github.com/example/weggo/api-go/internal/jobs"
	"github.com/example/weggo/api-go/internal/pricing"
)

func main() {
	loadDotEnv()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	var searcher catalog.Searcher
	if cfg.CatalogDSN != "" {
		pg, err := catalog.OpenPostgres(context.Background(), cfg.CatalogDSN)
		if err != nil {
			log.Fatalf("open catalog: %v", err)
		}
		defer pg.Close()
		searcher = pg
		log.Info("using postgres catalog")
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			log.Fatalf("mkdir data dir: %v", err)
		}
		db, err := catalog.OpenSQLite(filepath.Join(cfg.DataDir, "catalog.db"))
		if err != nil {
			log.Fatalf("open catalog: %v", err)
		}
		defer db.Close()
		searcher = db
		log.Infof("using sqlite catalog in %s", cfg.DataDir)
	}

	engine := pricing.NewEngine(searcher, cfg.SearchLimit, log)
	runner := jobs.NewRunner(jobs.NewRegistry(), engine, log)
	server := httpapi.Server{Runner: runner}

	log.Infof("pricing API listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server.Router()); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
