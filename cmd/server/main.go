package main

import (
	"log"
	"net/http"

	"campushub/internal/alerts"
	"campushub/internal/config"
	"campushub/internal/handlers"
	"campushub/internal/storage"
)

func main() {
	cfg := config.Load()

	router, db, err := buildServer(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer db.Close()

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}

func buildServer(cfg config.Config) (http.Handler, *storage.DB, error) {
	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	evalCfg := alerts.DefaultConfig()
	evalCfg.BudgetLimit = cfg.BudgetLimit
	evalCfg.SuppressDuplicates = cfg.AlertDedupe

	h := handlers.NewHandlers(db, alerts.NewEvaluator(evalCfg))
	return handlers.NewRouter(h), db, nil
}
