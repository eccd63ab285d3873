package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"

	"oikotie-analytics/config"
	"oikotie-analytics/fetcher/oikotie"
	"oikotie-analytics/logger"
	"oikotie-analytics/services"
	"oikotie-analytics/storage"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogFile)

	log.Info("=== Oikotie listing analytics starting ===")
	log.Infof("Config — interval: %dh | history: %s | locations: %d",
		cfg.RunIntervalHours, cfg.HistoryCSVPath, len(cfg.Search.Locations))

	client := oikotie.New(cfg, log)
	store := storage.NewHistoryStore(cfg.HistoryCSVPath)
	runner := services.NewRunner(log, client, store)

	// A failed run is logged and waits for the next tick; it must never
	// take the process down.
	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		report, err := runner.RunOnce(ctx)
		if err != nil {
			log.Errorf("Run failed: %v", err)
			return
		}
		services.PrintReport(report)
	}

	scheduler := gocron.NewScheduler(time.Local)
	if _, err := scheduler.Every(cfg.RunIntervalHours).Hours().StartImmediately().Do(job); err != nil {
		log.Errorf("Failed to schedule job: %v", err)
		os.Exit(1)
	}
	scheduler.StartAsync()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	scheduler.Stop()
}
