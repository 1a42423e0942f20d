package main

import (
	"context"
	"log"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/abelzeko/health-watch/internal/api"
	"github.com/abelzeko/health-watch/internal/config"
	"github.com/abelzeko/health-watch/internal/integration"
	"github.com/abelzeko/health-watch/internal/integration/outbreak"
	"github.com/abelzeko/health-watch/internal/observability"
	"github.com/abelzeko/health-watch/internal/repository"
	"github.com/abelzeko/health-watch/internal/usecases"
)

func main() {
	// Configure logging
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Health Watch collector...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.ScraperURL == "" {
		log.Fatal("SCRAPER_URL environment variable is not set")
	}

	// Initialize repository
	repo, err := repository.NewSQLiteHealthRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}
	defer repo.Close()

	metrics := observability.NewMetrics()
	analysisClient := outbreak.NewClient(cfg.AnalysisURL, cfg.AnalysisTimeout)

	dispatcher := usecases.NewAlertDispatcher(repo, nil, metrics, cfg.AlertTTL)
	useCase := usecases.NewSurveillanceUseCase(repo, analysisClient, dispatcher, metrics, cfg.HistoryLimit)

	// Contamination alerts raised from scraped observations should still
	// notify when Telegram is configured
	if cfg.TelegramBotToken != "" {
		telegramBot, err := api.NewTelegramBot(cfg.TelegramBotToken, cfg.TelegramChatID, useCase)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram bot: %v", err)
		}
		dispatcher.SetNotifier(telegramBot)
	}

	scraper := integration.NewObservationScraper(cfg.ScraperURL)

	refresh := func() {
		observations, err := scraper.FetchObservations()
		if err != nil {
			log.Printf("Observation scrape failed: %v", err)
			return
		}
		stored := 0
		for i := range observations {
			if _, err := useCase.SubmitObservation(context.Background(), &observations[i]); err != nil {
				log.Printf("Failed to store scraped observation for %s: %v", observations[i].Location, err)
				continue
			}
			stored++
		}
		log.Printf("Collector run complete: stored %d of %d observations", stored, len(observations))
	}

	// Run immediately on startup
	refresh()

	// Set up cron scheduler
	c := cron.New()
	_, err = c.AddFunc(cfg.ScraperCron, refresh)
	if err != nil {
		log.Fatalf("Failed to set up cron job: %v", err)
	}

	log.Printf("Collector scheduled with %q", cfg.ScraperCron)
	c.Start()

	// Keep the program running
	select {}
}
