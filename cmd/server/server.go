package main

import (
	"context"
	"log"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/abelzeko/health-watch/internal/api"
	"github.com/abelzeko/health-watch/internal/config"
	"github.com/abelzeko/health-watch/internal/integration/outbreak"
	"github.com/abelzeko/health-watch/internal/observability"
	"github.com/abelzeko/health-watch/internal/repository"
	"github.com/abelzeko/health-watch/internal/usecases"
)

func main() {
	// Configure logging
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Health Watch server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
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

	// Initialize Telegram bot when configured; without a token,
	// notification is simply skipped
	if cfg.TelegramBotToken != "" {
		telegramBot, err := api.NewTelegramBot(cfg.TelegramBotToken, cfg.TelegramChatID, useCase)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram bot: %v", err)
		}
		dispatcher.SetNotifier(telegramBot)
		go telegramBot.Start()
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, alert notification disabled")
	}

	// Scheduled analysis sweep so outbreak alerting does not depend on
	// submission traffic
	c := cron.New()
	_, err = c.AddFunc(cfg.AnalysisCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.AnalysisTimeout)
		defer cancel()
		if _, err := useCase.RunAnalysis(ctx); err != nil {
			log.Printf("Scheduled analysis sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to set up analysis cron job: %v", err)
	}
	c.Start()
	log.Printf("Analysis sweep scheduled with %q", cfg.AnalysisCron)

	server := api.NewHTTPServer(useCase)
	log.Fatal(server.Start(cfg.HTTPAddr))
}
