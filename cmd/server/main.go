package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ivolkov/portfolio-graphs/internal/api"
	"github.com/ivolkov/portfolio-graphs/internal/config"
	"github.com/ivolkov/portfolio-graphs/internal/database"
	"github.com/ivolkov/portfolio-graphs/internal/exchangerate"
	"github.com/ivolkov/portfolio-graphs/internal/repository"
	"github.com/ivolkov/portfolio-graphs/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	itemRepo := repository.NewPortfolioItemRepository(db)
	securityRepo := repository.NewSecurityRepository(db)
	rateRepo := repository.NewExchangeRateRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	graphRepo := repository.NewGraphRepository(db)

	// Create services
	settingService, err := service.NewSettingService(settingRepo, cfg.FernetKey, cfg.ExchangeRate.APIKey)
	if err != nil {
		log.Fatalf("Failed to create setting service: %v", err)
	}

	fxClient := exchangerate.NewAPIClient(cfg.ExchangeRate.BaseURL, settingService.FXAPIKey).
		WithHTTPClient(&http.Client{Timeout: 15 * time.Second})
	rateService := service.NewExchangeRateService(rateRepo, fxClient)
	graphService := service.NewGraphService(itemRepo, rateService)
	snapshotService := service.NewSnapshotService(portfolioRepo, graphRepo, graphService)
	portfolioService := service.NewPortfolioService(portfolioRepo, itemRepo, securityRepo)
	securityService := service.NewSecurityService(securityRepo)

	// Schedule the daily graph dataset snapshot
	scheduler := cron.New(cron.WithLocation(time.UTC))
	_, err = scheduler.AddFunc("0 6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := snapshotService.RefreshAll(ctx); err != nil {
			log.Printf("Graph snapshot refresh failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule snapshot job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(db, portfolioService, securityService, graphService, snapshotService, settingService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
