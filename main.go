// File: retreatly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retreatly/config"
	"retreatly/cron"
	"retreatly/database"
	eventRepoPkg "retreatly/database/repository/event"
	"retreatly/handlers"
	"retreatly/middleware"
	"retreatly/routes"
	"retreatly/services/discovery"
	"retreatly/services/intelligence"
	"retreatly/services/scraper"
	"retreatly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.GeolocationMiddleware())

	// repositories.
	eventRepo := eventRepoPkg.NewMongoEventRepo()

	// external candidate providers.
	var providers []discovery.ExternalProvider
	if urls := config.VenueURLs(); len(urls) > 0 {
		providers = append(providers, discovery.VenueProvider{
			Scraper: scraper.NewVenueScraper("venue-scraper", urls, logger),
		})
	}
	if config.AppConfig.TicketingAPIURL != "" {
		providers = append(providers, discovery.TicketingProvider{
			Client: scraper.NewTicketingClient("ticketing-api",
				config.AppConfig.TicketingAPIURL, config.AppConfig.TicketingAPIKey),
		})
	}

	// background cache worker for scraped events.
	enqueuer := cron.NewCacheEnqueuer()
	cron.InitCacheWorker(eventRepo)

	// services.
	sourcer := &discovery.Sourcer{
		Repo:            eventRepo,
		Providers:       providers,
		Cache:           enqueuer,
		MinLocalResults: config.AppConfig.MinLocalResults,
		ProviderTimeout: time.Duration(config.AppConfig.ProviderTimeoutSec) * time.Second,
		Logger:          logger,
	}

	var completionClient intelligence.CompletionClient
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		client, err := intelligence.NewGeminiClient(key)
		if err != nil {
			logger.Sugar().Warnf("main: gemini client unavailable, using heuristics only: %v", err)
		} else {
			completionClient = client
		}
	}

	sessionStore := intelligence.NewRedisSessionStore(utils.GetSessionCacheClient(), 30*time.Minute)

	discoverySvc := &discovery.DefaultDiscoveryService{
		Sourcer:  sourcer,
		Sessions: sessionStore,
		AI:       completionClient,
		Logger:   logger,
	}

	discoveryHandler := handlers.NewDiscoveryHandler(discoverySvc, logger)
	eventsHandler := handlers.NewEventsHandler(discoverySvc, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		EventRepo: eventRepo,

		// Discovery endpoints.
		ChatHandler: discoveryHandler.ChatHandler,

		// Event endpoints.
		BrowseEventsHandler:  eventsHandler.BrowseHandler,
		GetEventHandler:      eventsHandler.GetEventHandler,
		SimilarEventsHandler: eventsHandler.SimilarHandler,
		SubmitEventHandler:   eventsHandler.SubmitEventHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetSessionCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
