package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/contentfactory-ai/platform/pkg/analytics"
	"github.com/contentfactory-ai/platform/pkg/avatar"
	"github.com/contentfactory-ai/platform/pkg/catalog"
	"github.com/contentfactory-ai/platform/pkg/common/config"
	"github.com/contentfactory-ai/platform/pkg/common/database"
	"github.com/contentfactory-ai/platform/pkg/common/httpclient"
	"github.com/contentfactory-ai/platform/pkg/common/kafka"
	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/discovery"
	"github.com/contentfactory-ai/platform/pkg/monitoring"
	"github.com/contentfactory-ai/platform/pkg/pipeline"
	"github.com/contentfactory-ai/platform/pkg/publisher"
	"github.com/contentfactory-ai/platform/pkg/script"
	"github.com/contentfactory-ai/platform/pkg/social"
	"github.com/contentfactory-ai/platform/pkg/video"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres()

	redisClient := database.GetRedis()
	defer database.CloseRedis()

	catalogRepo := catalog.NewRepository(db)
	videoRepo := video.NewRepository(db)
	socialRepo := social.NewRepository(db)
	for _, migrate := range []func() error{
		catalogRepo.AutoMigrate,
		videoRepo.AutoMigrate,
		socialRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Log.WithError(err).Fatal("Database migration failed")
		}
	}

	productsProducer := kafka.NewProducer(kafka.TopicProducts)
	defer productsProducer.Close()
	videosProducer := kafka.NewProducer(kafka.TopicVideos)
	defer videosProducer.Close()
	postsProducer := kafka.NewProducer(kafka.TopicPosts)
	defer postsProducer.Close()
	resultsProducer := kafka.NewProducer(kafka.TopicPipelineResults)
	defer resultsProducer.Close()

	outbound := httpclient.New(cfg.OutboundTimeout)

	// Product discovery
	sources := []discovery.Source{discovery.NewFakeStoreSource(outbound)}
	if cfg.EbayAPIKey != "" {
		sources = append(sources, discovery.NewEbaySource(outbound, cfg.EbayAPIKey))
	}
	if cfg.EtsyAPIKey != "" {
		sources = append(sources, discovery.NewEtsySource(outbound, cfg.EtsyAPIKey))
	}
	if cfg.ShopifyAPIKey != "" && cfg.ShopifyStoreURL != "" {
		sources = append(sources, discovery.NewShopifySource(outbound, cfg.ShopifyAPIKey, cfg.ShopifyStoreURL))
	}
	if cfg.AmazonAPIKey != "" {
		sources = append(sources, discovery.NewAmazonSource(outbound, cfg.AmazonAPIKey))
	}
	cache := discovery.NewCache(redisClient, cfg.DiscoveryCacheTTL)
	manager := discovery.NewManager(sources, cache)

	catalogService := catalog.NewService(catalogRepo, manager, productsProducer)
	catalogHandler := catalog.NewHandler(catalogService)

	// Content generation
	writer := script.NewWriter(cfg.CohereAPIKey, cfg.CohereModel, outbound)
	var avatarClient avatar.Client
	if cfg.AvatarAPIURL != "" && cfg.AvatarAPIKey != "" {
		avatarClient = avatar.NewHTTPClient(outbound, cfg.AvatarAPIURL, cfg.AvatarAPIKey)
	} else {
		logger.Log.Info("Avatar service not configured, using simulated synthesis")
		avatarClient = avatar.NewSimulated()
	}
	settings := avatar.DefaultSettings(cfg.AvatarID, cfg.AvatarVoiceID)

	videoService := video.NewService(videoRepo)
	videoHandler := video.NewHandler(videoService)
	generator := video.NewGenerator(writer, avatarClient, videoRepo, videosProducer, settings)

	// Social publishing
	youtubeAuth := social.NewYouTubeAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeRedirectURL, cfg.YouTubeTokenFile)

	reach, err := publisher.LoadReachTable(cfg.ReachTableFile)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to load reach table, using defaults")
		reach = publisher.DefaultReachTable()
	}

	var platforms []publisher.Platform
	if cfg.TikTokClientKey != "" {
		platforms = append(platforms, publisher.NewTikTok(outbound, cfg.TikTokClientKey))
	} else {
		platforms = append(platforms, publisher.NewSimulatedPlatform("tiktok"))
	}
	if cfg.InstagramClientID != "" && cfg.InstagramClientSecret != "" {
		platforms = append(platforms, publisher.NewInstagram(outbound, cfg.InstagramClientID, cfg.InstagramClientSecret))
	} else {
		platforms = append(platforms, publisher.NewSimulatedPlatform("instagram"))
	}
	if cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != "" {
		platforms = append(platforms, publisher.NewYouTube(youtubeAuth.Config(), cfg.YouTubeTokenFile, outbound))
	} else {
		platforms = append(platforms, publisher.NewSimulatedPlatform("youtube"))
	}
	fanout := publisher.NewFanout(reach, platforms...)

	socialService := social.NewService(socialRepo, postsProducer)
	socialHandler := social.NewHandler(socialService, youtubeAuth)

	// Pipeline
	collector := monitoring.NewCollector()
	runner := pipeline.NewRunner(catalogService, generator, fanout, socialService, collector, resultsProducer, cfg.PipelinePlatforms, cfg.PipelineProductLimit)
	pipelineHandler := pipeline.NewHandler(runner)

	analyticsHandler := analytics.NewHandler(analytics.NewService(db))

	checker := monitoring.NewChecker(db, redisClient, outbound, "https://fakestoreapi.com/products?limit=1", []monitoring.CredentialCheck{
		{Name: "cohere", Configured: cfg.CohereAPIKey != ""},
		{Name: "avatar", Configured: cfg.AvatarAPIURL != "" && cfg.AvatarAPIKey != ""},
		{Name: "tiktok", Configured: cfg.TikTokClientKey != ""},
		{Name: "instagram", Configured: cfg.InstagramClientID != ""},
		{Name: "youtube", Configured: cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != ""},
	})
	monitoringHandler := monitoring.NewHandler(collector, checker)

	router := mux.NewRouter()
	router.Use(monitoring.Recovery)
	router.Use(monitoring.Logging(collector))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	monitoringHandler.RegisterRoot(router)

	api := router.PathPrefix("/api/v1").Subrouter()
	catalogHandler.Register(api)
	videoHandler.Register(api)
	socialHandler.Register(api)
	pipelineHandler.Register(api)
	analyticsHandler.Register(api)
	monitoringHandler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Content Factory API started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Content Factory API...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Content Factory API stopped")
}
