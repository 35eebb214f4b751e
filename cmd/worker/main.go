package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/contentfactory-ai/platform/pkg/avatar"
	"github.com/contentfactory-ai/platform/pkg/catalog"
	"github.com/contentfactory-ai/platform/pkg/common/config"
	"github.com/contentfactory-ai/platform/pkg/common/database"
	"github.com/contentfactory-ai/platform/pkg/common/httpclient"
	"github.com/contentfactory-ai/platform/pkg/common/kafka"
	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/contentfactory-ai/platform/pkg/discovery"
	"github.com/contentfactory-ai/platform/pkg/monitoring"
	"github.com/contentfactory-ai/platform/pkg/pipeline"
	"github.com/contentfactory-ai/platform/pkg/publisher"
	"github.com/contentfactory-ai/platform/pkg/script"
	"github.com/contentfactory-ai/platform/pkg/social"
	"github.com/contentfactory-ai/platform/pkg/video"
)

// The worker runs pipelines off the HTTP path: it consumes run requests
// from Kafka and, when PIPELINE_INTERVAL is set, also runs on a schedule.
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

	writer := script.NewWriter(cfg.CohereAPIKey, cfg.CohereModel, outbound)
	var avatarClient avatar.Client
	if cfg.AvatarAPIURL != "" && cfg.AvatarAPIKey != "" {
		avatarClient = avatar.NewHTTPClient(outbound, cfg.AvatarAPIURL, cfg.AvatarAPIKey)
	} else {
		logger.Log.Info("Avatar service not configured, using simulated synthesis")
		avatarClient = avatar.NewSimulated()
	}
	generator := video.NewGenerator(writer, avatarClient, videoRepo, videosProducer, avatar.DefaultSettings(cfg.AvatarID, cfg.AvatarVoiceID))

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

	collector := monitoring.NewCollector()
	runner := pipeline.NewRunner(catalogService, generator, fanout, socialService, collector, resultsProducer, cfg.PipelinePlatforms, cfg.PipelineProductLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(kafka.TopicPipelineRequests, cfg.KafkaGroupID)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
			opts := pipeline.Options{}
			if raw, ok := event.Data["platforms"].([]interface{}); ok {
				for _, p := range raw {
					if name, ok := p.(string); ok {
						opts.Platforms = append(opts.Platforms, name)
					}
				}
			}
			if limit, ok := event.Data["limit"].(float64); ok {
				opts.Limit = int(limit)
			}

			run := runner.Run(ctx, opts)
			logger.Log.WithFields(map[string]interface{}{
				"event_id": event.ID,
				"run_id":   run.ID,
				"status":   run.Status,
			}).Info("Processed pipeline request")
			return nil
		}); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Fatal("Consumer error")
		}
	}()

	if cfg.PipelineInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.PipelineInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					run := runner.Run(ctx, pipeline.Options{})
					logger.Log.WithFields(map[string]interface{}{
						"run_id": run.ID,
						"status": run.Status,
					}).Info("Scheduled pipeline run finished")
				}
			}
		}()
	}

	logger.Log.Info("Content Factory worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Content Factory worker...")
	cancel()

	logger.Log.Info("Content Factory worker stopped")
}
