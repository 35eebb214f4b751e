package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string

	// Script generation (LLM)
	CohereAPIKey string
	CohereModel  string

	// AI avatar service
	AvatarAPIURL  string
	AvatarAPIKey  string
	AvatarID      string
	AvatarVoiceID string

	// E-commerce discovery sources
	AmazonAPIKey      string
	ShopifyAPIKey     string
	ShopifyStoreURL   string
	EbayAPIKey        string
	EtsyAPIKey        string
	DiscoveryCacheTTL time.Duration

	// Social platform credentials
	TikTokClientKey       string
	TikTokClientSecret    string
	InstagramClientID     string
	InstagramClientSecret string
	YouTubeClientID       string
	YouTubeClientSecret   string
	YouTubeTokenFile      string
	YouTubeRedirectURL    string

	// Publisher
	ReachTableFile string

	// Pipeline
	PipelineProductLimit int
	PipelinePlatforms    []string
	PipelineInterval     time.Duration

	// Outbound HTTP
	OutboundTimeout time.Duration
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 120*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "contentfactory"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "contentfactory123"),
		PostgresDB:       getEnv("POSTGRES_DB", "contentfactory"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "content-factory"),

		CohereAPIKey: getEnv("COHERE_API_KEY", ""),
		CohereModel:  getEnv("COHERE_MODEL", "command-r-08-2024"),

		AvatarAPIURL:  getEnv("AVATAR_API_URL", ""),
		AvatarAPIKey:  getEnv("AVATAR_API_KEY", ""),
		AvatarID:      getEnv("AVATAR_ID", "professional_presenter"),
		AvatarVoiceID: getEnv("AVATAR_VOICE_ID", "energetic_female"),

		AmazonAPIKey:      getEnv("AMAZON_API_KEY", ""),
		ShopifyAPIKey:     getEnv("SHOPIFY_API_KEY", ""),
		ShopifyStoreURL:   getEnv("SHOPIFY_STORE_URL", ""),
		EbayAPIKey:        getEnv("EBAY_API_KEY", ""),
		EtsyAPIKey:        getEnv("ETSY_API_KEY", ""),
		DiscoveryCacheTTL: getDuration("DISCOVERY_CACHE_TTL", 10*time.Minute),

		TikTokClientKey:       getEnv("TIKTOK_CLIENT_KEY", ""),
		TikTokClientSecret:    getEnv("TIKTOK_CLIENT_SECRET", ""),
		InstagramClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
		InstagramClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
		YouTubeClientID:       getEnv("YOUTUBE_CLIENT_ID", ""),
		YouTubeClientSecret:   getEnv("YOUTUBE_CLIENT_SECRET", ""),
		YouTubeTokenFile:      getEnv("YOUTUBE_TOKEN_FILE", "youtube_token.json"),
		YouTubeRedirectURL:    getEnv("YOUTUBE_REDIRECT_URL", "http://localhost:8080/api/v1/social-media/youtube/oauth2callback"),

		ReachTableFile: getEnv("REACH_TABLE_FILE", ""),

		PipelineProductLimit: getIntEnv("PIPELINE_PRODUCT_LIMIT", 5),
		PipelinePlatforms:    getStringSliceEnv("PIPELINE_PLATFORMS", []string{"tiktok", "instagram", "youtube"}),
		PipelineInterval:     getDuration("PIPELINE_INTERVAL", 0),

		OutboundTimeout: getDuration("OUTBOUND_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
