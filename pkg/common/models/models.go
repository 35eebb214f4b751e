package models

import (
	"time"

	"github.com/google/uuid"
)

// Video lifecycle statuses.
const (
	VideoStatusPending    = "pending"
	VideoStatusProcessing = "processing"
	VideoStatusCompleted  = "completed"
	VideoStatusFailed     = "failed"
)

// Social post lifecycle statuses.
const (
	PostStatusPending   = "pending"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

// Pipeline run statuses. Intermediate phases are visible while a run is in
// flight; a finished run is always completed or failed.
const (
	RunStatusStarted     = "started"
	RunStatusDiscovering = "discovering"
	RunStatusGenerating  = "generating"
	RunStatusPublishing  = "publishing"
	RunStatusAggregating = "aggregating"
	RunStatusCompleted   = "completed"
	RunStatusFailed      = "failed"
)

// Product is a catalog item, usually seeded by trending-product discovery.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       string     `json:"price"` // string to carry currency symbols as-is
	URL         string     `json:"url"`
	ImageURL    string     `json:"image_url"`
	Category    string     `json:"category"`
	Source      string     `json:"source"`
	Rating      float64    `json:"rating"`
	IsTrending  bool       `json:"is_trending"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Source      string  `json:"source"`
	Rating      float64 `json:"rating"`
	IsTrending  bool    `json:"is_trending"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *string  `json:"price,omitempty"`
	URL         *string  `json:"url,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	IsTrending  *bool    `json:"is_trending,omitempty"`
}

// ProductCandidate is a raw discovery result before it is persisted as a
// Product. Candidates are deduplicated by URL.
type ProductCandidate struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Source      string  `json:"source"`
	IsTrending  bool    `json:"is_trending"`
}

// Video is a generated marketing clip for a product.
type Video struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Script       string            `json:"script"`
	VideoURL     string            `json:"video_url"`
	ThumbnailURL string            `json:"thumbnail_url"`
	Status       string            `json:"status"`
	ProductID    *uuid.UUID        `json:"product_id,omitempty"`
	AvatarConfig map[string]string `json:"avatar_config,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    *time.Time        `json:"updated_at,omitempty"`
}

type CreateVideoRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Script       string            `json:"script"`
	VideoURL     string            `json:"video_url"`
	ThumbnailURL string            `json:"thumbnail_url"`
	Status       string            `json:"status"`
	ProductID    *uuid.UUID        `json:"product_id,omitempty"`
	AvatarConfig map[string]string `json:"avatar_config,omitempty"`
}

type UpdateVideoRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Script       *string `json:"script,omitempty"`
	VideoURL     *string `json:"video_url,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// SocialMediaPost records one publish attempt against one platform.
type SocialMediaPost struct {
	ID               uuid.UUID              `json:"id"`
	Platform         string                 `json:"platform"`
	PostID           string                 `json:"post_id,omitempty"`
	PostURL          string                 `json:"post_url,omitempty"`
	VideoID          *uuid.UUID             `json:"video_id,omitempty"`
	Content          string                 `json:"content"`
	Status           string                 `json:"status"`
	PlatformResponse map[string]interface{} `json:"platform_response,omitempty"`
	ScheduledTime    *time.Time             `json:"scheduled_time,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        *time.Time             `json:"updated_at,omitempty"`
}

type CreatePostRequest struct {
	Platform         string                 `json:"platform"`
	PostID           string                 `json:"post_id"`
	PostURL          string                 `json:"post_url"`
	VideoID          *uuid.UUID             `json:"video_id,omitempty"`
	Content          string                 `json:"content"`
	Status           string                 `json:"status"`
	PlatformResponse map[string]interface{} `json:"platform_response,omitempty"`
	ScheduledTime    *time.Time             `json:"scheduled_time,omitempty"`
}

type UpdatePostRequest struct {
	PostID        *string    `json:"post_id,omitempty"`
	PostURL       *string    `json:"post_url,omitempty"`
	Content       *string    `json:"content,omitempty"`
	Status        *string    `json:"status,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
}

// ContentItem is the output of the content generation step for a single
// product. It lives for the duration of a pipeline run; the video row it
// references is the persisted side of it.
type ContentItem struct {
	ProductURL  string    `json:"product_url"`
	ProductName string    `json:"product_name"`
	VideoID     uuid.UUID `json:"video_id"`
	VideoURL    string    `json:"video_url"`
	Script      string    `json:"script"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// PublicationResult is the outcome of one publish attempt for one platform.
type PublicationResult struct {
	Platform       string `json:"platform"`
	Status         string `json:"status"` // published or failed
	PostID         string `json:"post_id,omitempty"`
	PostURL        string `json:"post_url,omitempty"`
	Error          string `json:"error,omitempty"`
	EstimatedReach int    `json:"estimated_reach"`
}

// PipelineRun is the in-memory result of one orchestrated pipeline
// execution. It is returned to the caller and never stored as a row.
type PipelineRun struct {
	ID                  uuid.UUID           `json:"id"`
	Status              string              `json:"status"`
	ProductsDiscovered  int                 `json:"products_discovered"`
	ContentItemsCreated int                 `json:"content_items_created"`
	PostsPublished      int                 `json:"posts_published"`
	Publications        []PublicationResult `json:"publications"`
	PlatformsReached    []string            `json:"platforms_reached"`
	TotalPotentialReach int                 `json:"total_potential_reach"`
	SuccessRate         float64             `json:"success_rate"`
	Errors              []string            `json:"errors"`
	StartedAt           time.Time           `json:"started_at"`
	FinishedAt          time.Time           `json:"finished_at"`
}

type RunPipelineRequest struct {
	Platforms []string `json:"platforms"`
	Limit     int      `json:"limit"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // product.discovered, video.created, post.published, pipeline.requested, pipeline.completed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Health and monitoring payloads
type ComponentHealth struct {
	Status  string `json:"status"` // healthy or unhealthy
	Message string `json:"message"`
}

type HealthReport struct {
	Status     string                     `json:"status"` // healthy or degraded
	Components map[string]ComponentHealth `json:"components"`
	CheckedAt  time.Time                  `json:"checked_at"`
}
