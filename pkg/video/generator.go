package video

import (
	"context"
	"fmt"

	"github.com/contentfactory-ai/platform/pkg/avatar"
	"github.com/contentfactory-ai/platform/pkg/common/kafka"
	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
)

// ScriptWriter produces the spoken script for a product video.
type ScriptWriter interface {
	Generate(ctx context.Context, product models.Product) (string, error)
}

// Generator is the per-product content step: script, persisted video row,
// avatar synthesis. A failure at any point returns an error and leaves the
// video row (if one was created) marked failed; callers skip the product.
type Generator struct {
	writer   ScriptWriter
	avatars  avatar.Client
	repo     *Repository
	producer *kafka.Producer
	settings avatar.Settings
}

func NewGenerator(writer ScriptWriter, avatars avatar.Client, repo *Repository, producer *kafka.Producer, settings avatar.Settings) *Generator {
	return &Generator{
		writer:   writer,
		avatars:  avatars,
		repo:     repo,
		producer: producer,
		settings: settings,
	}
}

func (g *Generator) Generate(ctx context.Context, product models.Product) (*models.ContentItem, error) {
	script, err := g.writer.Generate(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("script generation for %q: %w", product.Name, err)
	}

	title := fmt.Sprintf("Discover %s - Trending Now!", product.Name)
	description := fmt.Sprintf("Check out this amazing %s that's trending everywhere! %s", product.Name, product.URL)

	productID := product.ID
	row, err := g.repo.Create(ctx, models.CreateVideoRequest{
		Title:       title,
		Description: description,
		Script:      script,
		Status:      models.VideoStatusProcessing,
		ProductID:   &productID,
		AvatarConfig: map[string]string{
			"avatar_id":  g.settings.AvatarID,
			"voice_id":   g.settings.VoiceID,
			"background": g.settings.Background,
			"ratio":      g.settings.Ratio,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("persisting video for %q: %w", product.Name, err)
	}

	videoURL, err := g.avatars.CreateVideo(ctx, script, g.settings)
	if err != nil {
		failed := models.VideoStatusFailed
		if _, uerr := g.repo.Update(ctx, row.ID, models.UpdateVideoRequest{Status: &failed}); uerr != nil {
			logger.Log.WithError(uerr).WithField("video_id", row.ID).Error("failed to mark video failed")
		}
		return nil, fmt.Errorf("avatar synthesis for %q: %w", product.Name, err)
	}

	completed := models.VideoStatusCompleted
	if _, err := g.repo.Update(ctx, row.ID, models.UpdateVideoRequest{
		VideoURL: &videoURL,
		Status:   &completed,
	}); err != nil {
		return nil, fmt.Errorf("finalizing video for %q: %w", product.Name, err)
	}

	if g.producer != nil {
		if err := g.producer.PublishEvent(ctx, "video.created", "content-generator", map[string]interface{}{
			"video_id":   row.ID.String(),
			"product_id": product.ID.String(),
			"video_url":  videoURL,
		}); err != nil {
			logger.Log.WithError(err).Warn("failed to publish video.created event")
		}
	}

	return &models.ContentItem{
		ProductURL:  product.URL,
		ProductName: product.Name,
		VideoID:     row.ID,
		VideoURL:    videoURL,
		Script:      script,
		Title:       title,
		Description: description,
	}, nil
}
