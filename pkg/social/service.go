package social

import (
	"context"

	"github.com/contentfactory-ai/platform/pkg/common/kafka"
	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
)

type Service struct {
	repo     *Repository
	producer *kafka.Producer
}

func NewService(repo *Repository, producer *kafka.Producer) *Service {
	return &Service{repo: repo, producer: producer}
}

func (s *Service) CreatePost(ctx context.Context, req models.CreatePostRequest) (models.SocialMediaPost, error) {
	return s.repo.Create(ctx, req)
}

func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (models.SocialMediaPost, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListPosts(ctx context.Context, platform string, offset, limit int) ([]models.SocialMediaPost, error) {
	return s.repo.List(ctx, platform, offset, limit)
}

func (s *Service) UpdatePost(ctx context.Context, id uuid.UUID, req models.UpdatePostRequest) (models.SocialMediaPost, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// RecordPublication persists the outcome of one publish attempt as a post
// row. Recording is an audit trail: failures are logged and swallowed so a
// storage hiccup never turns a successful publish into a pipeline error.
func (s *Service) RecordPublication(ctx context.Context, item models.ContentItem, result models.PublicationResult) {
	videoID := item.VideoID
	_, err := s.repo.Create(ctx, models.CreatePostRequest{
		Platform: result.Platform,
		PostID:   result.PostID,
		PostURL:  result.PostURL,
		VideoID:  &videoID,
		Content:  item.Title,
		Status:   result.Status,
		PlatformResponse: map[string]interface{}{
			"estimated_reach": result.EstimatedReach,
			"error":           result.Error,
		},
	})
	if err != nil {
		logger.Log.WithError(err).WithField("platform", result.Platform).Warn("failed to record publication")
		return
	}

	if s.producer != nil && result.Status == models.PostStatusPublished {
		if err := s.producer.PublishEvent(ctx, "post.published", "social-media", map[string]interface{}{
			"platform": result.Platform,
			"post_id":  result.PostID,
			"post_url": result.PostURL,
			"video_id": videoID.String(),
		}); err != nil {
			logger.Log.WithError(err).Warn("failed to publish post.published event")
		}
	}
}
