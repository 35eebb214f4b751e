package publisher

import (
	"context"
	"fmt"

	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
)

// SimulatedPlatform stands in for a real network in environments without
// credentials. It always succeeds and fabricates a plausible post URL.
type SimulatedPlatform struct {
	name string
}

func NewSimulatedPlatform(name string) *SimulatedPlatform {
	return &SimulatedPlatform{name: name}
}

func (s *SimulatedPlatform) Name() string { return s.name }

func (s *SimulatedPlatform) Publish(ctx context.Context, item models.ContentItem) (models.PublicationResult, error) {
	if err := ctx.Err(); err != nil {
		return models.PublicationResult{}, err
	}
	if item.VideoURL == "" {
		return models.PublicationResult{}, fmt.Errorf("cannot publish without a video url")
	}

	postID := uuid.New().String()
	return models.PublicationResult{
		PostID:  postID,
		PostURL: s.postURL(postID),
	}, nil
}

func (s *SimulatedPlatform) postURL(postID string) string {
	switch s.name {
	case "tiktok":
		return fmt.Sprintf("https://www.tiktok.com/@content-factory/video/%s", postID)
	case "instagram":
		return fmt.Sprintf("https://www.instagram.com/reel/%s/", postID)
	case "youtube":
		return fmt.Sprintf("https://www.youtube.com/shorts/%s", postID)
	default:
		return fmt.Sprintf("https://%s.example.com/posts/%s", s.name, postID)
	}
}
