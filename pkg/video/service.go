package video

import (
	"context"

	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateVideo(ctx context.Context, req models.CreateVideoRequest) (models.Video, error) {
	return s.repo.Create(ctx, req)
}

func (s *Service) GetVideo(ctx context.Context, id uuid.UUID) (models.Video, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListVideos(ctx context.Context, offset, limit int) ([]models.Video, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *Service) UpdateVideo(ctx context.Context, id uuid.UUID, req models.UpdateVideoRequest) (models.Video, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *Service) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
