package catalog

import (
	"context"

	"github.com/contentfactory-ai/platform/pkg/common/kafka"
	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
)

// Discoverer fetches trending product candidates from external catalogs.
type Discoverer interface {
	Discover(ctx context.Context, limit int) ([]models.ProductCandidate, error)
}

type Service struct {
	repo       *Repository
	discoverer Discoverer
	producer   *kafka.Producer
}

func NewService(repo *Repository, discoverer Discoverer, producer *kafka.Producer) *Service {
	return &Service{repo: repo, discoverer: discoverer, producer: producer}
}

func (s *Service) CreateProduct(ctx context.Context, req models.CreateProductRequest) (models.Product, error) {
	return s.repo.Create(ctx, req)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *Service) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	return s.repo.ListTrending(ctx, limit)
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (models.Product, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// DiscoverProducts runs trending-product discovery and persists the results,
// deduplicating by URL. Already known products are re-flagged as trending.
func (s *Service) DiscoverProducts(ctx context.Context, limit int) ([]models.Product, error) {
	candidates, err := s.discoverer.Discover(ctx, limit)
	if err != nil {
		return nil, err
	}

	saved := make([]models.Product, 0, len(candidates))
	for _, candidate := range candidates {
		product, created, err := s.repo.UpsertCandidate(ctx, candidate)
		if err != nil {
			logger.Log.WithError(err).WithField("url", candidate.URL).Error("failed to save discovered product")
			continue
		}
		saved = append(saved, product)

		if created && s.producer != nil {
			if err := s.producer.PublishEvent(ctx, "product.discovered", candidate.Source, map[string]interface{}{
				"product_id": product.ID.String(),
				"name":       product.Name,
				"url":        product.URL,
				"category":   product.Category,
			}); err != nil {
				logger.Log.WithError(err).Warn("failed to publish product.discovered event")
			}
		}
	}

	return saved, nil
}
