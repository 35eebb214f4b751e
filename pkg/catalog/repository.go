package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("product not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productModel struct {
	ID          uuid.UUID  `gorm:"primaryKey;column:id"`
	Name        string     `gorm:"column:name;index"`
	Description string     `gorm:"column:description;type:text"`
	Price       string     `gorm:"column:price"`
	URL         string     `gorm:"column:url;uniqueIndex"`
	ImageURL    string     `gorm:"column:image_url"`
	Category    string     `gorm:"column:category;index"`
	Source      string     `gorm:"column:source"`
	Rating      float64    `gorm:"column:rating"`
	IsTrending  bool       `gorm:"column:is_trending;index"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&productModel{})
}

func (r *Repository) Create(ctx context.Context, req models.CreateProductRequest) (models.Product, error) {
	row := productModel{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		URL:         req.URL,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Source:      req.Source,
		Rating:      req.Rating,
		IsTrending:  req.IsTrending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Product{}, err
	}
	return toProduct(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return toProduct(row), nil
}

func (r *Repository) GetByURL(ctx context.Context, url string) (models.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).First(&row, "url = ?", url).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return toProduct(row), nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]models.Product, error) {
	var rows []productModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *Repository) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []productModel
	err := r.db.WithContext(ctx).
		Where("is_trending = ?", true).
		Order("rating DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (models.Product, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.URL != nil {
		updates["url"] = *req.URL
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.IsTrending != nil {
		updates["is_trending"] = *req.IsTrending
	}

	result := r.db.WithContext(ctx).Model(&productModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Product{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&productModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertCandidate persists a discovery candidate, deduplicating on URL. An
// already known product is re-flagged as trending instead of duplicated.
func (r *Repository) UpsertCandidate(ctx context.Context, c models.ProductCandidate) (models.Product, bool, error) {
	existing, err := r.GetByURL(ctx, c.URL)
	if err == nil {
		trending := true
		updated, uerr := r.Update(ctx, existing.ID, models.UpdateProductRequest{
			IsTrending: &trending,
			Rating:     &c.Rating,
		})
		return updated, false, uerr
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Product{}, false, err
	}

	created, err := r.Create(ctx, models.CreateProductRequest{
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		URL:         c.URL,
		ImageURL:    c.ImageURL,
		Category:    c.Category,
		Source:      c.Source,
		Rating:      c.Rating,
		IsTrending:  c.IsTrending,
	})
	return created, true, err
}

func toProduct(row productModel) models.Product {
	return models.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		URL:         row.URL,
		ImageURL:    row.ImageURL,
		Category:    row.Category,
		Source:      row.Source,
		Rating:      row.Rating,
		IsTrending:  row.IsTrending,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toProducts(rows []productModel) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProduct(row))
	}
	return out
}
