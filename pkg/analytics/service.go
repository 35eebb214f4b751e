package analytics

import (
	"context"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/models"
	"gorm.io/gorm"
)

// Dashboard summarizes content production across the whole store.
type Dashboard struct {
	TotalProducts      int64            `json:"total_products"`
	TrendingProducts   int64            `json:"trending_products"`
	ProductsLast24h    int64            `json:"products_last_24h"`
	ProductsLast7d     int64            `json:"products_last_7d"`
	TopCategories      []CategoryCount  `json:"top_categories"`
	TotalVideos        int64            `json:"total_videos"`
	VideosByStatus     map[string]int64 `json:"videos_by_status"`
	TotalPosts         int64            `json:"total_posts"`
	PostsByStatus      map[string]int64 `json:"posts_by_status"`
	PostsByPlatform    map[string]int64 `json:"posts_by_platform"`
	PublishSuccessRate float64          `json:"publish_success_rate"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Products int64  `json:"products"`
}

// SourceTrend counts trending products contributed by one discovery source.
type SourceTrend struct {
	Source    string  `json:"source"`
	Products  int64   `json:"products"`
	AvgRating float64 `json:"avg_rating"`
}

// Service answers aggregate questions over the persisted rows. It queries
// the tables the domain repositories own and never writes.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	dash := Dashboard{GeneratedAt: time.Now().UTC()}
	db := s.db.WithContext(ctx)

	if err := db.Table("products").Count(&dash.TotalProducts).Error; err != nil {
		return Dashboard{}, err
	}
	if err := db.Table("products").Where("is_trending = ?", true).Count(&dash.TrendingProducts).Error; err != nil {
		return Dashboard{}, err
	}
	now := time.Now().UTC()
	if err := db.Table("products").Where("created_at > ?", now.Add(-24*time.Hour)).Count(&dash.ProductsLast24h).Error; err != nil {
		return Dashboard{}, err
	}
	if err := db.Table("products").Where("created_at > ?", now.Add(-7*24*time.Hour)).Count(&dash.ProductsLast7d).Error; err != nil {
		return Dashboard{}, err
	}
	if err := db.Table("videos").Count(&dash.TotalVideos).Error; err != nil {
		return Dashboard{}, err
	}
	if err := db.Table("social_media_posts").Count(&dash.TotalPosts).Error; err != nil {
		return Dashboard{}, err
	}

	if err := db.Table("products").
		Select("category, COUNT(*) AS products").
		Where("category <> ''").
		Group("category").
		Order("products DESC").
		Limit(5).
		Scan(&dash.TopCategories).Error; err != nil {
		return Dashboard{}, err
	}

	var err error
	if dash.VideosByStatus, err = s.groupCount(ctx, "videos", "status"); err != nil {
		return Dashboard{}, err
	}
	if dash.PostsByStatus, err = s.groupCount(ctx, "social_media_posts", "status"); err != nil {
		return Dashboard{}, err
	}
	if dash.PostsByPlatform, err = s.groupCount(ctx, "social_media_posts", "platform"); err != nil {
		return Dashboard{}, err
	}

	published := dash.PostsByStatus[models.PostStatusPublished]
	attempts := published + dash.PostsByStatus[models.PostStatusFailed]
	if attempts > 0 {
		dash.PublishSuccessRate = float64(published) / float64(attempts) * 100
	}

	return dash, nil
}

// ProductTrends breaks trending products down by discovery source.
func (s *Service) ProductTrends(ctx context.Context) ([]SourceTrend, error) {
	var trends []SourceTrend
	err := s.db.WithContext(ctx).
		Table("products").
		Select("source, COUNT(*) AS products, AVG(rating) AS avg_rating").
		Where("is_trending = ?", true).
		Group("source").
		Order("products DESC").
		Scan(&trends).Error
	if err != nil {
		return nil, err
	}
	return trends, nil
}

func (s *Service) groupCount(ctx context.Context, table, column string) (map[string]int64, error) {
	var rows []struct {
		Key   string
		Count int64
	}
	err := s.db.WithContext(ctx).
		Table(table).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}
