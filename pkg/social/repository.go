package social

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("post not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type postModel struct {
	ID               uuid.UUID      `gorm:"primaryKey;column:id"`
	Platform         string         `gorm:"column:platform;index"`
	PostID           string         `gorm:"column:post_id"`
	PostURL          string         `gorm:"column:post_url"`
	VideoID          *uuid.UUID     `gorm:"column:video_id;index"`
	Content          string         `gorm:"column:content;type:text"`
	Status           string         `gorm:"column:status;index"`
	PlatformResponse datatypes.JSON `gorm:"column:platform_response"`
	ScheduledTime    *time.Time     `gorm:"column:scheduled_time"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        *time.Time     `gorm:"column:updated_at"`
}

func (postModel) TableName() string { return "social_media_posts" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&postModel{})
}

func (r *Repository) Create(ctx context.Context, req models.CreatePostRequest) (models.SocialMediaPost, error) {
	status := req.Status
	if status == "" {
		status = models.PostStatusPending
	}

	row := postModel{
		ID:            uuid.New(),
		Platform:      req.Platform,
		PostID:        req.PostID,
		PostURL:       req.PostURL,
		VideoID:       req.VideoID,
		Content:       req.Content,
		Status:        status,
		ScheduledTime: req.ScheduledTime,
		CreatedAt:     time.Now().UTC(),
	}
	if len(req.PlatformResponse) > 0 {
		raw, err := json.Marshal(req.PlatformResponse)
		if err != nil {
			return models.SocialMediaPost{}, err
		}
		row.PlatformResponse = datatypes.JSON(raw)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.SocialMediaPost{}, err
	}
	return toPost(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.SocialMediaPost, error) {
	var row postModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SocialMediaPost{}, ErrNotFound
	}
	if err != nil {
		return models.SocialMediaPost{}, err
	}
	return toPost(row), nil
}

// List returns posts newest first, optionally filtered by platform.
func (r *Repository) List(ctx context.Context, platform string, offset, limit int) ([]models.SocialMediaPost, error) {
	query := r.db.WithContext(ctx).Model(&postModel{})
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}

	var rows []postModel
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.SocialMediaPost, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPost(row))
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, req models.UpdatePostRequest) (models.SocialMediaPost, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.PostID != nil {
		updates["post_id"] = *req.PostID
	}
	if req.PostURL != nil {
		updates["post_url"] = *req.PostURL
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.ScheduledTime != nil {
		updates["scheduled_time"] = *req.ScheduledTime
	}

	result := r.db.WithContext(ctx).Model(&postModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.SocialMediaPost{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SocialMediaPost{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&postModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns how many posts currently carry the given status.
func (r *Repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&postModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func toPost(row postModel) models.SocialMediaPost {
	p := models.SocialMediaPost{
		ID:            row.ID,
		Platform:      row.Platform,
		PostID:        row.PostID,
		PostURL:       row.PostURL,
		VideoID:       row.VideoID,
		Content:       row.Content,
		Status:        row.Status,
		ScheduledTime: row.ScheduledTime,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if len(row.PlatformResponse) > 0 {
		var resp map[string]interface{}
		if err := json.Unmarshal(row.PlatformResponse, &resp); err == nil {
			p.PlatformResponse = resp
		}
	}
	return p
}
