package video

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

var ErrNotFound = errors.New("video not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type videoModel struct {
	ID           uuid.UUID      `gorm:"primaryKey;column:id"`
	Title        string         `gorm:"column:title;index"`
	Description  string         `gorm:"column:description;type:text"`
	Script       string         `gorm:"column:script;type:text"`
	VideoURL     string         `gorm:"column:video_url"`
	ThumbnailURL string         `gorm:"column:thumbnail_url"`
	Status       string         `gorm:"column:status;index"`
	ProductID    *uuid.UUID     `gorm:"column:product_id;index"`
	AvatarConfig datatypes.JSON `gorm:"column:avatar_config"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    *time.Time     `gorm:"column:updated_at"`
}

func (videoModel) TableName() string { return "videos" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&videoModel{})
}

func (r *Repository) Create(ctx context.Context, req models.CreateVideoRequest) (models.Video, error) {
	status := req.Status
	if status == "" {
		status = models.VideoStatusPending
	}

	row := videoModel{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Script:       req.Script,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Status:       status,
		ProductID:    req.ProductID,
		CreatedAt:    time.Now().UTC(),
	}
	if len(req.AvatarConfig) > 0 {
		raw, err := json.Marshal(req.AvatarConfig)
		if err != nil {
			return models.Video{}, err
		}
		row.AvatarConfig = datatypes.JSON(raw)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Video{}, err
	}
	return toVideo(row), nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Video, error) {
	var row videoModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Video{}, ErrNotFound
	}
	if err != nil {
		return models.Video{}, err
	}
	return toVideo(row), nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]models.Video, error) {
	var rows []videoModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Video, 0, len(rows))
	for _, row := range rows {
		out = append(out, toVideo(row))
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, req models.UpdateVideoRequest) (models.Video, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Script != nil {
		updates["script"] = *req.Script
	}
	if req.VideoURL != nil {
		updates["video_url"] = *req.VideoURL
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	result := r.db.WithContext(ctx).Model(&videoModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Video{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Video{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&videoModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toVideo(row videoModel) models.Video {
	v := models.Video{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Script:       row.Script,
		VideoURL:     row.VideoURL,
		ThumbnailURL: row.ThumbnailURL,
		Status:       row.Status,
		ProductID:    row.ProductID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if len(row.AvatarConfig) > 0 {
		var cfg map[string]string
		if err := json.Unmarshal(row.AvatarConfig, &cfg); err == nil {
			v.AvatarConfig = cfg
		}
	}
	return v
}
