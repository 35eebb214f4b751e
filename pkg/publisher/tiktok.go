package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/contentfactory-ai/platform/pkg/common/models"
)

// TikTok posts videos through the TikTok open API share endpoint.
type TikTok struct {
	client      *http.Client
	baseURL     string
	accessToken string
}

func NewTikTok(client *http.Client, accessToken string) *TikTok {
	return &TikTok{
		client:      client,
		baseURL:     "https://open-api.tiktok.com",
		accessToken: accessToken,
	}
}

func (t *TikTok) Name() string { return "tiktok" }

func (t *TikTok) Publish(ctx context.Context, item models.ContentItem) (models.PublicationResult, error) {
	body, err := json.Marshal(map[string]interface{}{
		"video_url": item.VideoURL,
		"title":     item.Title,
		"text":      item.Description,
	})
	if err != nil {
		return models.PublicationResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/share/video/upload/", bytes.NewReader(body))
	if err != nil {
		return models.PublicationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.accessToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return models.PublicationResult{}, fmt.Errorf("tiktok request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PublicationResult{}, fmt.Errorf("tiktok returned status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			ShareID string `json:"share_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.PublicationResult{}, fmt.Errorf("decoding tiktok response: %w", err)
	}
	if payload.Data.ShareID == "" {
		return models.PublicationResult{}, fmt.Errorf("tiktok returned no share id")
	}

	return models.PublicationResult{
		PostID:  payload.Data.ShareID,
		PostURL: fmt.Sprintf("https://www.tiktok.com/@content-factory/video/%s", payload.Data.ShareID),
	}, nil
}
