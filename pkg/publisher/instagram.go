package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/contentfactory-ai/platform/pkg/common/models"
)

// Instagram publishes reels through the Graph API. Publishing is two calls:
// create a media container for the video, then publish the container.
type Instagram struct {
	client      *http.Client
	baseURL     string
	accountID   string
	accessToken string
}

func NewInstagram(client *http.Client, accountID, accessToken string) *Instagram {
	return &Instagram{
		client:      client,
		baseURL:     "https://graph.facebook.com/v18.0",
		accountID:   accountID,
		accessToken: accessToken,
	}
}

func (ig *Instagram) Name() string { return "instagram" }

func (ig *Instagram) Publish(ctx context.Context, item models.ContentItem) (models.PublicationResult, error) {
	containerID, err := ig.createContainer(ctx, item)
	if err != nil {
		return models.PublicationResult{}, err
	}

	mediaID, err := ig.publishContainer(ctx, containerID)
	if err != nil {
		return models.PublicationResult{}, err
	}

	return models.PublicationResult{
		PostID:  mediaID,
		PostURL: fmt.Sprintf("https://www.instagram.com/reel/%s/", mediaID),
	}, nil
}

func (ig *Instagram) createContainer(ctx context.Context, item models.ContentItem) (string, error) {
	form := url.Values{
		"media_type":   {"REELS"},
		"video_url":    {item.VideoURL},
		"caption":      {item.Title + "\n\n" + item.Description},
		"access_token": {ig.accessToken},
	}

	var payload struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("%s/%s/media", ig.baseURL, ig.accountID)
	if err := ig.postForm(ctx, endpoint, form, &payload); err != nil {
		return "", fmt.Errorf("creating instagram container: %w", err)
	}
	if payload.ID == "" {
		return "", fmt.Errorf("instagram returned no container id")
	}
	return payload.ID, nil
}

func (ig *Instagram) publishContainer(ctx context.Context, containerID string) (string, error) {
	form := url.Values{
		"creation_id":  {containerID},
		"access_token": {ig.accessToken},
	}

	var payload struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("%s/%s/media_publish", ig.baseURL, ig.accountID)
	if err := ig.postForm(ctx, endpoint, form, &payload); err != nil {
		return "", fmt.Errorf("publishing instagram container: %w", err)
	}
	if payload.ID == "" {
		return "", fmt.Errorf("instagram returned no media id")
	}
	return payload.ID, nil
}

func (ig *Instagram) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ig.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graph api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
