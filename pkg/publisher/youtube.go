package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/contentfactory-ai/platform/pkg/common/models"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTube uploads videos as shorts using a previously authorized OAuth
// token. The token file is written by the social-media OAuth callback; an
// upload without one fails with a clear error instead of prompting.
type YouTube struct {
	config    *oauth2.Config
	tokenFile string
	client    *http.Client
}

func NewYouTube(config *oauth2.Config, tokenFile string, client *http.Client) *YouTube {
	return &YouTube{config: config, tokenFile: tokenFile, client: client}
}

func (y *YouTube) Name() string { return "youtube" }

func (y *YouTube) Publish(ctx context.Context, item models.ContentItem) (models.PublicationResult, error) {
	token, err := LoadYouTubeToken(y.tokenFile)
	if err != nil {
		return models.PublicationResult{}, fmt.Errorf("youtube not authorized: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(y.config.Client(ctx, token)))
	if err != nil {
		return models.PublicationResult{}, fmt.Errorf("creating youtube service: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.VideoURL, nil)
	if err != nil {
		return models.PublicationResult{}, err
	}
	resp, err := y.client.Do(req)
	if err != nil {
		return models.PublicationResult{}, fmt.Errorf("fetching video for upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.PublicationResult{}, fmt.Errorf("video download returned status %d", resp.StatusCode)
	}

	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       item.Title,
			Description: item.Description,
			Tags:        []string{"trending", "shorts", "shopping"},
			CategoryId:  "22",
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
		},
	}

	call := service.Videos.Insert([]string{"snippet", "status"}, upload)
	call = call.Media(resp.Body)

	uploaded, err := call.Do()
	if err != nil {
		return models.PublicationResult{}, fmt.Errorf("uploading to youtube: %w", err)
	}

	return models.PublicationResult{
		PostID:  uploaded.Id,
		PostURL: fmt.Sprintf("https://www.youtube.com/shorts/%s", uploaded.Id),
	}, nil
}

// LoadYouTubeToken reads a persisted OAuth token from disk.
func LoadYouTubeToken(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return &token, nil
}

// SaveYouTubeToken persists an OAuth token to disk as JSON.
func SaveYouTubeToken(path string, token *oauth2.Token) error {
	raw, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}
