package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/httpclient"
	"github.com/google/uuid"
)

// Settings describes how the synthesized presenter video should look.
// Short-form platforms want 9:16, so that is the fixed default.
type Settings struct {
	AvatarID   string `json:"avatar_id"`
	VoiceID    string `json:"voice_id"`
	Background string `json:"background"`
	Ratio      string `json:"ratio"`
}

func DefaultSettings(avatarID, voiceID string) Settings {
	return Settings{
		AvatarID:   avatarID,
		VoiceID:    voiceID,
		Background: "trending_gradient",
		Ratio:      "9:16",
	}
}

// Client requests synthesis of an avatar presenter video for a script and
// returns the hosted video URL.
type Client interface {
	CreateVideo(ctx context.Context, script string, settings Settings) (string, error)
}

// HTTPClient talks to an external avatar-synthesis service.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPClient(client *http.Client, baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *HTTPClient) CreateVideo(ctx context.Context, script string, settings Settings) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", fmt.Errorf("avatar synthesis requires a non-empty script")
	}

	body, err := json.Marshal(map[string]interface{}{
		"script":   script,
		"settings": settings,
	})
	if err != nil {
		return "", err
	}

	// Synthesis requests hit a flaky external service; retry timeouts and
	// 5xx responses, give up immediately on anything else.
	var resp *http.Response
	var terminal error
	err = httpclient.Retry(ctx, 3, 500*time.Millisecond, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-video", bytes.NewReader(body))
		if reqErr != nil {
			terminal = reqErr
			return nil
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		r, doErr := c.client.Do(req)
		if doErr != nil {
			if httpclient.IsRetriable(doErr) {
				return doErr
			}
			terminal = doErr
			return nil
		}
		if r.StatusCode >= http.StatusInternalServerError {
			r.Body.Close()
			return fmt.Errorf("avatar service returned status %d", r.StatusCode)
		}
		resp = r
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("avatar service request: %w", err)
	}
	if terminal != nil {
		return "", fmt.Errorf("avatar service request: %w", terminal)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar service returned status %d", resp.StatusCode)
	}

	var payload struct {
		VideoURL string `json:"video_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding avatar service response: %w", err)
	}
	if payload.VideoURL == "" {
		return "", fmt.Errorf("avatar service returned no video url")
	}
	return payload.VideoURL, nil
}

// Simulated is a synthetic stand-in for environments without an avatar
// service. It returns a unique placeholder URL without doing any work and is
// selected by dependency injection, never by branching inside callers.
type Simulated struct {
	BaseURL string
}

func NewSimulated() *Simulated {
	return &Simulated{BaseURL: "https://videos.content-factory.local"}
}

func (s *Simulated) CreateVideo(ctx context.Context, script string, settings Settings) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", fmt.Errorf("avatar synthesis requires a non-empty script")
	}
	return fmt.Sprintf("%s/%s_avatar.mp4", strings.TrimRight(s.BaseURL, "/"), uuid.New().String()), nil
}
