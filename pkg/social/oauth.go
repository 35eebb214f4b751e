package social

import (
	"context"
	"fmt"
	"os"

	"github.com/contentfactory-ai/platform/pkg/publisher"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const youtubeUploadScope = "https://www.googleapis.com/auth/youtube.upload"

// YouTubeAuth owns the OAuth authorization-code flow for YouTube uploads.
// The exchanged token is persisted to a file that the YouTube publisher
// reads on every upload.
type YouTubeAuth struct {
	config    *oauth2.Config
	tokenFile string
}

func NewYouTubeAuth(clientID, clientSecret, redirectURL, tokenFile string) *YouTubeAuth {
	return &YouTubeAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{youtubeUploadScope},
			Endpoint:     google.Endpoint,
		},
		tokenFile: tokenFile,
	}
}

func (a *YouTubeAuth) Config() *oauth2.Config { return a.config }

// AuthURL returns the consent-screen URL to send the operator to.
func (a *YouTubeAuth) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and persists it.
func (a *YouTubeAuth) Exchange(ctx context.Context, code string) error {
	if a.config.ClientID == "" || a.config.ClientSecret == "" {
		return fmt.Errorf("youtube oauth credentials not configured")
	}
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	if err := publisher.SaveYouTubeToken(a.tokenFile, token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	return nil
}

// Authorized reports whether a usable token is on disk.
func (a *YouTubeAuth) Authorized() bool {
	if _, err := os.Stat(a.tokenFile); err != nil {
		return false
	}
	token, err := publisher.LoadYouTubeToken(a.tokenFile)
	if err != nil {
		return false
	}
	return token.RefreshToken != "" || token.Valid()
}
