package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type scriptedPlatform struct {
	name   string
	err    error
	panics bool
}

func (p *scriptedPlatform) Name() string { return p.name }

func (p *scriptedPlatform) Publish(ctx context.Context, item models.ContentItem) (models.PublicationResult, error) {
	if p.panics {
		panic("connection pool corrupted")
	}
	if p.err != nil {
		return models.PublicationResult{}, p.err
	}
	return models.PublicationResult{PostID: "post-" + p.name, PostURL: "https://" + p.name + ".example/post"}, nil
}

func testItem() models.ContentItem {
	return models.ContentItem{
		ProductName: "Lamp",
		VideoID:     uuid.New(),
		VideoURL:    "https://videos.example/lamp.mp4",
		Title:       "Discover Lamp - Trending Now!",
	}
}

func TestPublishAllIsolatesFailures(t *testing.T) {
	fanout := NewFanout(DefaultReachTable(),
		&scriptedPlatform{name: "tiktok"},
		&scriptedPlatform{name: "instagram", err: errors.New("token expired")},
		&scriptedPlatform{name: "youtube", panics: true},
	)

	results := fanout.PublishAll(context.Background(), testItem(), []string{"tiktok", "instagram", "youtube"})
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	byPlatform := make(map[string]models.PublicationResult)
	for _, r := range results {
		byPlatform[r.Platform] = r
	}

	if r := byPlatform["tiktok"]; r.Status != models.PostStatusPublished {
		t.Errorf("tiktok status = %s, want published", r.Status)
	}
	if r := byPlatform["instagram"]; r.Status != models.PostStatusFailed || r.Error == "" {
		t.Errorf("instagram result = %+v, want failed with error message", r)
	}
	if r := byPlatform["youtube"]; r.Status != models.PostStatusFailed || r.Error == "" {
		t.Errorf("youtube panic not converted to failed result: %+v", r)
	}
}

func TestPublishAllAttachesReach(t *testing.T) {
	fanout := NewFanout(DefaultReachTable(), &scriptedPlatform{name: "tiktok"})

	results := fanout.PublishAll(context.Background(), testItem(), []string{"tiktok"})
	if results[0].EstimatedReach != 10000 {
		t.Errorf("estimated reach = %d, want 10000", results[0].EstimatedReach)
	}
}

func TestPublishAllUnknownPlatform(t *testing.T) {
	fanout := NewFanout(DefaultReachTable(), &scriptedPlatform{name: "tiktok"})

	results := fanout.PublishAll(context.Background(), testItem(), []string{"myspace"})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Status != models.PostStatusFailed {
		t.Errorf("status = %s, want failed for unknown platform", results[0].Status)
	}
	if results[0].EstimatedReach != 0 {
		t.Errorf("failed result carries reach %d", results[0].EstimatedReach)
	}
}

func TestPublishAllPreservesTargetOrder(t *testing.T) {
	fanout := NewFanout(DefaultReachTable(),
		&scriptedPlatform{name: "tiktok"},
		&scriptedPlatform{name: "instagram"},
	)

	results := fanout.PublishAll(context.Background(), testItem(), []string{"instagram", "tiktok"})
	if results[0].Platform != "instagram" || results[1].Platform != "tiktok" {
		t.Errorf("result order = [%s %s], want requested order", results[0].Platform, results[1].Platform)
	}
}

func TestLoadReachTableDefaults(t *testing.T) {
	table, err := LoadReachTable("")
	if err != nil {
		t.Fatalf("LoadReachTable returned error: %v", err)
	}
	if table.For("tiktok") != 10000 {
		t.Errorf("tiktok reach = %d, want 10000", table.For("tiktok"))
	}
	if table.For("unheard-of") != 1000 {
		t.Errorf("fallback reach = %d, want 1000", table.For("unheard-of"))
	}
}

func TestLoadReachTableOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reach.yaml")
	content := "platforms:\n  tiktok: 25000\n  threads: 800\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadReachTable(path)
	if err != nil {
		t.Fatalf("LoadReachTable returned error: %v", err)
	}
	if table.For("tiktok") != 25000 {
		t.Errorf("tiktok reach = %d, want override 25000", table.For("tiktok"))
	}
	if table.For("threads") != 800 {
		t.Errorf("threads reach = %d, want 800", table.For("threads"))
	}
	if table.For("instagram") != 5000 {
		t.Errorf("instagram reach = %d, want default 5000 preserved", table.For("instagram"))
	}
}

func TestLoadReachTableBadFile(t *testing.T) {
	if _, err := LoadReachTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadReachTable did not report the missing file")
	}
}

func TestYouTubeTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	if _, err := LoadYouTubeToken(path); err == nil {
		t.Fatal("LoadYouTubeToken succeeded on a missing file")
	}

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
	}
	if err := SaveYouTubeToken(path, want); err != nil {
		t.Fatalf("SaveYouTubeToken returned error: %v", err)
	}

	got, err := LoadYouTubeToken(path)
	if err != nil {
		t.Fatalf("LoadYouTubeToken returned error: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Errorf("token round trip mismatch: got %+v", got)
	}
}
