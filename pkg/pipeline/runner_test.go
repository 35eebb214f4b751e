package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type stubDiscoverer struct {
	products []models.Product
	err      error
	calls    int
}

func (s *stubDiscoverer) DiscoverProducts(ctx context.Context, limit int) ([]models.Product, error) {
	s.calls++
	return s.products, s.err
}

type stubGenerator struct {
	failFor map[string]bool
	calls   int
}

func (s *stubGenerator) Generate(ctx context.Context, product models.Product) (*models.ContentItem, error) {
	s.calls++
	if s.failFor[product.Name] {
		return nil, fmt.Errorf("script generation for %q: model unavailable", product.Name)
	}
	return &models.ContentItem{
		ProductURL:  product.URL,
		ProductName: product.Name,
		VideoID:     uuid.New(),
		VideoURL:    "https://videos.example.com/" + product.Name + ".mp4",
		Title:       "Discover " + product.Name + " - Trending Now!",
	}, nil
}

type stubPublisher struct {
	failPlatforms map[string]bool
	reach         map[string]int
}

func (s *stubPublisher) PublishAll(ctx context.Context, item models.ContentItem, targets []string) []models.PublicationResult {
	results := make([]models.PublicationResult, 0, len(targets))
	for _, target := range targets {
		if s.failPlatforms[target] {
			results = append(results, models.PublicationResult{
				Platform: target,
				Status:   models.PostStatusFailed,
				Error:    "rate limited",
			})
			continue
		}
		results = append(results, models.PublicationResult{
			Platform:       target,
			Status:         models.PostStatusPublished,
			PostID:         uuid.New().String(),
			EstimatedReach: s.reach[target],
		})
	}
	return results
}

type stubRecorder struct {
	recorded []models.PublicationResult
}

func (s *stubRecorder) RecordPublication(ctx context.Context, item models.ContentItem, result models.PublicationResult) {
	s.recorded = append(s.recorded, result)
}

type stubMetrics struct {
	started   int
	finished  int
	succeeded bool
	posts     int
}

func (s *stubMetrics) PipelineStarted()         { s.started++ }
func (s *stubMetrics) PostsPublished(count int) { s.posts += count }
func (s *stubMetrics) PipelineFinished(succeeded bool, duration time.Duration) {
	s.finished++
	s.succeeded = succeeded
}

func product(name string) models.Product {
	return models.Product{
		ID:   uuid.New(),
		Name: name,
		URL:  "https://shop.example.com/" + name,
	}
}

func newTestRunner(d Discoverer, g Generator, p Publisher, rec Recorder, m Metrics) *Runner {
	return NewRunner(d, g, p, rec, m, nil, []string{"tiktok", "instagram", "youtube"}, 5)
}

func TestRunAllPublishesSucceed(t *testing.T) {
	discoverer := &stubDiscoverer{products: []models.Product{product("lamp"), product("mug")}}
	generator := &stubGenerator{}
	pub := &stubPublisher{reach: map[string]int{"tiktok": 10000, "instagram": 5000, "youtube": 3000}}
	recorder := &stubRecorder{}
	metrics := &stubMetrics{}

	run := newTestRunner(discoverer, generator, pub, recorder, metrics).Run(context.Background(), Options{})

	if run.Status != models.RunStatusCompleted {
		t.Fatalf("status = %s, want %s", run.Status, models.RunStatusCompleted)
	}
	if run.ProductsDiscovered != 2 || run.ContentItemsCreated != 2 {
		t.Errorf("discovered=%d created=%d, want 2 and 2", run.ProductsDiscovered, run.ContentItemsCreated)
	}
	if run.PostsPublished != 6 {
		t.Errorf("posts published = %d, want 6", run.PostsPublished)
	}
	if run.SuccessRate != 100 {
		t.Errorf("success rate = %v, want 100", run.SuccessRate)
	}
	if got, want := run.TotalPotentialReach, 2*(10000+5000+3000); got != want {
		t.Errorf("total reach = %d, want %d", got, want)
	}
	wantPlatforms := []string{"instagram", "tiktok", "youtube"}
	if len(run.PlatformsReached) != len(wantPlatforms) {
		t.Fatalf("platforms reached = %v, want %v", run.PlatformsReached, wantPlatforms)
	}
	for i, p := range wantPlatforms {
		if run.PlatformsReached[i] != p {
			t.Errorf("platforms reached = %v, want %v", run.PlatformsReached, wantPlatforms)
			break
		}
	}
	if len(run.Errors) != 0 {
		t.Errorf("errors = %v, want none", run.Errors)
	}
	if len(recorder.recorded) != 6 {
		t.Errorf("recorded publications = %d, want 6", len(recorder.recorded))
	}
	if metrics.started != 1 || metrics.finished != 1 || !metrics.succeeded {
		t.Errorf("metrics started=%d finished=%d succeeded=%v", metrics.started, metrics.finished, metrics.succeeded)
	}
	if run.FinishedAt.Before(run.StartedAt) {
		t.Error("finished before started")
	}
}

func TestRunPartialFailuresStillComplete(t *testing.T) {
	discoverer := &stubDiscoverer{products: []models.Product{product("lamp"), product("mug"), product("desk")}}
	generator := &stubGenerator{failFor: map[string]bool{"mug": true}}
	pub := &stubPublisher{
		failPlatforms: map[string]bool{"youtube": true},
		reach:         map[string]int{"tiktok": 10000, "instagram": 5000},
	}
	recorder := &stubRecorder{}

	run := newTestRunner(discoverer, generator, pub, recorder, &stubMetrics{}).Run(context.Background(), Options{})

	if run.Status != models.RunStatusCompleted {
		t.Fatalf("status = %s, want %s", run.Status, models.RunStatusCompleted)
	}
	if run.ContentItemsCreated != 2 {
		t.Errorf("content items = %d, want 2", run.ContentItemsCreated)
	}
	// 2 items x 3 platforms, youtube failing each time.
	if len(run.Publications) != 6 {
		t.Fatalf("publications = %d, want 6", len(run.Publications))
	}
	if run.PostsPublished != 4 {
		t.Errorf("posts published = %d, want 4", run.PostsPublished)
	}
	wantRate := float64(4) / 6 * 100
	if diff := run.SuccessRate - wantRate; diff > 0.001 || diff < -0.001 {
		t.Errorf("success rate = %v, want %v", run.SuccessRate, wantRate)
	}
	for _, p := range run.PlatformsReached {
		if p == "youtube" {
			t.Error("youtube counted as reached despite failing every publish")
		}
	}
	if got, want := run.TotalPotentialReach, 2*(10000+5000); got != want {
		t.Errorf("total reach = %d, want %d", got, want)
	}
	// One generation failure plus two youtube publish failures.
	if len(run.Errors) != 3 {
		t.Errorf("errors = %v, want 3 entries", run.Errors)
	}
	// Failed publications are still recorded for the audit trail.
	if len(recorder.recorded) != 6 {
		t.Errorf("recorded publications = %d, want 6", len(recorder.recorded))
	}
}

func TestRunDiscoveryErrorFailsRun(t *testing.T) {
	discoverer := &stubDiscoverer{err: errors.New("all sources unreachable")}
	generator := &stubGenerator{}
	metrics := &stubMetrics{}

	run := newTestRunner(discoverer, generator, &stubPublisher{}, nil, metrics).Run(context.Background(), Options{})

	if run.Status != models.RunStatusFailed {
		t.Fatalf("status = %s, want %s", run.Status, models.RunStatusFailed)
	}
	if generator.calls != 0 {
		t.Errorf("generator called %d times after discovery failure", generator.calls)
	}
	if len(run.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", run.Errors)
	}
	if run.SuccessRate != 0 || run.PostsPublished != 0 {
		t.Errorf("failed run reported success: rate=%v posts=%d", run.SuccessRate, run.PostsPublished)
	}
	if metrics.succeeded {
		t.Error("metrics reported success for a failed run")
	}
}

func TestRunEmptyDiscoveryCompletes(t *testing.T) {
	discoverer := &stubDiscoverer{}
	generator := &stubGenerator{}

	run := newTestRunner(discoverer, generator, &stubPublisher{}, nil, &stubMetrics{}).Run(context.Background(), Options{})

	if run.Status != models.RunStatusCompleted {
		t.Fatalf("status = %s, want %s", run.Status, models.RunStatusCompleted)
	}
	if run.ProductsDiscovered != 0 || run.ContentItemsCreated != 0 || run.PostsPublished != 0 {
		t.Errorf("empty run produced output: %+v", run)
	}
	if run.SuccessRate != 0 {
		t.Errorf("success rate = %v, want 0 with no publications", run.SuccessRate)
	}
	if len(run.Errors) != 0 {
		t.Errorf("errors = %v, want none", run.Errors)
	}
}

func TestRunUsesRequestedPlatformsAndLimit(t *testing.T) {
	discoverer := &stubDiscoverer{products: []models.Product{product("lamp")}}
	pub := &stubPublisher{reach: map[string]int{"twitter": 1500}}

	run := newTestRunner(discoverer, &stubGenerator{}, pub, nil, &stubMetrics{}).Run(context.Background(), Options{
		Platforms: []string{"twitter"},
		Limit:     1,
	})

	if len(run.Publications) != 1 {
		t.Fatalf("publications = %d, want 1", len(run.Publications))
	}
	if run.Publications[0].Platform != "twitter" {
		t.Errorf("platform = %s, want twitter", run.Publications[0].Platform)
	}
	if run.TotalPotentialReach != 1500 {
		t.Errorf("total reach = %d, want 1500", run.TotalPotentialReach)
	}
}
