package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/kafka"
	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
)

// Discoverer finds trending products and persists them to the catalog.
type Discoverer interface {
	DiscoverProducts(ctx context.Context, limit int) ([]models.Product, error)
}

// Generator turns one product into a finished content item.
type Generator interface {
	Generate(ctx context.Context, product models.Product) (*models.ContentItem, error)
}

// Publisher fans a content item out to the requested platforms.
type Publisher interface {
	PublishAll(ctx context.Context, item models.ContentItem, targets []string) []models.PublicationResult
}

// Recorder persists publish outcomes as post rows. Optional.
type Recorder interface {
	RecordPublication(ctx context.Context, item models.ContentItem, result models.PublicationResult)
}

// Metrics receives pipeline lifecycle signals. Implementations must be safe
// for concurrent use.
type Metrics interface {
	PipelineStarted()
	PipelineFinished(succeeded bool, duration time.Duration)
	PostsPublished(count int)
}

type Options struct {
	Platforms []string
	Limit     int
}

// Runner orchestrates one end-to-end content run: discover trending
// products, generate a video per product, publish each video to every
// requested platform, then aggregate the results.
//
// Failure semantics are deliberately asymmetric. A discovery error is the
// only thing that fails the whole run, because nothing downstream can
// happen without products. A product whose generation fails is skipped and
// noted; a platform whose publish fails becomes a failed publication. An
// empty discovery result is a successful run with zero items.
type Runner struct {
	discoverer Discoverer
	generator  Generator
	publisher  Publisher
	recorder   Recorder
	metrics    Metrics
	producer   *kafka.Producer

	defaultPlatforms []string
	defaultLimit     int
}

func NewRunner(discoverer Discoverer, generator Generator, publisher Publisher, recorder Recorder, metrics Metrics, producer *kafka.Producer, defaultPlatforms []string, defaultLimit int) *Runner {
	return &Runner{
		discoverer:       discoverer,
		generator:        generator,
		publisher:        publisher,
		recorder:         recorder,
		metrics:          metrics,
		producer:         producer,
		defaultPlatforms: defaultPlatforms,
		defaultLimit:     defaultLimit,
	}
}

func (r *Runner) Run(ctx context.Context, opts Options) *models.PipelineRun {
	platforms := opts.Platforms
	if len(platforms) == 0 {
		platforms = r.defaultPlatforms
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = r.defaultLimit
	}

	run := &models.PipelineRun{
		ID:        uuid.New(),
		Status:    models.RunStatusStarted,
		StartedAt: time.Now().UTC(),
	}
	if r.metrics != nil {
		r.metrics.PipelineStarted()
	}
	log := logger.Log.WithField("run_id", run.ID)
	log.WithFields(map[string]interface{}{
		"platforms": platforms,
		"limit":     limit,
	}).Info("pipeline run started")

	run.Status = models.RunStatusDiscovering
	products, err := r.discoverer.DiscoverProducts(ctx, limit)
	if err != nil {
		run.Errors = append(run.Errors, fmt.Sprintf("product discovery: %v", err))
		r.finish(ctx, run, models.RunStatusFailed)
		return run
	}
	run.ProductsDiscovered = len(products)

	run.Status = models.RunStatusGenerating
	items := make([]models.ContentItem, 0, len(products))
	for _, product := range products {
		item, err := r.generator.Generate(ctx, product)
		if err != nil {
			log.WithError(err).WithField("product", product.Name).Warn("content generation failed, skipping product")
			run.Errors = append(run.Errors, err.Error())
			continue
		}
		items = append(items, *item)
	}
	run.ContentItemsCreated = len(items)

	run.Status = models.RunStatusPublishing
	for _, item := range items {
		results := r.publisher.PublishAll(ctx, item, platforms)
		for _, result := range results {
			if r.recorder != nil {
				r.recorder.RecordPublication(ctx, item, result)
			}
			if result.Status != models.PostStatusPublished {
				run.Errors = append(run.Errors, fmt.Sprintf("publish %s for %q: %s", result.Platform, item.ProductName, result.Error))
			}
			run.Publications = append(run.Publications, result)
		}
	}

	run.Status = models.RunStatusAggregating
	r.aggregate(run)

	r.finish(ctx, run, models.RunStatusCompleted)
	return run
}

// aggregate derives the summary figures from the publication list. Reach
// and platform counts consider published results only.
func (r *Runner) aggregate(run *models.PipelineRun) {
	seen := make(map[string]bool)
	for _, pub := range run.Publications {
		if pub.Status != models.PostStatusPublished {
			continue
		}
		run.PostsPublished++
		run.TotalPotentialReach += pub.EstimatedReach
		if !seen[pub.Platform] {
			seen[pub.Platform] = true
			run.PlatformsReached = append(run.PlatformsReached, pub.Platform)
		}
	}
	sort.Strings(run.PlatformsReached)

	if len(run.Publications) > 0 {
		run.SuccessRate = float64(run.PostsPublished) / float64(len(run.Publications)) * 100
	}
}

func (r *Runner) finish(ctx context.Context, run *models.PipelineRun, status string) {
	run.Status = status
	run.FinishedAt = time.Now().UTC()
	duration := run.FinishedAt.Sub(run.StartedAt)

	if r.metrics != nil {
		r.metrics.PipelineFinished(status == models.RunStatusCompleted, duration)
		r.metrics.PostsPublished(run.PostsPublished)
	}

	log := logger.Log.WithFields(map[string]interface{}{
		"run_id":          run.ID,
		"status":          status,
		"posts_published": run.PostsPublished,
		"success_rate":    run.SuccessRate,
		"duration":        duration.String(),
	})
	if status == models.RunStatusCompleted {
		log.Info("pipeline run finished")
	} else {
		log.Error("pipeline run failed")
	}

	if r.producer != nil {
		if err := r.producer.PublishEvent(ctx, "pipeline.completed", "pipeline", map[string]interface{}{
			"run_id":                run.ID.String(),
			"status":                status,
			"products_discovered":   run.ProductsDiscovered,
			"content_items_created": run.ContentItemsCreated,
			"posts_published":       run.PostsPublished,
			"success_rate":          run.SuccessRate,
		}); err != nil {
			logger.Log.WithError(err).Warn("failed to publish pipeline.completed event")
		}
	}
}
