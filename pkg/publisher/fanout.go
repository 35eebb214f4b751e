package publisher

import (
	"context"
	"fmt"
	"sync"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
)

// Platform publishes one content item to one social network.
type Platform interface {
	Name() string
	Publish(ctx context.Context, item models.ContentItem) (models.PublicationResult, error)
}

// Fanout publishes a content item to several platforms concurrently. Each
// platform runs in its own goroutine and is isolated from the others: an
// error or panic on one platform becomes a failed result for that platform
// only and never aborts the rest.
type Fanout struct {
	platforms map[string]Platform
	reach     ReachTable
}

func NewFanout(reach ReachTable, platforms ...Platform) *Fanout {
	byName := make(map[string]Platform, len(platforms))
	for _, p := range platforms {
		byName[p.Name()] = p
	}
	return &Fanout{platforms: byName, reach: reach}
}

func (f *Fanout) PublishAll(ctx context.Context, item models.ContentItem, targets []string) []models.PublicationResult {
	results := make([]models.PublicationResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			results[i] = f.publishOne(ctx, item, target)
		}(i, target)
	}
	wg.Wait()

	return results
}

func (f *Fanout) publishOne(ctx context.Context, item models.ContentItem, target string) (result models.PublicationResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithFields(map[string]interface{}{
				"platform": target,
				"panic":    fmt.Sprint(r),
			}).Error("publisher panicked")
			result = models.PublicationResult{
				Platform: target,
				Status:   models.PostStatusFailed,
				Error:    fmt.Sprintf("publisher panicked: %v", r),
			}
		}
	}()

	platform, ok := f.platforms[target]
	if !ok {
		return models.PublicationResult{
			Platform: target,
			Status:   models.PostStatusFailed,
			Error:    fmt.Sprintf("unknown platform %q", target),
		}
	}

	res, err := platform.Publish(ctx, item)
	if err != nil {
		logger.Log.WithError(err).WithField("platform", target).Warn("publish failed")
		return models.PublicationResult{
			Platform: target,
			Status:   models.PostStatusFailed,
			Error:    err.Error(),
		}
	}

	res.Platform = target
	res.Status = models.PostStatusPublished
	res.EstimatedReach = f.reach.For(target)
	return res
}
