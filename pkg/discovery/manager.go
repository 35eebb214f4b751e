package discovery

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
)

// Manager fans discovery out over all configured sources and merges the
// results into a single ranked, deduplicated candidate list.
//
// Individual source failures are absorbed: a broken catalog contributes
// nothing instead of failing the whole discovery. The only hard failure is a
// cancelled context.
type Manager struct {
	sources []Source
	cache   *Cache
}

func NewManager(sources []Source, cache *Cache) *Manager {
	return &Manager{sources: sources, cache: cache}
}

func (m *Manager) Discover(ctx context.Context, limit int) ([]models.ProductCandidate, error) {
	if limit <= 0 {
		return []models.ProductCandidate{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.cache != nil {
		if cached, ok := m.cache.Get(ctx, limit); ok {
			return cached, nil
		}
	}

	perSource := limit
	if len(m.sources) > 1 {
		perSource = limit/len(m.sources) + 1
	}

	var (
		mu  sync.Mutex
		all []models.ProductCandidate
		wg  sync.WaitGroup
	)

	for _, source := range m.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			candidates, err := src.Fetch(ctx, perSource)
			if err != nil {
				logger.Log.WithError(err).WithField("source", src.Name()).Warn("discovery source failed")
				return
			}
			logger.Log.WithFields(map[string]interface{}{
				"source": src.Name(),
				"count":  len(candidates),
			}).Debug("discovery source returned")
			mu.Lock()
			all = append(all, candidates...)
			mu.Unlock()
		}(source)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := rankCandidates(dedupeCandidates(all))
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if m.cache != nil && len(ranked) > 0 {
		m.cache.Set(ctx, limit, ranked)
	}

	return ranked, nil
}

// dedupeCandidates drops candidates that repeat a URL or a normalized name.
// URL is the canonical identity; the name check catches the same product
// listed through different storefronts.
func dedupeCandidates(candidates []models.ProductCandidate) []models.ProductCandidate {
	seenURLs := make(map[string]struct{}, len(candidates))
	seenNames := make(map[string]struct{}, len(candidates))
	unique := make([]models.ProductCandidate, 0, len(candidates))

	for _, c := range candidates {
		if c.URL == "" {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if _, dup := seenURLs[c.URL]; dup {
			continue
		}
		if name != "" {
			if _, dup := seenNames[name]; dup {
				continue
			}
			seenNames[name] = struct{}{}
		}
		seenURLs[c.URL] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

var sourceBonus = map[string]float64{
	"amazon":    25,
	"shopify":   20,
	"etsy":      18,
	"ebay":      15,
	"fakestore": 10,
}

// trendScore favors well-rated, mid-priced products and weights sources by
// how reliable their trending signal is.
func trendScore(c models.ProductCandidate) float64 {
	score := c.Rating * 10

	price := parsePrice(c.Price)
	switch {
	case price >= 10 && price < 100:
		score += 20
	case price >= 100 && price <= 500:
		score += 15
	default:
		score += 5
	}

	score += sourceBonus[c.Source]
	return score
}

func rankCandidates(candidates []models.ProductCandidate) []models.ProductCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return trendScore(candidates[i]) > trendScore(candidates[j])
	})
	return candidates
}

func parsePrice(raw string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "$", ""))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}
