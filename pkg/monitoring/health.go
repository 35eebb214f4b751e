package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CredentialCheck reports whether a named integration has usable
// credentials configured.
type CredentialCheck struct {
	Name       string
	Configured bool
}

// Checker probes the service's dependencies. Any probe may be nil, in
// which case that component is skipped.
type Checker struct {
	db          *gorm.DB
	redis       *redis.Client
	client      *http.Client
	externalURL string
	credentials []CredentialCheck
}

func NewChecker(db *gorm.DB, redisClient *redis.Client, client *http.Client, externalURL string, credentials []CredentialCheck) *Checker {
	return &Checker{
		db:          db,
		redis:       redisClient,
		client:      client,
		externalURL: externalURL,
		credentials: credentials,
	}
}

func (c *Checker) Check(ctx context.Context) models.HealthReport {
	report := models.HealthReport{
		Status:     "healthy",
		Components: make(map[string]models.ComponentHealth),
		CheckedAt:  time.Now().UTC(),
	}

	if c.db != nil {
		report.Components["postgres"] = c.checkPostgres(ctx)
	}
	if c.redis != nil {
		report.Components["redis"] = c.checkRedis(ctx)
	}
	if c.client != nil && c.externalURL != "" {
		report.Components["discovery_api"] = c.checkExternal(ctx)
	}
	for _, cred := range c.credentials {
		report.Components["credentials_"+cred.Name] = checkCredential(cred)
	}

	for _, component := range report.Components {
		if component.Status != "healthy" {
			report.Status = "degraded"
			break
		}
	}
	return report
}

func (c *Checker) checkPostgres(ctx context.Context) models.ComponentHealth {
	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return models.ComponentHealth{Status: "unhealthy", Message: err.Error()}
	}
	return models.ComponentHealth{Status: "healthy", Message: "connected"}
}

func (c *Checker) checkRedis(ctx context.Context) models.ComponentHealth {
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return models.ComponentHealth{Status: "unhealthy", Message: err.Error()}
	}
	return models.ComponentHealth{Status: "healthy", Message: "connected"}
}

func (c *Checker) checkExternal(ctx context.Context) models.ComponentHealth {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.externalURL, nil)
	if err != nil {
		return models.ComponentHealth{Status: "unhealthy", Message: err.Error()}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return models.ComponentHealth{Status: "unhealthy", Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return models.ComponentHealth{
			Status:  "unhealthy",
			Message: fmt.Sprintf("returned status %d", resp.StatusCode),
		}
	}
	return models.ComponentHealth{Status: "healthy", Message: "reachable"}
}

func checkCredential(cred CredentialCheck) models.ComponentHealth {
	if !cred.Configured {
		return models.ComponentHealth{
			Status:  "unhealthy",
			Message: "credentials not configured, running simulated",
		}
	}
	return models.ComponentHealth{Status: "healthy", Message: "configured"}
}
