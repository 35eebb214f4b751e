package monitoring

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Collector accumulates pipeline and HTTP counters. All methods are safe
// for concurrent use; an instance is injected wherever signals originate
// rather than shared through package state.
type Collector struct {
	pipelineRuns      atomic.Int64
	pipelineSucceeded atomic.Int64
	pipelineFailed    atomic.Int64
	pipelineActive    atomic.Int64
	postsPublished    atomic.Int64
	runMillisTotal    atomic.Int64

	httpRequests atomic.Int64
	httpErrors   atomic.Int64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) PipelineStarted() {
	c.pipelineRuns.Add(1)
	c.pipelineActive.Add(1)
}

func (c *Collector) PipelineFinished(succeeded bool, duration time.Duration) {
	c.pipelineActive.Add(-1)
	c.runMillisTotal.Add(duration.Milliseconds())
	if succeeded {
		c.pipelineSucceeded.Add(1)
	} else {
		c.pipelineFailed.Add(1)
	}
}

func (c *Collector) PostsPublished(count int) {
	c.postsPublished.Add(int64(count))
}

func (c *Collector) RequestObserved(statusCode int) {
	c.httpRequests.Add(1)
	if statusCode >= http.StatusInternalServerError {
		c.httpErrors.Add(1)
	}
}

// Snapshot is the dashboard-facing view of the counters.
type Snapshot struct {
	PipelineRuns      int64   `json:"pipeline_runs"`
	PipelineSucceeded int64   `json:"pipeline_succeeded"`
	PipelineFailed    int64   `json:"pipeline_failed"`
	PipelineActive    int64   `json:"pipeline_active"`
	PostsPublished    int64   `json:"posts_published"`
	AvgRunMillis      int64   `json:"avg_run_millis"`
	HTTPRequests      int64   `json:"http_requests"`
	HTTPErrors        int64   `json:"http_errors"`
	SuccessRate       float64 `json:"success_rate"`
}

func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		PipelineRuns:      c.pipelineRuns.Load(),
		PipelineSucceeded: c.pipelineSucceeded.Load(),
		PipelineFailed:    c.pipelineFailed.Load(),
		PipelineActive:    c.pipelineActive.Load(),
		PostsPublished:    c.postsPublished.Load(),
		HTTPRequests:      c.httpRequests.Load(),
		HTTPErrors:        c.httpErrors.Load(),
	}
	finished := s.PipelineSucceeded + s.PipelineFailed
	if finished > 0 {
		s.AvgRunMillis = c.runMillisTotal.Load() / finished
		s.SuccessRate = float64(s.PipelineSucceeded) / float64(finished) * 100
	}
	return s
}

func (c *Collector) WritePrometheus(w http.ResponseWriter) {
	s := c.Snapshot()
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	fmt.Fprintf(w, "# HELP contentfactory_pipeline_runs_total Number of pipeline runs started.\n")
	fmt.Fprintf(w, "# TYPE contentfactory_pipeline_runs_total counter\n")
	fmt.Fprintf(w, "contentfactory_pipeline_runs_total %d\n", s.PipelineRuns)

	fmt.Fprintf(w, "# HELP contentfactory_pipeline_runs_succeeded_total Number of pipeline runs that completed.\n")
	fmt.Fprintf(w, "# TYPE contentfactory_pipeline_runs_succeeded_total counter\n")
	fmt.Fprintf(w, "contentfactory_pipeline_runs_succeeded_total %d\n", s.PipelineSucceeded)

	fmt.Fprintf(w, "# HELP contentfactory_pipeline_runs_failed_total Number of pipeline runs that failed.\n")
	fmt.Fprintf(w, "# TYPE contentfactory_pipeline_runs_failed_total counter\n")
	fmt.Fprintf(w, "contentfactory_pipeline_runs_failed_total %d\n", s.PipelineFailed)

	fmt.Fprintf(w, "# HELP contentfactory_pipeline_runs_active Number of pipeline runs currently in flight.\n")
	fmt.Fprintf(w, "# TYPE contentfactory_pipeline_runs_active gauge\n")
	fmt.Fprintf(w, "contentfactory_pipeline_runs_active %d\n", s.PipelineActive)

	fmt.Fprintf(w, "# HELP contentfactory_posts_published_total Number of social posts published across all runs.\n")
	fmt.Fprintf(w, "# TYPE contentfactory_posts_published_total counter\n")
	fmt.Fprintf(w, "contentfactory_posts_published_total %d\n", s.PostsPublished)

	fmt.Fprintf(w, "# HELP contentfactory_pipeline_run_avg_millis Average pipeline run duration in milliseconds.\n")
	fmt.Fprintf(w, "# TYPE contentfactory_pipeline_run_avg_millis gauge\n")
	fmt.Fprintf(w, "contentfactory_pipeline_run_avg_millis %d\n", s.AvgRunMillis)

	fmt.Fprintf(w, "# HELP contentfactory_http_requests_total Number of HTTP requests served.\n")
	fmt.Fprintf(w, "# TYPE contentfactory_http_requests_total counter\n")
	fmt.Fprintf(w, "contentfactory_http_requests_total %d\n", s.HTTPRequests)

	fmt.Fprintf(w, "# HELP contentfactory_http_errors_total Number of HTTP requests that ended in a server error.\n")
	fmt.Fprintf(w, "# TYPE contentfactory_http_errors_total counter\n")
	fmt.Fprintf(w, "contentfactory_http_errors_total %d\n", s.HTTPErrors)
}
