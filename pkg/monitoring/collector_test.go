package monitoring

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := NewCollector()

	c.PipelineStarted()
	c.PipelineFinished(true, 2*time.Second)
	c.PipelineStarted()
	c.PipelineFinished(false, 4*time.Second)
	c.PostsPublished(5)
	c.RequestObserved(200)
	c.RequestObserved(500)

	s := c.Snapshot()
	if s.PipelineRuns != 2 || s.PipelineSucceeded != 1 || s.PipelineFailed != 1 {
		t.Errorf("run counters: %+v", s)
	}
	if s.PipelineActive != 0 {
		t.Errorf("active = %d, want 0", s.PipelineActive)
	}
	if s.PostsPublished != 5 {
		t.Errorf("posts = %d, want 5", s.PostsPublished)
	}
	if s.AvgRunMillis != 3000 {
		t.Errorf("avg millis = %d, want 3000", s.AvgRunMillis)
	}
	if s.SuccessRate != 50 {
		t.Errorf("success rate = %v, want 50", s.SuccessRate)
	}
	if s.HTTPRequests != 2 || s.HTTPErrors != 1 {
		t.Errorf("http counters: %+v", s)
	}
}

func TestCollectorConcurrentUse(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.PipelineStarted()
			c.PipelineFinished(true, time.Millisecond)
			c.PostsPublished(2)
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	if s.PipelineRuns != 50 || s.PostsPublished != 100 {
		t.Errorf("lost updates under concurrency: %+v", s)
	}
}

func TestWritePrometheus(t *testing.T) {
	c := NewCollector()
	c.PipelineStarted()
	c.PipelineFinished(true, time.Second)
	c.PostsPublished(3)

	rec := httptest.NewRecorder()
	c.WritePrometheus(rec)

	body := rec.Body.String()
	for _, want := range []string{
		"contentfactory_pipeline_runs_total 1",
		"contentfactory_pipeline_runs_succeeded_total 1",
		"contentfactory_posts_published_total 3",
		"# TYPE contentfactory_pipeline_runs_active gauge",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q:\n%s", want, body)
		}
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("content type = %q", got)
	}
}
