package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeSource struct {
	name       string
	candidates []models.ProductCandidate
	err        error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, limit int) ([]models.ProductCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.candidates) > limit {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

func candidate(name, url, source string, rating float64, price string) models.ProductCandidate {
	return models.ProductCandidate{
		Name:   name,
		URL:    url,
		Source: source,
		Rating: rating,
		Price:  price,
	}
}

func TestDiscoverMergesAndRanks(t *testing.T) {
	amazon := &fakeSource{name: "amazon", candidates: []models.ProductCandidate{
		candidate("Standing Desk", "https://amazon.example/desk", "amazon", 4.8, "$199.00"),
	}}
	fakestore := &fakeSource{name: "fakestore", candidates: []models.ProductCandidate{
		candidate("Phone Case", "https://fakestore.example/case", "fakestore", 3.1, "$9.99"),
	}}

	got, err := NewManager([]Source{amazon, fakestore}, nil).Discover(context.Background(), 10)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Name != "Standing Desk" {
		t.Errorf("top candidate = %q, want Standing Desk first (higher rating and source weight)", got[0].Name)
	}
}

func TestDiscoverAbsorbsSourceFailures(t *testing.T) {
	broken := &fakeSource{name: "ebay", err: errors.New("quota exceeded")}
	working := &fakeSource{name: "etsy", candidates: []models.ProductCandidate{
		candidate("Candle", "https://etsy.example/candle", "etsy", 4.5, "$24.00"),
	}}

	got, err := NewManager([]Source{broken, working}, nil).Discover(context.Background(), 5)
	if err != nil {
		t.Fatalf("Discover returned error despite a healthy source: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Candle" {
		t.Errorf("got %v, want only the candle from the healthy source", got)
	}
}

func TestDiscoverAllSourcesFailing(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "ebay", err: errors.New("down")},
		&fakeSource{name: "etsy", err: errors.New("down")},
	}

	got, err := NewManager(sources, nil).Discover(context.Background(), 5)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}

func TestDiscoverHonorsLimit(t *testing.T) {
	var many []models.ProductCandidate
	for i := 0; i < 20; i++ {
		many = append(many, candidate(
			fmt.Sprintf("Gadget %d", i),
			fmt.Sprintf("https://shop.example/%d", i),
			"amazon", 4.0, "$50.00",
		))
	}
	source := &fakeSource{name: "amazon", candidates: many}

	got, err := NewManager([]Source{source}, nil).Discover(context.Background(), 3)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d candidates, want 3", len(got))
	}
}

func TestDiscoverZeroLimit(t *testing.T) {
	source := &fakeSource{name: "amazon", candidates: []models.ProductCandidate{
		candidate("Desk", "https://amazon.example/desk", "amazon", 4.8, "$199.00"),
	}}

	got, err := NewManager([]Source{source}, nil).Discover(context.Background(), 0)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates for zero limit, want 0", len(got))
	}
}

func TestDiscoverCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewManager([]Source{&fakeSource{name: "amazon"}}, nil).Discover(ctx, 5)
	if err == nil {
		t.Fatal("Discover did not return the context error")
	}
}

func TestDedupeCandidates(t *testing.T) {
	input := []models.ProductCandidate{
		candidate("Lamp", "https://a.example/lamp", "amazon", 4, "$30"),
		candidate("Lamp", "https://b.example/lamp", "ebay", 4, "$28"),  // same name, other storefront
		candidate("Mug", "https://a.example/lamp", "etsy", 4, "$12"),   // duplicate URL
		candidate("", "https://c.example/unnamed", "etsy", 4, "$12"),   // nameless is kept
		candidate("Chair", "", "amazon", 4, "$80"),                     // missing URL is dropped
	}

	got := dedupeCandidates(input)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %v", len(got), got)
	}
	if got[0].Name != "Lamp" || got[1].URL != "https://c.example/unnamed" {
		t.Errorf("unexpected survivors: %v", got)
	}
}

func TestTrendScorePriceBands(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  float64
	}{
		{"sweet spot", "$49.99", 40 + 20},
		{"premium", "$250.00", 40 + 15},
		{"cheap", "$4.99", 40 + 5},
		{"unparseable", "call us", 40 + 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.ProductCandidate{Rating: 4, Price: tt.price}
			if got := trendScore(c); got != tt.want {
				t.Errorf("trendScore(%q) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestFakeStoreSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":1,"title":"Backpack","description":"Fits laptops","price":109.95,"image":"https://img.example/1.png","category":"bags","rating":{"rate":3.9}},
			{"id":2,"title":"T-Shirt","description":"Slim fit","price":22.3,"image":"https://img.example/2.png","category":"clothing","rating":{"rate":4.1}}
		]`)
	}))
	defer server.Close()

	source := NewFakeStoreSourceWithBaseURL(&http.Client{Timeout: time.Second}, server.URL)
	got, err := source.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1 (limit)", len(got))
	}
	c := got[0]
	if c.Name != "Backpack" || c.Price != "$109.95" || c.Rating != 3.9 || c.Source != "fakestore" {
		t.Errorf("unexpected candidate: %+v", c)
	}
	if !c.IsTrending {
		t.Error("candidate not flagged trending")
	}
}

func TestFakeStoreSourceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := NewFakeStoreSourceWithBaseURL(&http.Client{Timeout: time.Second}, server.URL)
	if _, err := source.Fetch(context.Background(), 5); err == nil {
		t.Fatal("Fetch did not surface the upstream error")
	}
}
