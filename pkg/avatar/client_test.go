package avatar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestSimulatedCreateVideo(t *testing.T) {
	client := NewSimulated()

	url, err := client.CreateVideo(context.Background(), "Check out this lamp!", DefaultSettings("presenter", "voice"))
	if err != nil {
		t.Fatalf("CreateVideo returned error: %v", err)
	}
	if !strings.HasPrefix(url, "https://videos.content-factory.local/") || !strings.HasSuffix(url, "_avatar.mp4") {
		t.Errorf("unexpected url: %s", url)
	}

	again, _ := client.CreateVideo(context.Background(), "Check out this lamp!", DefaultSettings("presenter", "voice"))
	if again == url {
		t.Error("simulated urls are not unique per call")
	}
}

func TestSimulatedRejectsEmptyScript(t *testing.T) {
	client := NewSimulated()
	if _, err := client.CreateVideo(context.Background(), "  ", Settings{}); err == nil {
		t.Fatal("CreateVideo accepted an empty script")
	}
}

func TestHTTPClientCreateVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-video" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header = %q", got)
		}
		var body struct {
			Script   string   `json:"script"`
			Settings Settings `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if body.Settings.Ratio != "9:16" {
			t.Errorf("ratio = %q, want 9:16", body.Settings.Ratio)
		}
		json.NewEncoder(w).Encode(map[string]string{"video_url": "https://cdn.example/v1.mp4"})
	}))
	defer server.Close()

	client := NewHTTPClient(&http.Client{Timeout: time.Second}, server.URL, "secret")
	url, err := client.CreateVideo(context.Background(), "script text", DefaultSettings("a", "v"))
	if err != nil {
		t.Fatalf("CreateVideo returned error: %v", err)
	}
	if url != "https://cdn.example/v1.mp4" {
		t.Errorf("url = %s", url)
	}
}

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"video_url": "https://cdn.example/v2.mp4"})
	}))
	defer server.Close()

	client := NewHTTPClient(&http.Client{Timeout: time.Second}, server.URL, "secret")
	url, err := client.CreateVideo(context.Background(), "script text", DefaultSettings("a", "v"))
	if err != nil {
		t.Fatalf("CreateVideo returned error: %v", err)
	}
	if url != "https://cdn.example/v2.mp4" {
		t.Errorf("url = %s", url)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestHTTPClientDoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient(&http.Client{Timeout: time.Second}, server.URL, "secret")
	if _, err := client.CreateVideo(context.Background(), "script", Settings{}); err == nil {
		t.Fatal("CreateVideo did not surface the error status")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestHTTPClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(&http.Client{Timeout: time.Second}, server.URL, "secret")
	if _, err := client.CreateVideo(context.Background(), "script", Settings{}); err == nil {
		t.Fatal("CreateVideo did not surface the error status")
	}
}
