package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := New(config.LLMAPIConfig{Provider: "gemini"}); err == nil {
		t.Error("missing gemini key should fail")
	}
	if _, err := New(config.LLMAPIConfig{Provider: "anthropic"}); err == nil {
		t.Error("missing anthropic key should fail")
	}
	if _, err := New(config.LLMAPIConfig{Provider: "gemini", Key: "k"}); err != nil {
		t.Errorf("configured key should succeed: %v", err)
	}
}

func TestNewEnvFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	if _, err := New(config.LLMAPIConfig{Provider: "anthropic"}); err != nil {
		t.Errorf("env key should satisfy construction: %v", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(config.LLMAPIConfig{Provider: "mystery", Key: "k"}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"summary "},{"text":"text"}]}}]}`))
	}))
	defer srv.Close()

	c := &geminiClient{apiKey: "test-key", baseURL: srv.URL, http: srv.Client()}
	out, err := c.Generate(context.Background(), "system", "input", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if out != "summary text" {
		t.Errorf("Generate = %q, want concatenated parts", out)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
}

func TestGeminiEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := &geminiClient{apiKey: "k", baseURL: srv.URL, http: srv.Client()}
	if _, err := c.Generate(context.Background(), "p", "i", "m"); err == nil {
		t.Error("empty candidates should be an error")
	}
}

func TestAnthropicGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing version header")
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"hello"}]}`))
	}))
	defer srv.Close()

	c := &anthropicClient{apiKey: "k", baseURL: srv.URL, http: srv.Client()}
	out, err := c.Generate(context.Background(), "p", "i", "claude-sonnet-4-5")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if out != "hello" {
		t.Errorf("Generate = %q, want hello", out)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"recovered"}]}`))
	}))
	defer srv.Close()

	c := &anthropicClient{apiKey: "k", baseURL: srv.URL, http: srv.Client()}
	out, err := c.Generate(context.Background(), "p", "i", "m")
	if err != nil {
		t.Fatalf("Generate() should recover after retries: %v", err)
	}
	if out != "recovered" {
		t.Errorf("Generate = %q", out)
	}
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want 3", calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	c := &anthropicClient{apiKey: "k", baseURL: srv.URL, http: srv.Client()}
	if _, err := c.Generate(context.Background(), "p", "i", "m"); err == nil {
		t.Fatal("4xx should be an error")
	}
	if calls.Load() != 1 {
		t.Errorf("made %d calls, want 1 (no retry on 4xx)", calls.Load())
	}
}

func TestRetryRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	c := &geminiClient{apiKey: "k", baseURL: srv.URL, http: srv.Client()}
	start := time.Now()
	_, err := c.Generate(ctx, "p", "i", "m")
	if err == nil {
		t.Fatal("cancelled context should surface an error")
	}
	if time.Since(start) > 3*time.Second {
		t.Error("retry loop ignored context cancellation")
	}
}
