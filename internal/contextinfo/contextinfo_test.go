package contextinfo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

var testDate = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

func TestBuildFromRegistry(t *testing.T) {
	entries := []config.ContextProviderConfig{
		{Type: "static", Content: "We are in conference season."},
		{Type: "date"},
	}
	providers := Build(entries, nil)
	if len(providers) != 2 {
		t.Fatalf("got %d providers, want 2", len(providers))
	}
	if providers[0].Name() != "static" || providers[1].Name() != "date" {
		t.Errorf("wrong providers: %s, %s", providers[0].Name(), providers[1].Name())
	}

	if got := Build(nil, nil); len(got) != 0 {
		t.Errorf("no entries should build no providers, got %d", len(got))
	}

	// Unknown types are skipped, known ones around them survive.
	mixed := []config.ContextProviderConfig{
		{Type: "calendar"},
		{Type: "date"},
	}
	if got := Build(mixed, nil); len(got) != 1 || got[0].Name() != "date" {
		t.Errorf("unknown provider type should be skipped: %+v", got)
	}

	// Static with empty content is useless and skipped.
	empty := []config.ContextProviderConfig{
		{Type: "static", Content: "  "},
	}
	if got := Build(empty, nil); len(got) != 0 {
		t.Errorf("blank static content should be skipped, got %d providers", len(got))
	}
}

func TestDateProvider(t *testing.T) {
	got, err := dateProvider{}.Context(context.Background(), testDate)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Today is Tuesday, July 15, 2025." {
		t.Errorf("date context = %q", got)
	}
}

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }
func (failingProvider) Context(context.Context, time.Time) (string, error) {
	return "", errors.New("boom")
}

func TestGatherSkipsFailures(t *testing.T) {
	providers := []Provider{
		staticProvider{content: "static text"},
		failingProvider{},
		dateProvider{},
	}

	got := Gather(context.Background(), providers, testDate, nil)
	if !strings.HasPrefix(got, "Context:\n") {
		t.Errorf("missing prefix: %q", got)
	}
	if !strings.Contains(got, "static text") || !strings.Contains(got, "July 15, 2025") {
		t.Errorf("missing contributions: %q", got)
	}
	if strings.Contains(got, "boom") {
		t.Errorf("failed provider leaked into output: %q", got)
	}
}

func TestGatherEmpty(t *testing.T) {
	if got := Gather(context.Background(), nil, testDate, nil); got != "" {
		t.Errorf("no providers should gather nothing, got %q", got)
	}
	if got := Gather(context.Background(), []Provider{failingProvider{}}, testDate, nil); got != "" {
		t.Errorf("all-failed gather should be empty, got %q", got)
	}
}

func TestWeatherProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") == "" {
			t.Error("missing latitude parameter")
		}
		w.Write([]byte(`{"current":{"temperature_2m":23.6,"weather_code":2}}`))
	}))
	defer srv.Close()

	p := NewWeatherProvider(config.ContextProviderConfig{
		Type: "weather", Latitude: 37.56, Longitude: 126.97, CityName: "Seoul",
	})
	p.baseURL = srv.URL
	p.http = srv.Client()

	got, err := p.Context(context.Background(), testDate)
	if err != nil {
		t.Fatal(err)
	}
	want := "The weather in Seoul is 24°C with partly cloudy skies."
	if got != want {
		t.Errorf("weather context = %q, want %q", got, want)
	}
}

func TestWeatherProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewWeatherProvider(config.ContextProviderConfig{Type: "weather"})
	p.baseURL = srv.URL
	p.http = srv.Client()

	if _, err := p.Context(context.Background(), testDate); err == nil {
		t.Error("server error should surface")
	}
}
