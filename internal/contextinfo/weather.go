package contextinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

const defaultWeatherBaseURL = "https://api.open-meteo.com/v1/forecast"

// WeatherProvider reports current conditions from the Open-Meteo API.
type WeatherProvider struct {
	cfg     config.ContextProviderConfig
	baseURL string
	http    *http.Client
}

// NewWeatherProvider builds a weather provider from configuration.
func NewWeatherProvider(cfg config.ContextProviderConfig) *WeatherProvider {
	return &WeatherProvider{
		cfg:     cfg,
		baseURL: defaultWeatherBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type weatherResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// weatherDescriptions maps WMO weather codes to short phrases.
var weatherDescriptions = map[int]string{
	0: "clear skies", 1: "mostly clear skies", 2: "partly cloudy skies",
	3: "overcast skies", 45: "fog", 48: "freezing fog",
	51: "light drizzle", 53: "drizzle", 55: "heavy drizzle",
	61: "light rain", 63: "rain", 65: "heavy rain",
	71: "light snow", 73: "snow", 75: "heavy snow",
	80: "rain showers", 81: "rain showers", 82: "violent rain showers",
	95: "thunderstorms", 96: "thunderstorms with hail", 99: "thunderstorms with heavy hail",
}

func (*WeatherProvider) Name() string { return "weather" }

func (p *WeatherProvider) Context(ctx context.Context, _ time.Time) (string, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%g", p.cfg.Latitude))
	q.Set("longitude", fmt.Sprintf("%g", p.cfg.Longitude))
	q.Set("current", "temperature_2m,weather_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather api returned %s", resp.Status)
	}

	var parsed weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}

	place := p.cfg.CityName
	if place == "" {
		place = "the location"
	}
	desc, ok := weatherDescriptions[parsed.Current.WeatherCode]
	if !ok {
		desc = "mixed conditions"
	}
	return fmt.Sprintf("The weather in %s is %.0f°C with %s.",
		place, parsed.Current.Temperature, desc), nil
}
