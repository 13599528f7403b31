package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"weathertweetbot/internal/weather"
)

// forecastHorizonEntries is the full 5-day horizon at 3-hour granularity.
const forecastHorizonEntries = 40

// OpenWeatherProvider implements weather.Provider against OpenWeatherMap's
// /data/2.5/weather and /data/2.5/forecast endpoints.
type OpenWeatherProvider struct {
	name        string
	apiKey      string
	currentURL  string
	forecastURL string
	client      *http.Client
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherProvider{
		name:        "openweathermap",
		apiKey:      apiKey,
		currentURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		client:      client,
		circuit:     cb,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) buildRequest(baseURL string, loc weather.Location) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		q := loc.City
		if loc.Country != "" {
			q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
		}
		values.Set("q", q)

		u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.buildRequest(p.currentURL, loc))
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Dt       int64 `json:"dt"`
		Timezone int   `json:"timezone"`
		Main     struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Rain struct {
			OneH float64 `json:"1h"`
		} `json:"rain"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, err
	}

	snap := weather.Snapshot{
		TemperatureC:     payload.Main.Temp,
		FeelsLikeC:       payload.Main.FeelsLike,
		HumidityPct:      payload.Main.Humidity,
		WindSpeedMS:      payload.Wind.Speed,
		WindDeg:          payload.Wind.Deg,
		Rain1hMM:         payload.Rain.OneH,
		ObservedAt:       payload.Dt,
		UTCOffsetSeconds: payload.Timezone,
	}
	if len(payload.Weather) > 0 {
		snap.Main = payload.Weather[0].Main
		snap.Description = payload.Weather[0].Description
	}
	if snap.ObservedAt == 0 {
		snap.ObservedAt = time.Now().Unix()
	}

	return snap, nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.buildRequest(p.forecastURL, loc))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []struct {
				Main        string `json:"main"`
				Description string `json:"description"`
			} `json:"weather"`
			Rain struct {
				ThreeH float64 `json:"3h"`
			} `json:"rain"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.List) == 0 {
		return nil, fmt.Errorf("openweather forecast returned no entries for %s", loc.Key())
	}

	n := len(payload.List)
	if n > forecastHorizonEntries {
		n = forecastHorizonEntries
	}

	forecast := make(weather.Forecast, 0, n)
	for _, item := range payload.List[:n] {
		entry := weather.ForecastEntry{
			At:           item.Dt,
			TemperatureC: item.Main.Temp,
			PrecipMM:     item.Rain.ThreeH,
		}
		if len(item.Weather) > 0 {
			entry.Main = item.Weather[0].Main
			entry.Description = item.Weather[0].Description
		}
		forecast = append(forecast, entry)
	}

	return forecast, nil
}
