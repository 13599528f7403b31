package weather

import "context"

// Provider abstracts the upstream weather data source (e.g. OpenWeatherMap).
// Both calls are independent; either may fail without affecting the other.
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, loc Location) (Snapshot, error)
	FetchForecast(ctx context.Context, loc Location) (Forecast, error)
}
