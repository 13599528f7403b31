package weather

// Location represents the place we post weather updates for.
// City must be provided; Country is an ISO code like "IN".
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Key returns a canonical string key for logging and diagnostics.
func (l Location) Key() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + ":" + l.Country
}

// Snapshot is one point-in-time weather reading for a location.
// All fields default to their zero value when absent upstream; the
// composition layer renders "N/A" or suppresses content accordingly.
type Snapshot struct {
	Description      string  `json:"description"` // e.g. "clear sky"
	Main             string  `json:"main"`        // condition group, e.g. "Clear", "Rain"
	TemperatureC     float64 `json:"temperatureC"`
	FeelsLikeC       float64 `json:"feelsLikeC"`
	HumidityPct      float64 `json:"humidityPercent"`
	WindSpeedMS      float64 `json:"windSpeedMs"` // as delivered upstream; km/h conversion happens at composition time
	WindDeg          float64 `json:"windDeg"`
	Rain1hMM         float64 `json:"rain1hMm"`
	ObservedAt       int64   `json:"observedAt"` // unix seconds
	UTCOffsetSeconds int     `json:"utcOffsetSeconds"`
}

// ForecastEntry is a single future reading at 3-hour granularity.
type ForecastEntry struct {
	At           int64   `json:"at"` // unix seconds
	TemperatureC float64 `json:"temperatureC"`
	Description  string  `json:"description"`
	Main         string  `json:"main"`
	PrecipMM     float64 `json:"precipMm"`
}

// Forecast is an ordered multi-point future series (3-hour steps over a
// 5-day horizon). Entries are ordered by At ascending. It feeds the image
// widget only; text composition never consumes it.
type Forecast []ForecastEntry
