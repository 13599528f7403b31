package render

import (
	"errors"
	"fmt"
	"time"

	"weathertweetbot/internal/common"
	"weathertweetbot/internal/compose"
	"weathertweetbot/internal/weather"
)

// ErrMissingData is returned when either the current snapshot or the
// forecast series is absent. Both are hard requirements for the widget.
var ErrMissingData = errors.New("missing weather data for image generation")

// forecastStripEntries is how many upcoming readings the widget shows.
const forecastStripEntries = 8

// CurrentBindings carries the formatted current-conditions block.
type CurrentBindings struct {
	City        string
	Description string
	Icon        string
	Stamp       string // e.g. "3:05 PM, Aug 29, 2026"
	Temperature string
	FeelsLike   string
	Humidity    string
	Wind        string
	Rain        string
}

// ForecastBinding is one cell of the forecast strip.
type ForecastBinding struct {
	Clock       string // e.g. "6:00 PM"
	Icon        string
	Temperature string
}

// Bindings is the full template input handed to the renderer.
type Bindings struct {
	Current  CurrentBindings
	Forecast []ForecastBinding
}

// BuildBindings assembles the widget template input from the current
// snapshot and the forecast series. Both inputs are required.
func BuildBindings(city string, snap *weather.Snapshot, forecast weather.Forecast) (*Bindings, error) {
	if snap == nil || len(forecast) == 0 {
		return nil, ErrMissingData
	}

	rain := "No rain"
	if snap.Rain1hMM > 0 {
		rain = fmt.Sprintf("%.2f mm/hr", snap.Rain1hMM)
	}

	b := &Bindings{
		Current: CurrentBindings{
			City:        city,
			Description: snap.Description,
			Icon:        weatherIcon(snap.Main),
			Stamp:       formatStamp(snap.ObservedAt, snap.UTCOffsetSeconds),
			Temperature: fmt.Sprintf("%.0f°C", snap.TemperatureC),
			FeelsLike:   fmt.Sprintf("%.0f°C", snap.FeelsLikeC),
			Humidity:    fmt.Sprintf("%.0f%%", snap.HumidityPct),
			Wind:        fmt.Sprintf("%.0f km/h %s", snap.WindSpeedMS*3.6, compose.Cardinal(snap.WindDeg)),
			Rain:        rain,
		},
	}

	n := len(forecast)
	if n > forecastStripEntries {
		n = forecastStripEntries
	}
	for _, entry := range forecast[:n] {
		b.Forecast = append(b.Forecast, ForecastBinding{
			Clock:       formatClock(entry.At, snap.UTCOffsetSeconds),
			Icon:        weatherIcon(entry.Main),
			Temperature: fmt.Sprintf("%.0f°", entry.TemperatureC),
		})
	}

	return b, nil
}

// weatherIcon maps a condition group to the widget glyph.
func weatherIcon(main string) string {
	switch {
	case common.HasAny(main, "clear"):
		return "☀"
	case common.HasAny(main, "rain", "drizzle"):
		return "🌧"
	case common.HasAny(main, "snow"):
		return "❄"
	case common.HasAny(main, "thunderstorm"):
		return "⚡"
	default:
		return "☁"
	}
}

func localTime(unix int64, offsetSeconds int) time.Time {
	return time.Unix(unix, 0).In(time.FixedZone("", offsetSeconds))
}

func formatStamp(unix int64, offsetSeconds int) string {
	return localTime(unix, offsetSeconds).Format("3:04 PM, Jan 2, 2006")
}

func formatClock(unix int64, offsetSeconds int) string {
	return localTime(unix, offsetSeconds).Format("3:04 PM")
}
