package compose

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"weathertweetbot/internal/weather"
)

// Content is the composed tweet: ordered body lines plus an ordered tag list.
type Content struct {
	Lines    []string
	Hashtags []string
}

// Tweet builds the tweet body for a snapshot at the given local time.
// The line order is fixed: greeting, sky, temperature, humidity, wind, rain,
// blank separator, closing remark. A nil snapshot yields a single-line error
// placeholder with an error tag, which short-circuits the rest of the content.
func Tweet(city, region string, snap *weather.Snapshot, now time.Time) Content {
	if snap == nil {
		return Content{
			Lines:    []string{"Could not generate weather report: Data missing."},
			Hashtags: []string{"#error"},
		}
	}

	weekday := now.Weekday()

	sky := "N/A"
	if snap.Description != "" {
		sky = title(snap.Description)
	}

	windKmh := snap.WindSpeedMS * 3.6
	windDir := Cardinal(snap.WindDeg)

	rainLine := "☔ No Rain"
	if snap.Rain1hMM > 0 {
		rainLine = fmt.Sprintf("☔ Rain: %.2f mm/hr", snap.Rain1hMM)
	}

	var closing string
	switch {
	case snap.Rain1hMM > 0.5:
		closing = "Stay dry out there! 🌧️"
	case snap.TemperatureC > heatwaveThresholdC:
		closing = "It's a hot one! Stay cool & hydrated. ☀️"
	case snap.TemperatureC < 18:
		closing = "Brr, it's cool! Consider a light jacket. 🧣"
	default:
		closing = "Enjoy your day! 😊"
	}

	dateStr := fmt.Sprintf("%d %s", now.Day(), now.Month().String())
	timeStr := now.Format("03:04 PM")
	greeting := fmt.Sprintf("Hello, %s!👋, %s weather at %s, %s:", city, weekday.String(), dateStr, timeStr)

	lines := []string{
		greeting,
		"☁️ Sky: " + sky,
		fmt.Sprintf("🌡️ Temp: %.0f°C (feels: %.0f°C)", snap.TemperatureC, snap.FeelsLikeC),
		fmt.Sprintf("💧 Humidity: %.0f%%", snap.HumidityPct),
		fmt.Sprintf("💨 Wind: %.0f km/h from the %s", windKmh, windDir),
		rainLine,
		"",
		closing,
	}

	return Content{
		Lines:    lines,
		Hashtags: Hashtags(*snap, weekday, city, region),
	}
}

// title upper-cases the first letter of every word ("clear sky" -> "Clear Sky").
func title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
			upperNext = true
		}
	}
	return b.String()
}
