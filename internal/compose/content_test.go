package compose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weathertweetbot/internal/weather"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

func TestTweetHotClearDay(t *testing.T) {
	snap := &weather.Snapshot{
		Description:  "clear sky",
		Main:         "Clear",
		TemperatureC: 36,
		FeelsLikeC:   38,
		HumidityPct:  40,
		WindSpeedMS:  3, // 10.8 km/h
		WindDeg:      90,
	}
	// a Saturday afternoon
	now := time.Date(2026, time.August, 29, 15, 5, 0, 0, ist)

	content := Tweet("Gachibowli", "Hyderabad", snap, now)
	require.Len(t, content.Lines, 8)

	assert.Equal(t, "Hello, Gachibowli!👋, Saturday weather at 29 August, 03:05 PM:", content.Lines[0])
	assert.Equal(t, "☁️ Sky: Clear Sky", content.Lines[1])
	assert.Equal(t, "🌡️ Temp: 36°C (feels: 38°C)", content.Lines[2])
	assert.Equal(t, "💧 Humidity: 40%", content.Lines[3])
	assert.Equal(t, "💨 Wind: 11 km/h from the E", content.Lines[4])
	assert.Equal(t, "☔ No Rain", content.Lines[5])
	assert.Equal(t, "", content.Lines[6])
	assert.Equal(t, "It's a hot one! Stay cool & hydrated. ☀️", content.Lines[7])

	assert.Contains(t, content.Hashtags, "#Heatwave")
	assert.Contains(t, content.Hashtags, "#SunnyDay")
	assert.Contains(t, content.Hashtags, "#WeekendWeather")
}

func TestTweetRainyEvening(t *testing.T) {
	snap := &weather.Snapshot{
		Description:  "moderate rain",
		Main:         "Rain",
		TemperatureC: 24,
		FeelsLikeC:   25,
		HumidityPct:  88,
		Rain1hMM:     1.75,
	}
	now := time.Date(2026, time.July, 14, 19, 30, 0, 0, ist)

	content := Tweet("Gachibowli", "Hyderabad", snap, now)

	assert.Equal(t, "☔ Rain: 1.75 mm/hr", content.Lines[5])
	assert.Equal(t, "Stay dry out there! 🌧️", content.Lines[7])
}

func TestTweetCoolDay(t *testing.T) {
	snap := &weather.Snapshot{Description: "mist", TemperatureC: 14, FeelsLikeC: 12}
	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, ist)

	content := Tweet("Gachibowli", "Hyderabad", snap, now)

	assert.Equal(t, "Brr, it's cool! Consider a light jacket. 🧣", content.Lines[7])
}

func TestTweetDrizzleBelowClosingThresholdStillPleasant(t *testing.T) {
	// Rain above zero shows the rain line, but only > 0.5 mm/hr flips the
	// closing remark.
	snap := &weather.Snapshot{Description: "light drizzle", TemperatureC: 26, Rain1hMM: 0.3}
	now := time.Date(2026, time.June, 2, 11, 0, 0, 0, ist)

	content := Tweet("Gachibowli", "Hyderabad", snap, now)

	assert.Equal(t, "☔ Rain: 0.30 mm/hr", content.Lines[5])
	assert.Equal(t, "Enjoy your day! 😊", content.Lines[7])
}

func TestTweetMissingDescription(t *testing.T) {
	snap := &weather.Snapshot{TemperatureC: 25}
	now := time.Date(2026, time.June, 2, 11, 0, 0, 0, ist)

	content := Tweet("Gachibowli", "Hyderabad", snap, now)

	assert.Equal(t, "☁️ Sky: N/A", content.Lines[1])
}

func TestTweetNoData(t *testing.T) {
	content := Tweet("Gachibowli", "Hyderabad", nil, time.Now())

	require.Len(t, content.Lines, 1)
	assert.Equal(t, "Could not generate weather report: Data missing.", content.Lines[0])
	assert.Equal(t, []string{"#error"}, content.Hashtags)
}
