package compose

import (
	"time"

	"weathertweetbot/internal/common"
	"weathertweetbot/internal/weather"
)

// hot-weather threshold shared by hashtags and the closing remark
const heatwaveThresholdC = 35

// windyThresholdKmh is checked after converting the upstream m/s reading.
const windyThresholdKmh = 25

// Hashtags derives the tag list for a snapshot. The city, region and
// #weatherupdate tags are always present; condition-triggered tags follow in
// a fixed order so that downstream budget trimming is deterministic
// (least-significant tags sit at the end and are removed first).
func Hashtags(snap weather.Snapshot, weekday time.Weekday, city, region string) []string {
	tags := []string{"#" + city, "#" + region, "#weatherupdate"}
	seen := map[string]bool{}
	for _, t := range tags {
		seen[t] = true
	}
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}

	windKmh := snap.WindSpeedMS * 3.6

	if snap.Rain1hMM > 0 {
		add("#" + region + "Rains")
		add("#rain")
	}
	if snap.TemperatureC > heatwaveThresholdC {
		add("#Heatwave")
	}
	if common.HasAny(snap.Description, "clear") {
		add("#SunnyDay")
	}
	if windKmh > windyThresholdKmh {
		add("#windy")
	}
	if weekday == time.Saturday || weekday == time.Sunday {
		add("#WeekendWeather")
	}

	return tags
}
