package compose

import "math"

var directions = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Cardinal converts wind direction in degrees to a 16-point compass label.
// Each sector is 22.5 degrees wide, centered on its label, so the input is
// shifted by half a sector before bucketing. Any real input is accepted;
// values outside [0, 360) wrap around.
func Cardinal(deg float64) string {
	ix := int(math.Floor((deg+11.25)/22.5)) % 16
	if ix < 0 {
		ix += 16
	}
	return directions[ix]
}
