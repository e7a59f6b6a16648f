package diurnal

import (
	"strconv"

	"github.com/sip-plugins/overlays/consts"
)

// Data is the sunrise and sunset of one day, in seconds since local midnight.
type Data struct {
	Sunrise int `json:"sunrise"`
	Sunset  int `json:"sunset"`
}

// Band is the shaded part of a tick, in percent of the tick's width. Width is
// the rect width attribute: for dusk ticks it stays at 100 and the rect is
// clipped by the viewBox.
type Band struct {
	Left  float64
	Width float64
}

// Classify returns the band shading a tick starting at cellTime seconds since
// midnight. ok is false for daytime ticks, which carry no shading.
func Classify(cellTime int, d Data) (band Band, ok bool) {
	switch {
	case cellTime < d.Sunrise+consts.TransitionSecs:
		return Band{Left: 0, Width: percent(d.Sunrise - cellTime)}, true
	case cellTime > d.Sunset-consts.TransitionSecs:
		return Band{Left: percent(d.Sunset - cellTime), Width: 100}, true
	default:
		return Band{}, false
	}
}

// percent converts a number of seconds into the share of a one-minute tick,
// clamped to [0, 100].
func percent(seconds int) float64 {
	return max(0, min(100, float64(seconds)/consts.TransitionSecs*100))
}

// BackgroundSVG returns a CSS url() holding an SVG rect from left with the
// given width, filled with translucent dark blue.
func BackgroundSVG(left, width float64) string {
	return "url(\"data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'%3E%3Crect x='" +
		formatNumber(left) + "' y='0' width='" + formatNumber(width) +
		"' height='100' fill='" + consts.ShadeFill + "'/%3E%3C/svg%3E\")"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
