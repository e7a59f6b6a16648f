package pressure

import (
	"fmt"
	"strings"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/db"
)

// emptyDay is drawn when there are no readings: zero pressure all day long.
func emptyDay(date time.Time) []db.Sample {
	y, m, d := date.Date()
	return []db.Sample{
		{Time: time.Date(y, m, d, 0, 0, 30, 0, date.Location())},
		{Time: time.Date(y, m, d, 23, 59, 30, 0, date.Location())},
	}
}

// BuildSVG draws one day of readings as a filled polygon over a 1440x60
// canvas: x is the minute of the day, y is 60 minus the psi.
func BuildSVG(date time.Time, samples []db.Sample) string {
	if len(samples) == 0 {
		samples = emptyDay(date)
	}

	var points strings.Builder
	for _, s := range samples {
		fmt.Fprintf(&points, "%d,%d ", s.MinuteOfDay(), consts.GraphHeight-s.PSI)
	}
	first := samples[0].MinuteOfDay()
	last := samples[len(samples)-1].MinuteOfDay()
	fmt.Fprintf(&points, "%d,%d %d,%d", last, consts.GraphHeight, first, consts.GraphHeight)

	var b strings.Builder
	fmt.Fprintf(&b, "<svg width='100%%' height='100%%' viewBox='0 0 %d %d' preserveAspectRatio='none'>",
		consts.MinutesPerDay, consts.GraphHeight)
	fmt.Fprintf(&b, "<rect x='0' y='0' width='%d' height='%d' style='fill:%s' />",
		consts.MinutesPerDay, consts.GraphHeight, consts.GraphBackground)
	for y := 10; y < consts.GraphHeight; y += 10 {
		fmt.Fprintf(&b, "<line x1='50' y1='%d' x2='%d' y2='%d' style='stroke:white' />", y, consts.MinutesPerDay, y)
	}
	for y := 10; y < consts.GraphHeight; y += 10 {
		fmt.Fprintf(&b, "<text x='10' y='%d' fill='white' font-size='10' font-weight='bold'>%d PSI</text>",
			y+4, consts.GraphHeight-y)
	}
	fmt.Fprintf(&b, "<polygon points='%s' style='fill:%s; fill-opacity:50%%' />", points.String(), consts.GraphFill)
	b.WriteString("</svg>")
	return b.String()
}
