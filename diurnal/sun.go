package diurnal

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/sip-plugins/overlays/consts"
)

// Compute returns the sunrise and sunset of date at lat/lon as seconds since
// midnight in loc.
//
// Days without a sunrise or sunset are told apart by the sun's elevation at
// solar noon. Polar day is reported as sunrise at midnight and sunset at the
// end of the day, leaving the schedule unshaded. Polar night is reported the
// other way around, which shades every tick.
func Compute(date time.Time, lat, lon float64, loc *time.Location) Data {
	rise, set := sunrise.SunriseSunset(lat, lon, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		if sunrise.Elevation(lat, lon, solarNoon(date, lon)) > 0 {
			return Data{Sunrise: 0, Sunset: consts.SecondsPerDay}
		}
		return Data{Sunrise: consts.SecondsPerDay, Sunset: 0}
	}
	return Data{
		Sunrise: secondsOfDay(rise.In(loc)),
		Sunset:  secondsOfDay(set.In(loc)),
	}
}

// solarNoon approximates local solar noon of date in UTC from the longitude.
func solarNoon(date time.Time, lon float64) time.Time {
	y, m, d := date.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return noon.Add(-time.Duration(lon / 15 * float64(time.Hour)))
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
