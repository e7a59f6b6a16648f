package diurnal

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/settings"
)

// DataHandler serves {sunrise, sunset} for the date query parameter, or for
// today when it is absent.
func DataHandler(store *settings.Store, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := now()
		if q := r.URL.Query().Get("date"); q != "" {
			var err error
			date, err = time.ParseInLocation(consts.DateFormat, q, time.Local)
			if err != nil {
				http.Error(w, "Invalid date", http.StatusBadRequest)
				return
			}
		}

		cfg := store.Get().Diurnal
		data := Compute(date, cfg.Lat, cfg.Lon, date.Location())

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error writing diurnal data: %v", err)
		}
	}
}

var settingsTmpl = template.Must(template.New("diurnal").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Diurnal Display</title></head>
<body>
<form method="get" action="{{.Action}}">
<label>Latitude <input type="number" step="any" min="-90" max="90" name="lat" value="{{.Lat}}"></label>
<label>Longitude <input type="number" step="any" min="-180" max="180" name="lon" value="{{.Lon}}"></label>
<button type="submit">Save</button>
</form>
</body>
</html>
`))

// SettingsHandler serves the location form, which submits to the save route.
func SettingsHandler(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := store.Get().Diurnal
		view := struct {
			Action   string
			Lat, Lon string
		}{consts.DiurnalSavePath, formatNumber(cfg.Lat), formatNumber(cfg.Lon)}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := settingsTmpl.Execute(w, view); err != nil {
			log.Printf("Error rendering diurnal settings: %v", err)
		}
	}
}

// SaveHandler stores the lat/lon query parameters and returns to the home page.
func SaveHandler(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lat, err := strconv.ParseFloat(q.Get("lat"), 64)
		if err != nil || lat < -90 || lat > 90 {
			http.Error(w, "Invalid latitude", http.StatusBadRequest)
			return
		}
		lon, err := strconv.ParseFloat(q.Get("lon"), 64)
		if err != nil || lon < -180 || lon > 180 {
			http.Error(w, "Invalid longitude", http.StatusBadRequest)
			return
		}
		err = store.Update(func(s *settings.Settings) {
			s.Diurnal = settings.Diurnal{Lat: lat, Lon: lon}
		})
		if err != nil {
			log.Printf("Error saving diurnal settings: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, consts.HomePath, http.StatusSeeOther)
	}
}
