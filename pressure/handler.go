package pressure

import (
	"database/sql"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/db"
	"github.com/sip-plugins/overlays/settings"
)

func parseDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := time.ParseInLocation(consts.DateFormat, r.URL.Query().Get("date"), time.Local)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}

func daySamples(dbConn *sql.DB, date time.Time) ([]db.Sample, error) {
	seq, err := db.SelectSamples(dbConn, date)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// DisplayHandler serves the pressure graph of the date query parameter as an
// SVG fragment. When a remote controller is configured the graph is proxied
// from it instead.
func DisplayHandler(dbConn *sql.DB, store *settings.Store, hc *http.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := parseDate(w, r)
		if !ok {
			return
		}

		if remote := store.Get().Pressure.URL; remote != "" {
			proxyDisplay(w, r, hc, remote, date)
			return
		}

		samples, err := daySamples(dbConn, date)
		if err != nil {
			log.Printf("Error loading pressure samples: %v", err)
			http.Error(w, "Failed to load data", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = io.WriteString(w, BuildSVG(date, samples))
	}
}

func proxyDisplay(w http.ResponseWriter, r *http.Request, hc *http.Client, remote string, date time.Time) {
	u := strings.TrimSuffix(remote, "/") + consts.PressureDisplayPath + "?" +
		url.Values{"date": []string{date.Format(consts.DateFormat)}}.Encode()
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, u, nil)
	if err != nil {
		log.Printf("Error building remote pressure request: %v", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	resp, err := hc.Do(req)
	if err != nil {
		log.Printf("Error fetching remote pressure graph: %v", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		log.Printf("Remote pressure graph returned %s", resp.Status)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = io.Copy(w, resp.Body)
}

var settingsTmpl = template.Must(template.New("pressure").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Pressure Monitor</title></head>
<body>
<form method="get" action="{{.Action}}">
<label>Serial port <input type="text" name="port" value="{{.Port}}"></label>
<label>Remote monitor <input type="url" name="url" value="{{.URL}}"></label>
<button type="submit">Save</button>
</form>
</body>
</html>
`))

// SettingsHandler serves the monitor form, which submits to the save route.
func SettingsHandler(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := store.Get().Pressure
		view := struct {
			Action, Port, URL string
		}{consts.PressureSavePath, cfg.Port, cfg.URL}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := settingsTmpl.Execute(w, view); err != nil {
			log.Printf("Error rendering pressure settings: %v", err)
		}
	}
}

// SaveHandler stores the serial port and remote URL and returns to the home page.
// The new port takes effect on the next start.
func SaveHandler(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		remote := q.Get("url")
		if remote != "" {
			if u, err := url.Parse(remote); err != nil || u.Scheme == "" || u.Host == "" {
				http.Error(w, "Invalid url", http.StatusBadRequest)
				return
			}
		}
		err := store.Update(func(s *settings.Settings) {
			s.Pressure.Port = q.Get("port")
			s.Pressure.URL = remote
		})
		if err != nil {
			log.Printf("Error saving pressure settings: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, consts.HomePath, http.StatusSeeOther)
	}
}
