package schedule

import (
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sip-plugins/overlays/consts"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Schedule</title></head>
<body>
{{- if .HasDate}}
<div id="{{.DateID}}">{{.Date}}</div>
{{- end}}
<table id="{{.TableID}}">
{{- range .Stations}}
<tr><td colspan='2' class='station_name'>{{.Name}}</td><td colspan='24' class='stationSchedule'>
{{- range .Ticks}}<div class='scheduleTick' data='{{.Minutes}}'{{with .CSS}} style='{{.}}'{{end}}></div>{{end -}}
</td></tr>
{{- end}}
{{- range .Rows}}
{{.HTML}}
{{- end}}
</table>
</body>
</html>
`))

type pageView struct {
	HasDate  bool
	DateID   string
	Date     string
	TableID  string
	Stations []Station
	Rows     []Row
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	view := pageView{
		DateID:   consts.DateDisplayID,
		TableID:  p.tableID,
		Stations: p.Stations(),
		Rows:     p.Rows(),
	}
	if p.date != nil {
		view.HasDate = true
		view.Date = p.date.Date().Format(consts.DateFormat)
	}
	return pageTmpl.Execute(w, view)
}

func PageHandler(page *Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Render(w); err != nil {
			log.Printf("Error rendering schedule page: %v", err)
		}
	}
}

// NavigateHandler changes the displayed date and sends the user back home.
func NavigateHandler(page *Page, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		display := page.DateDisplay()
		if display == nil {
			http.Error(w, "Schedule not available", http.StatusNotFound)
			return
		}
		date, err := time.ParseInLocation(consts.DateFormat, r.URL.Query().Get("date"), time.Local)
		if err != nil {
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}
		display.Navigate(date, now())
		http.Redirect(w, r, consts.HomePath, http.StatusSeeOther)
	}
}
