package schedule

import (
	"html/template"
	"sync"

	"github.com/sip-plugins/overlays/consts"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is the inline background style of a tick.
type Style struct {
	BackgroundImage string
	BackgroundSize  string
}

// Tick is one schedule cell. Minutes is the cell's minutes since midnight.
type Tick struct {
	Minutes int
	Style   Style
}

// CSS renders the tick's inline style. The background image is a data URL built
// by this service, so it is marked as trusted.
func (t *Tick) CSS() template.CSS {
	if t.Style.BackgroundImage == "" {
		return ""
	}
	css := "background-image: " + t.Style.BackgroundImage + ";"
	if t.Style.BackgroundSize != "" {
		css += " background-size: " + t.Style.BackgroundSize + ";"
	}
	return template.CSS(css)
}

type Station struct {
	Name  string
	Ticks []*Tick
}

// Row is an extra table row identified by ID, e.g. the pressure graph.
type Row struct {
	ID   string
	HTML template.HTML
}

// Page is the server-side model of the dashboard's home page.
type Page struct {
	mu       sync.RWMutex
	path     string
	date     *DateDisplay
	tableID  string
	stations []*Station
	rows     []Row
}

var caser = cases.Title(language.Und)

// DayTicks returns one tick per minute of the day.
func DayTicks() []int {
	minutes := make([]int, consts.MinutesPerDay)
	for i := range minutes {
		minutes[i] = i
	}
	return minutes
}

// NewPage builds the stations table. date may be nil when the schedule is not
// shown (manual mode), which disables everything that watches the date.
func NewPage(path string, stationNames []string, tickMinutes []int, date *DateDisplay) *Page {
	p := &Page{path: path, date: date, tableID: consts.StationsTableID}
	for _, name := range stationNames {
		s := &Station{Name: caser.String(name)}
		for _, m := range tickMinutes {
			s.Ticks = append(s.Ticks, &Tick{Minutes: m})
		}
		p.stations = append(p.stations, s)
	}
	return p
}

func (p *Page) Path() string {
	return p.path
}

func (p *Page) DateDisplay() *DateDisplay {
	return p.date
}

// EachTick calls fn for every tick of every station while holding the page lock.
func (p *Page) EachTick(fn func(t *Tick)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.stations {
		for _, t := range s.Ticks {
			fn(t)
		}
	}
}

// ReplaceOrAppendRow replaces the row with the same ID in place, or appends it
// to the end of the table.
func (p *Page) ReplaceOrAppendRow(row Row) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.rows {
		if p.rows[i].ID == row.ID {
			p.rows[i] = row
			return
		}
	}
	p.rows = append(p.rows, row)
}

// Rows returns a copy of the extra rows in table order.
func (p *Page) Rows() []Row {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rows := make([]Row, len(p.rows))
	copy(rows, p.rows)
	return rows
}

// Stations returns a deep copy of the stations, safe to read without the lock.
func (p *Page) Stations() []Station {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Station, len(p.stations))
	for i, s := range p.stations {
		ticks := make([]*Tick, len(s.Ticks))
		for j, t := range s.Ticks {
			c := *t
			ticks[j] = &c
		}
		out[i] = Station{Name: s.Name, Ticks: ticks}
	}
	return out
}
