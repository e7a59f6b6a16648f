package pressure

import (
	"context"
	"html/template"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/overlay"
	"github.com/sip-plugins/overlays/schedule"
)

const overlayName = "pressure"

// Renderer keeps a single pressure graph row at the end of the stations table.
type Renderer struct {
	client *overlay.Client
	page   *schedule.Page
	seq    overlay.Sequencer
}

func NewRenderer(client *overlay.Client, page *schedule.Page) *Renderer {
	return &Renderer{client: client, page: page}
}

// Render fetches the graph for date and inserts or replaces the graph row.
// On failure the previous row, if any, stays in place.
func (r *Renderer) Render(ctx context.Context, date time.Time) error {
	token := r.seq.Next()

	fragment, err := r.client.Get(ctx, consts.PressureDisplayPath, date)
	if err != nil {
		overlay.Observe(overlayName, overlay.OutcomeFailed)
		return err
	}

	row := BuildRow(string(fragment))
	if !r.seq.Apply(token, func() { r.page.ReplaceOrAppendRow(row) }) {
		overlay.Observe(overlayName, overlay.OutcomeStale)
		return nil
	}
	overlay.Observe(overlayName, overlay.OutcomeApplied)
	return nil
}

// BuildRow wraps the graph fragment in the pressure table row. The fragment
// comes from this controller's own endpoint and is embedded as is.
func BuildRow(fragment string) schedule.Row {
	html := "<tr id='" + consts.PressureGraphRow + "'>" +
		"<td colspan='2' class='station_name'>" + consts.PressureRowLabel + "</td>" +
		"<td colspan='24' id='" + consts.PressureGraphCell + "' style='height:60px; padding:0px;'>" +
		fragment +
		"</td>" +
		"</tr>"
	return schedule.Row{ID: consts.PressureGraphRow, HTML: template.HTML(html)}
}
