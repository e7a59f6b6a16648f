package diurnal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/overlay"
	"github.com/sip-plugins/overlays/schedule"
)

const overlayName = "diurnal"

// Renderer shades the schedule ticks that fall before sunrise or after sunset.
type Renderer struct {
	client *overlay.Client
	page   *schedule.Page
	seq    overlay.Sequencer
}

func NewRenderer(client *overlay.Client, page *schedule.Page) *Renderer {
	return &Renderer{client: client, page: page}
}

// Render fetches the sunrise and sunset for date and restyles every tick.
// On failure the ticks keep their previous style.
func (r *Renderer) Render(ctx context.Context, date time.Time) error {
	if r.page.DateDisplay() == nil {
		return nil
	}
	token := r.seq.Next()

	body, err := r.client.Get(ctx, consts.DiurnalDataPath, date)
	if err != nil {
		overlay.Observe(overlayName, overlay.OutcomeFailed)
		return err
	}
	var data Data
	if err := json.Unmarshal(body, &data); err != nil {
		overlay.Observe(overlayName, overlay.OutcomeFailed)
		return fmt.Errorf("decoding diurnal data: %w", err)
	}

	applied := r.seq.Apply(token, func() {
		r.page.EachTick(func(t *schedule.Tick) {
			Shade(t, data)
		})
	})
	if !applied {
		overlay.Observe(overlayName, overlay.OutcomeStale)
		return nil
	}
	overlay.Observe(overlayName, overlay.OutcomeApplied)
	return nil
}

// Shade overwrites the background of t for the given day.
func Shade(t *schedule.Tick, data Data) {
	band, ok := Classify(t.Minutes*60, data)
	if !ok {
		t.Style = schedule.Style{}
		return
	}
	t.Style = schedule.Style{
		BackgroundImage: BackgroundSVG(band.Left, band.Width),
		BackgroundSize:  "cover",
	}
}
