// Package watcher re-runs overlay renderers whenever the displayed schedule date
// changes.
package watcher

import (
	"context"
	"log"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/schedule"
)

// Renderer redraws an overlay for the given date.
type Renderer interface {
	Render(ctx context.Context, date time.Time) error
}

// Watch installs fn on the page's date display. fn runs once immediately with
// the current date and then once per change. It is subscribed before the first
// call, so a change made meanwhile is never missed. Nothing is installed, and
// false is returned, when the page is not the home page or has no date display.
func Watch(page *schedule.Page, fn func(time.Time)) bool {
	if page.Path() != consts.HomePath {
		return false
	}
	display := page.DateDisplay()
	if display == nil {
		return false
	}
	display.Subscribe(fn)
	fn(display.Date())
	return true
}

// Async adapts r to a change callback that renders in its own goroutine.
// Render errors are only logged: the overlay stays as it was until the next change.
func Async(ctx context.Context, name string, r Renderer) func(time.Time) {
	return func(date time.Time) {
		go func() {
			if err := r.Render(ctx, date); err != nil {
				log.Printf("%s: overlay not updated for %s: %v", name, date.Format(consts.DateFormat), err)
			}
		}()
	}
}
