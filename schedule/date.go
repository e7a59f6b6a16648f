package schedule

import (
	"sync"
	"time"
)

// DateDisplay is the element holding the currently displayed schedule date.
// Every SetDate is delivered to every subscriber, even when the value does not
// change: the minute refresh rewrites the element the same way navigation does.
type DateDisplay struct {
	mu          sync.Mutex
	date        time.Time
	followToday bool
	subscribers []func(time.Time)
}

func NewDateDisplay(date time.Time) *DateDisplay {
	return &DateDisplay{date: Day(date), followToday: true}
}

// Day truncates t to local midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (d *DateDisplay) Date() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.date
}

// Subscribe registers fn for every subsequent change. Subscriptions live as long
// as the display.
func (d *DateDisplay) Subscribe(fn func(time.Time)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, fn)
}

// SetDate stores date and notifies subscribers synchronously, in subscription order.
func (d *DateDisplay) SetDate(date time.Time) {
	d.mu.Lock()
	d.date = Day(date)
	current := d.date
	subs := make([]func(time.Time), len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.Unlock()

	for _, fn := range subs {
		fn(current)
	}
}

// Navigate is a user-driven date change. The display keeps following the
// current day only when the user navigates to it.
func (d *DateDisplay) Navigate(date, now time.Time) {
	d.mu.Lock()
	d.followToday = Day(date).Equal(Day(now))
	d.mu.Unlock()
	d.SetDate(date)
}

// Refresh is the periodic schedule refresh. It rolls over to the new day when
// the display follows today, otherwise it rewrites the same date.
func (d *DateDisplay) Refresh(now time.Time) {
	d.mu.Lock()
	next := d.date
	if d.followToday {
		next = now
	}
	d.mu.Unlock()
	d.SetDate(next)
}
