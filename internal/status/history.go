package status

import (
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
	"github.com/mseewaters/kitchen-tracker/internal/recurrence"
)

// History is the completion record set for one activity. Order does not
// matter; queries scan.
type History []model.Completion

// LatestOnOrBefore returns the completion with the greatest completed_date
// not after day, or nil. Among same-date completions the most recently
// recorded wins, so completed_by reporting reflects the latest actor.
func (h History) LatestOnOrBefore(day time.Time) *model.Completion {
	day = recurrence.StartOfDay(day)

	var best *model.Completion
	for i := range h {
		c := &h[i]
		d := recurrence.StartOfDay(c.CompletedDate)
		if d.After(day) {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		bd := recurrence.StartOfDay(best.CompletedDate)
		if d.After(bd) || (d.Equal(bd) && c.CompletedAt.After(best.CompletedAt)) {
			best = c
		}
	}
	return best
}

// CountOn returns how many completions are dated exactly day.
func (h History) CountOn(day time.Time) int {
	day = recurrence.StartOfDay(day)
	n := 0
	for i := range h {
		if recurrence.StartOfDay(h[i].CompletedDate).Equal(day) {
			n++
		}
	}
	return n
}
