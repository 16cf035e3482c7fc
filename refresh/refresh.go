// Package refresh decides when the schedule bundle is due for its weekly
// re-download. The decision is a side-effect-free function of the clock and
// the last successful refresh date; the daemon loop performs the refresh
// and advances the state.
package refresh

import "time"

// State records the date of the last successful refresh. The zero value
// means "unknown", which never suppresses a due window on its own.
type State struct {
	LastRefreshDate string // YYYY-MM-DD, empty when unknown
}

// MarkRefreshed records a successful refresh on the given day.
func (s *State) MarkRefreshed(now time.Time) {
	s.LastRefreshDate = dateKey(now)
}

// Window is the weekly maintenance window: the last Minutes minutes before
// midnight of Weekday.
type Window struct {
	Weekday time.Weekday
	Minutes int
}

// Due reports whether a refresh should run right now. True only inside the
// window and only if no refresh succeeded today, so a failed attempt is
// retried on the next poll cycle while the window is open, and a window
// missed entirely waits for next week.
//
// Only hour and minute are compared; a process stopped across the exact
// window boundary simply catches the following week.
func Due(now time.Time, s State, w Window) bool {
	if now.Weekday() != w.Weekday {
		return false
	}
	minutes := w.Minutes
	if minutes <= 0 || minutes > 59 {
		minutes = 5
	}
	if now.Hour() != 23 || now.Minute() < 60-minutes {
		return false
	}
	return s.LastRefreshDate != dateKey(now)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
