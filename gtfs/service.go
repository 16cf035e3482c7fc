package gtfs

import "time"

// DateKey formats a day as the YYYYMMDD string used by GTFS calendar files.
func DateKey(t time.Time) string {
	return t.Format("20060102")
}

// ActiveServices resolves the set of service identifiers running on the
// given calendar day: the calendar.txt weekly patterns bounded by their
// start/end dates, adjusted by calendar_dates.txt exceptions (1 adds the
// day, 2 removes it).
//
// A bundle with no calendar data at all returns nil; callers treat that as
// "no service filter" rather than "no service".
func ActiveServices(b *Bundle, day time.Time) map[string]struct{} {
	if len(b.Calendars) == 0 && len(b.CalendarDates) == 0 {
		return nil
	}

	date := DateKey(day)
	active := make(map[string]struct{})

	for _, c := range b.Calendars {
		if c.StartDate != "" && date < c.StartDate {
			continue
		}
		if c.EndDate != "" && date > c.EndDate {
			continue
		}
		if runsOn(c, day.Weekday()) {
			active[c.ServiceID] = struct{}{}
		}
	}
	for _, cd := range b.CalendarDates {
		if cd.Date != date {
			continue
		}
		switch cd.ExceptionType {
		case 1:
			active[cd.ServiceID] = struct{}{}
		case 2:
			delete(active, cd.ServiceID)
		}
	}
	return active
}

func runsOn(c Calendar, wd time.Weekday) bool {
	switch wd {
	case time.Monday:
		return c.Monday == 1
	case time.Tuesday:
		return c.Tuesday == 1
	case time.Wednesday:
		return c.Wednesday == 1
	case time.Thursday:
		return c.Thursday == 1
	case time.Friday:
		return c.Friday == 1
	case time.Saturday:
		return c.Saturday == 1
	default:
		return c.Sunday == 1
	}
}
