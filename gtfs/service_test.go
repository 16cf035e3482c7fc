package gtfs

import (
	"testing"
	"time"
)

func TestActiveServices(t *testing.T) {
	b := &Bundle{
		Calendars: []Calendar{
			{ServiceID: "WEEKDAY", Monday: 1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1, StartDate: "20260101", EndDate: "20261231"},
			{ServiceID: "WEEKEND", Saturday: 1, Sunday: 1, StartDate: "20260101", EndDate: "20261231"},
			{ServiceID: "EXPIRED", Monday: 1, StartDate: "20250101", EndDate: "20251231"},
		},
		CalendarDates: []CalendarDate{
			{ServiceID: "SPECIAL", Date: "20260831", ExceptionType: 1},
			{ServiceID: "WEEKDAY", Date: "20260831", ExceptionType: 2},
		},
	}

	tests := []struct {
		name    string
		day     time.Time
		active  []string
		dormant []string
	}{
		{
			name:    "regular monday",
			day:     time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
			active:  []string{"WEEKDAY"},
			dormant: []string{"WEEKEND", "EXPIRED", "SPECIAL"},
		},
		{
			name:    "saturday",
			day:     time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
			active:  []string{"WEEKEND"},
			dormant: []string{"WEEKDAY"},
		},
		{
			name:    "exception day adds and removes",
			day:     time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), // Monday
			active:  []string{"SPECIAL"},
			dormant: []string{"WEEKDAY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveServices(b, tt.day)
			for _, id := range tt.active {
				if _, ok := got[id]; !ok {
					t.Errorf("expected %s active on %s", id, tt.day.Format("2006-01-02"))
				}
			}
			for _, id := range tt.dormant {
				if _, ok := got[id]; ok {
					t.Errorf("expected %s inactive on %s", id, tt.day.Format("2006-01-02"))
				}
			}
		})
	}
}

func TestActiveServicesNoCalendarData(t *testing.T) {
	got := ActiveServices(&Bundle{}, time.Now())
	if got != nil {
		t.Errorf("expected nil for a bundle without calendar data, got %v", got)
	}
}

func TestDateKey(t *testing.T) {
	d := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	if got := DateKey(d); got != "20260829" {
		t.Errorf("expected 20260829, got %s", got)
	}
}
