package foia

import (
	"testing"
	"time"
)

func TestUSHolidayCalendar(t *testing.T) {
	cal := NewUSHolidayCalendar()

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"new year's day", date(2024, time.January, 1), true},
		{"mlk day third monday", date(2024, time.January, 15), true},
		{"memorial day last monday", date(2024, time.May, 27), true},
		{"thanksgiving fourth thursday", date(2024, time.November, 28), true},
		{"christmas", date(2024, time.December, 25), true},
		{"saturday july 4th observed friday", date(2026, time.July, 3), true},
		{"saturday july 4th itself not observed", date(2026, time.July, 4), false},
		{"sunday christmas observed monday", date(2022, time.December, 26), true},
		{"saturday new year observed prior december", date(2021, time.December, 31), true},
		{"saturday new year itself not observed", date(2022, time.January, 1), false},
		{"ordinary weekday", date(2024, time.March, 6), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.IsHoliday(tt.day, "US"); got != tt.want {
				t.Errorf("IsHoliday(%s) = %v, want %v", tt.day.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestUSHolidayCalendarRegional(t *testing.T) {
	cal := NewUSHolidayCalendar()
	evacuationDay := date(2024, time.March, 17)
	cal.AddRegional("MA", evacuationDay)

	if !cal.IsHoliday(evacuationDay, "MA") {
		t.Error("expected regional holiday for MA")
	}
	if cal.IsHoliday(evacuationDay, "NY") {
		t.Error("regional holiday must not leak into other regions")
	}
}
