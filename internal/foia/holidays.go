package foia

import (
	"sync"
	"time"
)

// USHolidayCalendar is a HolidayProvider backed by the computed US federal
// holiday schedule, optionally extended with per-region observances.
// Federal holidays falling on a Saturday are observed the preceding Friday;
// those falling on a Sunday are observed the following Monday.
type USHolidayCalendar struct {
	mu       sync.Mutex
	years    map[int]map[string]bool
	regional map[string]map[string]bool
}

// NewUSHolidayCalendar returns a calendar covering the eleven federal
// holidays with no regional extras.
func NewUSHolidayCalendar() *USHolidayCalendar {
	return &USHolidayCalendar{
		years:    make(map[int]map[string]bool),
		regional: make(map[string]map[string]bool),
	}
}

// AddRegional registers additional holidays observed only in the given
// region (e.g. state court holidays).
func (c *USHolidayCalendar) AddRegional(region string, days ...time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := c.regional[region]
	if set == nil {
		set = make(map[string]bool)
		c.regional[region] = set
	}
	for _, d := range days {
		set[d.Format("2006-01-02")] = true
	}
}

// IsHoliday reports whether day is a federal holiday or a registered
// regional holiday for region.
func (c *USHolidayCalendar) IsHoliday(day time.Time, region string) bool {
	key := day.Format("2006-01-02")

	c.mu.Lock()
	defer c.mu.Unlock()
	year := day.Year()
	set, ok := c.years[year]
	if !ok {
		// A Saturday New Year's Day is observed the preceding December 31,
		// so each year's bucket also carries the next year's observed
		// dates. Extra keys outside the year never match a lookup.
		set = federalHolidays(year)
		for d := range federalHolidays(year + 1) {
			set[d] = true
		}
		c.years[year] = set
	}
	if set[key] {
		return true
	}
	return c.regional[region][key]
}

// federalHolidays returns the observed federal holiday dates for a year,
// keyed by YYYY-MM-DD.
func federalHolidays(year int) map[string]bool {
	fixed := []time.Time{
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),   // New Year's Day
		time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC),     // Juneteenth
		time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC),      // Independence Day
		time.Date(year, time.November, 11, 0, 0, 0, 0, time.UTC), // Veterans Day
		time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), // Christmas Day
	}
	floating := []time.Time{
		nthWeekday(year, time.January, time.Monday, 3),    // MLK Day
		nthWeekday(year, time.February, time.Monday, 3),   // Washington's Birthday
		lastWeekday(year, time.May, time.Monday),          // Memorial Day
		nthWeekday(year, time.September, time.Monday, 1),  // Labor Day
		nthWeekday(year, time.October, time.Monday, 2),    // Columbus Day
		nthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
	}

	set := make(map[string]bool, len(fixed)+len(floating))
	for _, d := range fixed {
		set[observed(d).Format("2006-01-02")] = true
	}
	for _, d := range floating {
		set[d.Format("2006-01-02")] = true
	}
	return set
}

// observed shifts weekend holidays to their observed weekday.
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// nthWeekday returns the nth occurrence of a weekday in a month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the final occurrence of a weekday in a month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(d.Weekday()) - int(weekday) + 7) % 7
	return d.AddDate(0, 0, -offset)
}
