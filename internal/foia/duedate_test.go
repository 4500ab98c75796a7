package foia

import (
	"database/sql"
	"testing"
	"time"

	"github.com/acahn/sourcedesk/internal/model"
)

// fixedHolidays is a HolidayProvider with an explicit date set per region.
type fixedHolidays map[string][]string

func (f fixedHolidays) IsHoliday(day time.Time, region string) bool {
	key := day.Format("2006-01-02")
	for _, d := range f[region] {
		if d == key {
			return true
		}
	}
	return false
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDate(t *testing.T) {
	tests := []struct {
		name     string
		filedAt  time.Time
		maxDays  *int
		business *bool
		holidays HolidayProvider
		region   string
		want     *time.Time
	}{
		{
			name:    "no statutory deadline yields nil",
			filedAt: date(2024, time.January, 8),
			maxDays: nil,
			want:    nil,
		},
		{
			name:     "nil business flag yields nil",
			filedAt:  date(2024, time.January, 8),
			maxDays:  intPtr(10),
			business: nil,
			want:     nil,
		},
		{
			name:     "calendar days land on weekends",
			filedAt:  date(2024, time.January, 8), // Monday
			maxDays:  intPtr(5),
			business: boolPtr(false),
			want:     timePtr(date(2024, time.January, 13)), // Saturday
		},
		{
			name:     "business days skip the weekend",
			filedAt:  date(2024, time.January, 5), // Friday
			maxDays:  intPtr(5),
			business: boolPtr(true),
			want:     timePtr(date(2024, time.January, 12)), // next Friday
		},
		{
			name:     "business days skip holidays",
			filedAt:  date(2024, time.March, 4), // Monday
			maxDays:  intPtr(3),
			business: boolPtr(true),
			holidays: fixedHolidays{"MA": {"2024-03-06"}},
			region:   "MA",
			want:     timePtr(date(2024, time.March, 11)),
		},
		{
			name:     "holiday in another region does not count",
			filedAt:  date(2024, time.March, 4),
			maxDays:  intPtr(3),
			business: boolPtr(true),
			holidays: fixedHolidays{"MA": {"2024-03-06"}},
			region:   "NY",
			want:     timePtr(date(2024, time.March, 8)),
		},
		{
			name:     "zero days due immediately",
			filedAt:  date(2024, time.January, 8),
			maxDays:  intPtr(0),
			business: boolPtr(false),
			want:     timePtr(date(2024, time.January, 8)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueDate(tt.filedAt, tt.maxDays, tt.business, tt.holidays, tt.region, time.UTC)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("DueDate() = %v, want %v", got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("DueDate() = %s, want %s", got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestDueDateUsesLocalCivicClock(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tz database unavailable")
	}

	// 2 AM UTC on Jan 6 is still the evening of Jan 5 in New York, so day
	// zero must be Jan 5.
	filed := time.Date(2024, time.January, 6, 2, 0, 0, 0, time.UTC)
	got := DueDate(filed, intPtr(5), boolPtr(false), nil, "NY", eastern)
	want := date(2024, time.January, 10)
	if got == nil || !got.Equal(want) {
		t.Errorf("DueDate() = %v, want %s", got, want.Format("2006-01-02"))
	}
}

func TestAgencyDueDate(t *testing.T) {
	holidays := NewUSHolidayCalendar()

	// Noon UTC is morning on every US civic clock, so day zero is the
	// stated calendar date in any jurisdiction timezone.
	filed := time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC) // Monday

	t.Run("federal override ignores jurisdiction rules", func(t *testing.T) {
		agency := model.Agency{Name: "FBI", IsFederal: true}
		// A jurisdiction record with a short calendar deadline must not win.
		jur := &model.Jurisdiction{
			Code:             "NY",
			MaxResponseDays:  sql.NullInt64{Int64: 5, Valid: true},
			BusinessDaysOnly: sql.NullBool{Bool: false, Valid: true},
		}

		// Filed Monday 2024-01-08; 20 business days with MLK Day
		// (2024-01-15) skipped lands on Wednesday 2024-02-07.
		got := AgencyDueDate(agency, jur, filed, holidays)
		want := date(2024, time.February, 7)
		if got == nil || !got.Equal(want) {
			t.Errorf("AgencyDueDate() = %v, want %s", got, want.Format("2006-01-02"))
		}
	})

	t.Run("non-federal without jurisdiction yields nil", func(t *testing.T) {
		agency := model.Agency{Name: "Town Clerk"}
		if got := AgencyDueDate(agency, nil, filed, holidays); got != nil {
			t.Errorf("AgencyDueDate() = %v, want nil", got)
		}
	})

	t.Run("jurisdiction rules apply to state agencies", func(t *testing.T) {
		agency := model.Agency{Name: "DOT"}
		jur := &model.Jurisdiction{
			Code:             "NY",
			MaxResponseDays:  sql.NullInt64{Int64: 5, Valid: true},
			BusinessDaysOnly: sql.NullBool{Bool: false, Valid: true},
			Timezone:         sql.NullString{String: "America/New_York", Valid: true},
		}
		got := AgencyDueDate(agency, jur, filed, holidays)
		want := date(2024, time.January, 13)
		if got == nil || !got.Equal(want) {
			t.Errorf("AgencyDueDate() = %v, want %s", got, want.Format("2006-01-02"))
		}
	})

	t.Run("jurisdiction with null deadline yields nil", func(t *testing.T) {
		agency := model.Agency{Name: "DOT"}
		jur := &model.Jurisdiction{Code: "AL"}
		if got := AgencyDueDate(agency, jur, filed, holidays); got != nil {
			t.Errorf("AgencyDueDate() = %v, want nil", got)
		}
	})

	t.Run("year-end business days skip the observed new year", func(t *testing.T) {
		agency := model.Agency{Name: "DOT"}
		jur := &model.Jurisdiction{
			Code:             "NY",
			MaxResponseDays:  sql.NullInt64{Int64: 2, Valid: true},
			BusinessDaysOnly: sql.NullBool{Bool: true, Valid: true},
			Timezone:         sql.NullString{String: "America/New_York", Valid: true},
		}

		// New Year's Day 2022 falls on a Saturday and is observed Friday
		// 2021-12-31. Filed Wednesday 2021-12-29: grace Thursday, then the
		// observed holiday and the weekend push 2 business days to
		// Tuesday 2022-01-04.
		yearEnd := time.Date(2021, time.December, 29, 12, 0, 0, 0, time.UTC)
		got := AgencyDueDate(agency, jur, yearEnd, holidays)
		want := date(2022, time.January, 4)
		if got == nil || !got.Equal(want) {
			t.Errorf("AgencyDueDate() = %v, want %s", got, want.Format("2006-01-02"))
		}
	})
}

func timePtr(t time.Time) *time.Time { return &t }
