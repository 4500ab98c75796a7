// Package foia implements the statutory due-date calculation and the
// templated request composition pipeline for public records requests.
package foia

import (
	"time"

	"github.com/acahn/sourcedesk/internal/model"
)

// Federal agencies answer under FOIA: 20 business days, always, no matter
// what jurisdiction record their address carries.
const (
	FederalMaxResponseDays = 20
	FederalRegion          = "US"
)

// usEastern is the civic clock for federal agencies and the fallback when a
// jurisdiction names no timezone.
var usEastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// HolidayProvider reports whether a calendar date is a public holiday in a
// region identified by a two-character code. Implementations must be safe
// for concurrent use.
type HolidayProvider interface {
	IsHoliday(day time.Time, region string) bool
}

// DueDate computes the date an agency's response is due.
//
// A nil maxDays or businessDaysOnly means the statute defines no deadline
// and the result is nil, never a guessed value. Day zero is filedAt on the
// agency's local civic clock (loc, defaulting to US Eastern). Counting
// calendar days, the due date is exactly maxDays days after day zero.
// Counting business days, the first advanced day is a grace day and is
// never counted; every later day counts unless it is a Saturday, a Sunday,
// or a holiday for the region.
//
// The returned date is normalized to midnight UTC, stripped of clock time.
func DueDate(filedAt time.Time, maxDays *int, businessDaysOnly *bool, holidays HolidayProvider, region string, loc *time.Location) *time.Time {
	if maxDays == nil || businessDaysOnly == nil {
		return nil
	}
	if loc == nil {
		loc = usEastern
	}
	local := filedAt.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	if !*businessDaysOnly {
		due := day.AddDate(0, 0, *maxDays)
		return &due
	}

	counted := 0
	grace := true
	for counted < *maxDays {
		day = day.AddDate(0, 0, 1)
		if grace {
			grace = false
			continue
		}
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		if holidays != nil && holidays.IsHoliday(day, region) {
			continue
		}
		counted++
	}
	return &day
}

// AgencyDueDate applies jurisdiction rules (or the federal override) to a
// request item's filing time. jur may be nil when the agency has no
// jurisdiction record, in which case only federal agencies get a deadline.
func AgencyDueDate(agency model.Agency, jur *model.Jurisdiction, filedAt time.Time, holidays HolidayProvider) *time.Time {
	if agency.IsFederal {
		days := FederalMaxResponseDays
		business := true
		return DueDate(filedAt, &days, &business, holidays, FederalRegion, usEastern)
	}
	if jur == nil {
		return nil
	}

	var maxDays *int
	if jur.MaxResponseDays.Valid {
		d := int(jur.MaxResponseDays.Int64)
		maxDays = &d
	}
	var business *bool
	if jur.BusinessDaysOnly.Valid {
		b := jur.BusinessDaysOnly.Bool
		business = &b
	}

	loc := usEastern
	if jur.Timezone.Valid {
		if parsed, err := time.LoadLocation(jur.Timezone.String); err == nil {
			loc = parsed
		}
	}
	return DueDate(filedAt, maxDays, business, holidays, jur.Code, loc)
}
