package model

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Status tracks where a single agency request sits in its lifecycle.
type Status string

const (
	StatusNoResponse      Status = "no_response"
	StatusAcknowledged    Status = "acknowledged"
	StatusClosedFulfilled Status = "closed_fulfilled"
	StatusClosedRedacted  Status = "closed_redacted"
	StatusClosedExcessFee Status = "closed_excess_fee"
	StatusClosedDenied    Status = "closed_denied"
	StatusClosedNoRecords Status = "closed_no_records"
	StatusAppealed        Status = "appealed"
	StatusSued            Status = "sued"
)

// Label returns the human-readable form of a status.
func (s Status) Label() string {
	switch s {
	case StatusNoResponse:
		return "no response"
	case StatusAcknowledged:
		return "acknowledged"
	case StatusClosedFulfilled:
		return "closed - no redactions"
	case StatusClosedRedacted:
		return "closed - some redactions"
	case StatusClosedExcessFee:
		return "closed - did not pay fee"
	case StatusClosedDenied:
		return "closed - denied"
	case StatusClosedNoRecords:
		return "closed - no responsive records"
	case StatusAppealed:
		return "appealed"
	case StatusSued:
		return "sued"
	}
	return string(s)
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusClosedFulfilled, StatusClosedRedacted, StatusClosedExcessFee,
		StatusClosedDenied, StatusClosedNoRecords, StatusSued:
		return true
	}
	return false
}

// transitions encodes the administrative status machine: requests start at
// no_response, move to acknowledged as replies arrive, and end in a closed
// variant or via appealed -> sued.
var transitions = map[Status][]Status{
	StatusNoResponse: {
		StatusAcknowledged, StatusClosedFulfilled, StatusClosedRedacted,
		StatusClosedExcessFee, StatusClosedDenied, StatusClosedNoRecords,
		StatusAppealed,
	},
	StatusAcknowledged: {
		StatusClosedFulfilled, StatusClosedRedacted, StatusClosedExcessFee,
		StatusClosedDenied, StatusClosedNoRecords, StatusAppealed,
	},
	StatusAppealed: {StatusSued},
}

// CanTransition reports whether an administrative move from one status to
// another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNoResponse, StatusAcknowledged, StatusClosedFulfilled,
		StatusClosedRedacted, StatusClosedExcessFee, StatusClosedDenied,
		StatusClosedNoRecords, StatusAppealed, StatusSued:
		return true
	}
	return false
}

// Jurisdiction is one state or territory's public records rule set.
// A null MaxResponseDays or BusinessDaysOnly means the statute defines no
// deadline; due-date computation must then yield "unknown".
type Jurisdiction struct {
	ID               int
	Code             string // two-character postal code, e.g. "NY"
	StatuteName      sql.NullString
	MaxResponseDays  sql.NullInt64
	BusinessDaysOnly sql.NullBool
	TemplateAsset    sql.NullString
	Timezone         sql.NullString // IANA zone for the civic clock
	UpdatedAt        time.Time
}

// Agency is a public body that receives records requests.
type Agency struct {
	ID             int
	Name           string
	StreetAddress  string
	Municipality   string
	ZipCode        string
	JurisdictionID sql.NullInt64
	FoiaEmail      sql.NullString
	IsFederal      bool
	CreatedAt      time.Time
}

// RequestContent is the body of one records request: everything except the
// agencies it is addressed to. Immutable once filed except for
// administrative correction.
type RequestContent struct {
	ID                  int
	Subject             string
	RequestedRecords    string
	ExpeditedProcessing string
	FeeWaiver           string
	FiledAt             time.Time
	ProjectID           sql.NullInt64
}

// RequestItem links one RequestContent to one Agency and carries the
// per-agency lifecycle state.
type RequestItem struct {
	ID               int
	ContentID        int
	AgencyID         int
	RecipientName    string
	Status           Status
	ExpeditedGranted bool
	FeeAssessed      sql.NullFloat64
	Modifications    pq.StringArray
	TimeCompleted    sql.NullTime
	MessageID        sql.NullString // mail provider id of the outbound request
	CreatedAt        time.Time
}
