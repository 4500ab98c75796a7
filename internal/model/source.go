package model

import (
	"database/sql"
	"time"
)

// SourceType categorizes a source. Use FOIA officer when applicable,
// otherwise whichever category fits best.
type SourceType string

const (
	SourceTypeDataAdmin SourceType = "db_admin"
	SourceTypePerson    SourceType = "person_affected"
	SourceTypeExpert    SourceType = "expert"
	SourceTypePR        SourceType = "pr_rep"
	SourceTypeFoia      SourceType = "foia_officer"
	SourceTypeOfficial  SourceType = "official"
	SourceTypeInsider   SourceType = "insider"
)

// Source is a person a reporter talks to.
type Source struct {
	ID         int
	FirstName  string
	LastName   string
	Title      string
	AgencyID   sql.NullInt64
	Email      sql.NullString
	Phone      sql.NullString
	SourceType SourceType
	Notes      string
	AddedAt    time.Time
}

// FullName returns the source's display name, or empty when unknown.
func (s Source) FullName() string {
	if s.FirstName == "" && s.LastName == "" {
		return ""
	}
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Contact records an interview, interview attempt, email, or call.
type Contact struct {
	ID          int
	SourceID    int
	Time        time.Time
	Method      string // email, phone, text, in_person, letter
	Answered    bool
	Description string
	GroundRules string // on_record, background, deep_background, off_record
	ProjectID   sql.NullInt64
}

// Project groups requests, interviews, and stories under one investigation.
type Project struct {
	ID               int
	ShortDescription string
	LongDescription  string
	Completed        bool
	LaunchedAt       time.Time
}

// Story is a published piece.
type Story struct {
	ID          int
	Headline    string
	Link        string
	Publication string
	ProjectID   sql.NullInt64
	PublishedOn time.Time
}
