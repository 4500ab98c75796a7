package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/acahn/sourcedesk/internal/model"
)

// SourceStore handles database operations for sources and their contact log.
type SourceStore struct {
	db *sql.DB
}

// NewSourceStore creates a new SourceStore.
func NewSourceStore(db *sql.DB) *SourceStore {
	return &SourceStore{db: db}
}

const sourceColumns = `id, first_name, last_name, title, agency_id, email, phone, source_type, notes, added_at`

// GetByID retrieves a source, or nil when absent.
func (s *SourceStore) GetByID(ctx context.Context, id int) (*model.Source, error) {
	query := fmt.Sprintf(`SELECT %s FROM sources WHERE id = $1`, sourceColumns)

	var src model.Source
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&src.ID,
		&src.FirstName,
		&src.LastName,
		&src.Title,
		&src.AgencyID,
		&src.Email,
		&src.Phone,
		&src.SourceType,
		&src.Notes,
		&src.AddedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source %d: %w", id, err)
	}
	return &src, nil
}

// GetAll retrieves all sources ordered by last then first name.
func (s *SourceStore) GetAll(ctx context.Context) ([]model.Source, error) {
	query := fmt.Sprintf(`SELECT %s FROM sources ORDER BY last_name, first_name`, sourceColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	defer rows.Close()

	var sources []model.Source
	for rows.Next() {
		var src model.Source
		err := rows.Scan(
			&src.ID,
			&src.FirstName,
			&src.LastName,
			&src.Title,
			&src.AgencyID,
			&src.Email,
			&src.Phone,
			&src.SourceType,
			&src.Notes,
			&src.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}

	return sources, rows.Err()
}

// Create inserts a source and sets its ID.
func (s *SourceStore) Create(ctx context.Context, src *model.Source) error {
	query := `
		INSERT INTO sources (first_name, last_name, title, agency_id, email, phone, source_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, added_at
	`

	err := s.db.QueryRowContext(ctx, query,
		src.FirstName,
		src.LastName,
		src.Title,
		src.AgencyID,
		src.Email,
		src.Phone,
		src.SourceType,
		src.Notes,
	).Scan(&src.ID, &src.AddedAt)

	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	return nil
}

// GetContactsForSource retrieves a source's interview log, newest first.
func (s *SourceStore) GetContactsForSource(ctx context.Context, sourceID int) ([]model.Contact, error) {
	query := `
		SELECT id, source_id, time, method, answered, description, ground_rules, project_id
		FROM contacts
		WHERE source_id = $1
		ORDER BY time DESC
	`

	rows, err := s.db.QueryContext(ctx, query, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		err := rows.Scan(
			&c.ID,
			&c.SourceID,
			&c.Time,
			&c.Method,
			&c.Answered,
			&c.Description,
			&c.GroundRules,
			&c.ProjectID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// CreateContact records an interview or interview attempt.
func (s *SourceStore) CreateContact(ctx context.Context, c *model.Contact) error {
	query := `
		INSERT INTO contacts (source_id, time, method, answered, description, ground_rules, project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		c.SourceID,
		c.Time,
		c.Method,
		c.Answered,
		c.Description,
		c.GroundRules,
		c.ProjectID,
	).Scan(&c.ID)

	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// CountSources returns the number of sources on file.
func (s *SourceStore) CountSources(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sources`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sources: %w", err)
	}
	return count, nil
}
