package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/acahn/sourcedesk/internal/model"
)

// AgencyStore handles database operations for agencies.
type AgencyStore struct {
	db *sql.DB
}

// NewAgencyStore creates a new AgencyStore.
func NewAgencyStore(db *sql.DB) *AgencyStore {
	return &AgencyStore{db: db}
}

const agencyColumns = `id, name, street_address, municipality, zip_code, jurisdiction_id, foia_email, is_federal, created_at`

// GetByID retrieves an agency, or nil when absent.
func (s *AgencyStore) GetByID(ctx context.Context, id int) (*model.Agency, error) {
	query := fmt.Sprintf(`SELECT %s FROM agencies WHERE id = $1`, agencyColumns)

	var a model.Agency
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.StreetAddress,
		&a.Municipality,
		&a.ZipCode,
		&a.JurisdictionID,
		&a.FoiaEmail,
		&a.IsFederal,
		&a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agency %d: %w", id, err)
	}
	return &a, nil
}

// GetAll retrieves all agencies ordered by name.
func (s *AgencyStore) GetAll(ctx context.Context) ([]model.Agency, error) {
	query := fmt.Sprintf(`SELECT %s FROM agencies ORDER BY name`, agencyColumns)
	return s.queryAgencies(ctx, query)
}

// GetAllWithEmail retrieves agencies that can actually receive a request:
// those with a FOIA contact email on file.
func (s *AgencyStore) GetAllWithEmail(ctx context.Context) ([]model.Agency, error) {
	query := fmt.Sprintf(`SELECT %s FROM agencies WHERE foia_email IS NOT NULL AND foia_email <> '' ORDER BY name`, agencyColumns)
	return s.queryAgencies(ctx, query)
}

func (s *AgencyStore) queryAgencies(ctx context.Context, query string, args ...any) ([]model.Agency, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get agencies: %w", err)
	}
	defer rows.Close()

	var agencies []model.Agency
	for rows.Next() {
		var a model.Agency
		err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.StreetAddress,
			&a.Municipality,
			&a.ZipCode,
			&a.JurisdictionID,
			&a.FoiaEmail,
			&a.IsFederal,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agency: %w", err)
		}
		agencies = append(agencies, a)
	}

	return agencies, rows.Err()
}

// Create inserts an agency and sets its ID.
func (s *AgencyStore) Create(ctx context.Context, a *model.Agency) error {
	query := `
		INSERT INTO agencies (name, street_address, municipality, zip_code,
		                      jurisdiction_id, foia_email, is_federal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.Name,
		a.StreetAddress,
		a.Municipality,
		a.ZipCode,
		a.JurisdictionID,
		a.FoiaEmail,
		a.IsFederal,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create agency %s: %w", a.Name, err)
	}
	return nil
}

// Jurisdiction loads the rule set an agency falls under, or nil when the
// agency has no jurisdiction record.
func (s *AgencyStore) Jurisdiction(ctx context.Context, a *model.Agency) (*model.Jurisdiction, error) {
	if !a.JurisdictionID.Valid {
		return nil, nil
	}
	return NewJurisdictionStore(s.db).GetByID(ctx, int(a.JurisdictionID.Int64))
}

// CountAgencies returns the number of agencies on file.
func (s *AgencyStore) CountAgencies(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agencies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count agencies: %w", err)
	}
	return count, nil
}
