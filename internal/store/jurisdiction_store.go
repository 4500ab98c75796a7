package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/acahn/sourcedesk/internal/model"
)

// JurisdictionStore handles database operations for jurisdiction rule sets.
type JurisdictionStore struct {
	db *sql.DB
}

// NewJurisdictionStore creates a new JurisdictionStore.
func NewJurisdictionStore(db *sql.DB) *JurisdictionStore {
	return &JurisdictionStore{db: db}
}

const jurisdictionColumns = `id, code, statute_name, max_response_days, business_days_only, template_asset, timezone, updated_at`

func scanJurisdiction(row *sql.Row) (*model.Jurisdiction, error) {
	var j model.Jurisdiction
	err := row.Scan(
		&j.ID,
		&j.Code,
		&j.StatuteName,
		&j.MaxResponseDays,
		&j.BusinessDaysOnly,
		&j.TemplateAsset,
		&j.Timezone,
		&j.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// GetByID retrieves a jurisdiction, or nil when absent.
func (s *JurisdictionStore) GetByID(ctx context.Context, id int) (*model.Jurisdiction, error) {
	query := fmt.Sprintf(`SELECT %s FROM jurisdictions WHERE id = $1`, jurisdictionColumns)
	j, err := scanJurisdiction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get jurisdiction %d: %w", id, err)
	}
	return j, nil
}

// GetByCode retrieves a jurisdiction by its two-character code.
func (s *JurisdictionStore) GetByCode(ctx context.Context, code string) (*model.Jurisdiction, error) {
	query := fmt.Sprintf(`SELECT %s FROM jurisdictions WHERE code = $1`, jurisdictionColumns)
	j, err := scanJurisdiction(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, fmt.Errorf("failed to get jurisdiction %s: %w", code, err)
	}
	return j, nil
}

// GetAll retrieves every jurisdiction ordered by code.
func (s *JurisdictionStore) GetAll(ctx context.Context) ([]model.Jurisdiction, error) {
	query := fmt.Sprintf(`SELECT %s FROM jurisdictions ORDER BY code`, jurisdictionColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get jurisdictions: %w", err)
	}
	defer rows.Close()

	var jurisdictions []model.Jurisdiction
	for rows.Next() {
		var j model.Jurisdiction
		err := rows.Scan(
			&j.ID,
			&j.Code,
			&j.StatuteName,
			&j.MaxResponseDays,
			&j.BusinessDaysOnly,
			&j.TemplateAsset,
			&j.Timezone,
			&j.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan jurisdiction: %w", err)
		}
		jurisdictions = append(jurisdictions, j)
	}

	return jurisdictions, rows.Err()
}

// Upsert inserts or updates a jurisdiction keyed by code, setting the ID.
func (s *JurisdictionStore) Upsert(ctx context.Context, j *model.Jurisdiction) error {
	query := `
		INSERT INTO jurisdictions (code, statute_name, max_response_days, business_days_only,
		                           template_asset, timezone, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE SET
			statute_name = EXCLUDED.statute_name,
			max_response_days = EXCLUDED.max_response_days,
			business_days_only = EXCLUDED.business_days_only,
			template_asset = EXCLUDED.template_asset,
			timezone = EXCLUDED.timezone,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		j.Code,
		j.StatuteName,
		j.MaxResponseDays,
		j.BusinessDaysOnly,
		j.TemplateAsset,
		j.Timezone,
		time.Now(),
	).Scan(&j.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert jurisdiction %s: %w", j.Code, err)
	}
	return nil
}

// SetTemplateAsset records the template asset name a jurisdiction uses.
func (s *JurisdictionStore) SetTemplateAsset(ctx context.Context, code, asset string) error {
	query := `UPDATE jurisdictions SET template_asset = $2, updated_at = $3 WHERE code = $1`
	if _, err := s.db.ExecContext(ctx, query, code, asset, time.Now()); err != nil {
		return fmt.Errorf("failed to set template for jurisdiction %s: %w", code, err)
	}
	return nil
}
