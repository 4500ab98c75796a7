package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/acahn/sourcedesk/internal/model"
)

// RequestStore handles database operations for request contents and their
// per-agency items.
type RequestStore struct {
	db *sql.DB
}

// NewRequestStore creates a new RequestStore.
func NewRequestStore(db *sql.DB) *RequestStore {
	return &RequestStore{db: db}
}

// CreateContent persists a request body and sets its ID.
func (s *RequestStore) CreateContent(ctx context.Context, c *model.RequestContent) error {
	query := `
		INSERT INTO request_contents (subject, requested_records, expedited_processing,
		                              fee_waiver, filed_at, project_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Subject,
		c.RequestedRecords,
		c.ExpeditedProcessing,
		c.FeeWaiver,
		c.FiledAt,
		c.ProjectID,
	).Scan(&c.ID)

	if err != nil {
		return fmt.Errorf("failed to create request content: %w", err)
	}
	return nil
}

// GetContent retrieves a request body, or nil when absent.
func (s *RequestStore) GetContent(ctx context.Context, id int) (*model.RequestContent, error) {
	query := `
		SELECT id, subject, requested_records, expedited_processing, fee_waiver, filed_at, project_id
		FROM request_contents
		WHERE id = $1
	`

	var c model.RequestContent
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Subject,
		&c.RequestedRecords,
		&c.ExpeditedProcessing,
		&c.FeeWaiver,
		&c.FiledAt,
		&c.ProjectID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request content %d: %w", id, err)
	}
	return &c, nil
}

// SearchContents lists request bodies, optionally filtered by a keyword
// query over the subject and requested records text.
func (s *RequestStore) SearchContents(ctx context.Context, q string) ([]model.RequestContent, error) {
	query := `
		SELECT id, subject, requested_records, expedited_processing, fee_waiver, filed_at, project_id
		FROM request_contents
	`
	var args []any
	if q != "" {
		query += `
		WHERE to_tsvector('english', subject || ' ' || requested_records) @@ plainto_tsquery('english', $1)
		`
		args = append(args, q)
	}
	query += ` ORDER BY filed_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search requests: %w", err)
	}
	defer rows.Close()

	var contents []model.RequestContent
	for rows.Next() {
		var c model.RequestContent
		err := rows.Scan(
			&c.ID,
			&c.Subject,
			&c.RequestedRecords,
			&c.ExpeditedProcessing,
			&c.FeeWaiver,
			&c.FiledAt,
			&c.ProjectID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request content: %w", err)
		}
		contents = append(contents, c)
	}

	return contents, rows.Err()
}

// CreateItem persists one per-agency request item and sets its ID. New
// items always start at no_response with expedited processing not granted.
func (s *RequestStore) CreateItem(ctx context.Context, item *model.RequestItem) error {
	item.Status = model.StatusNoResponse
	item.ExpeditedGranted = false

	query := `
		INSERT INTO request_items (content_id, agency_id, recipient_name, status,
		                           expedited_granted, modifications)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		item.ContentID,
		item.AgencyID,
		item.RecipientName,
		item.Status,
		item.ExpeditedGranted,
		item.Modifications,
	).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create request item: %w", err)
	}
	return nil
}

const itemColumns = `id, content_id, agency_id, recipient_name, status, expedited_granted,
	       fee_assessed, modifications, time_completed, message_id, created_at`

// GetItem retrieves one request item, or nil when absent.
func (s *RequestStore) GetItem(ctx context.Context, id int) (*model.RequestItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM request_items WHERE id = $1`, itemColumns)

	var item model.RequestItem
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.ContentID,
		&item.AgencyID,
		&item.RecipientName,
		&item.Status,
		&item.ExpeditedGranted,
		&item.FeeAssessed,
		&item.Modifications,
		&item.TimeCompleted,
		&item.MessageID,
		&item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request item %d: %w", id, err)
	}
	return &item, nil
}

// GetItemsForContent retrieves every item filed under one request body.
func (s *RequestStore) GetItemsForContent(ctx context.Context, contentID int) ([]model.RequestItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM request_items WHERE content_id = $1 ORDER BY id`, itemColumns)

	rows, err := s.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request items: %w", err)
	}
	defer rows.Close()

	var items []model.RequestItem
	for rows.Next() {
		var item model.RequestItem
		err := rows.Scan(
			&item.ID,
			&item.ContentID,
			&item.AgencyID,
			&item.RecipientName,
			&item.Status,
			&item.ExpeditedGranted,
			&item.FeeAssessed,
			&item.Modifications,
			&item.TimeCompleted,
			&item.MessageID,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateItemStatus records an administrative status change. Closed
// statuses also set the completion date when none is recorded yet.
func (s *RequestStore) UpdateItemStatus(ctx context.Context, itemID int, status model.Status) error {
	query := `UPDATE request_items SET status = $2 WHERE id = $1`
	args := []any{itemID, status}
	if status.Terminal() {
		query = `
			UPDATE request_items
			SET status = $2, time_completed = COALESCE(time_completed, $3)
			WHERE id = $1
		`
		args = append(args, time.Now())
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update status for item %d: %w", itemID, err)
	}
	return nil
}

// SetItemMessageID records the mail provider's id for the outbound email.
func (s *RequestStore) SetItemMessageID(ctx context.Context, itemID int, messageID string) error {
	query := `UPDATE request_items SET message_id = $2 WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, itemID, messageID); err != nil {
		return fmt.Errorf("failed to set message id for item %d: %w", itemID, err)
	}
	return nil
}

// Stats summarizes request activity for the dashboard.
type Stats struct {
	TotalItems    int
	FiledThisYear int
	AvgDays       sql.NullFloat64
	MinDays       sql.NullFloat64
	MaxDays       sql.NullFloat64
}

// GetStats computes dashboard aggregates: totals plus response-time
// statistics over completed items.
func (s *RequestStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	countQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE date_part('year', c.filed_at) = date_part('year', now()))
		FROM request_items i
		JOIN request_contents c ON c.id = i.content_id
	`
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&stats.TotalItems, &stats.FiledThisYear); err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	durationQuery := `
		SELECT AVG(i.time_completed - c.filed_at::date),
		       MIN(i.time_completed - c.filed_at::date),
		       MAX(i.time_completed - c.filed_at::date)
		FROM request_items i
		JOIN request_contents c ON c.id = i.content_id
		WHERE i.time_completed IS NOT NULL
	`
	if err := s.db.QueryRowContext(ctx, durationQuery).Scan(&stats.AvgDays, &stats.MinDays, &stats.MaxDays); err != nil {
		return nil, fmt.Errorf("failed to compute response times: %w", err)
	}

	return stats, nil
}
