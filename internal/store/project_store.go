package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/acahn/sourcedesk/internal/model"
)

// ProjectStore handles database operations for projects and stories.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// GetAll retrieves all projects, newest first.
func (s *ProjectStore) GetAll(ctx context.Context) ([]model.Project, error) {
	query := `
		SELECT id, short_description, long_description, completed, launched_at
		FROM projects
		ORDER BY launched_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.ShortDescription, &p.LongDescription, &p.Completed, &p.LaunchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// Create inserts a project and sets its ID.
func (s *ProjectStore) Create(ctx context.Context, p *model.Project) error {
	query := `
		INSERT INTO projects (short_description, long_description, completed)
		VALUES ($1, $2, $3)
		RETURNING id, launched_at
	`

	err := s.db.QueryRowContext(ctx, query, p.ShortDescription, p.LongDescription, p.Completed).
		Scan(&p.ID, &p.LaunchedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetStories retrieves all stories, newest first.
func (s *ProjectStore) GetStories(ctx context.Context) ([]model.Story, error) {
	query := `
		SELECT id, headline, link, publication, project_id, published_on
		FROM stories
		ORDER BY published_on DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %w", err)
	}
	defer rows.Close()

	var stories []model.Story
	for rows.Next() {
		var st model.Story
		if err := rows.Scan(&st.ID, &st.Headline, &st.Link, &st.Publication, &st.ProjectID, &st.PublishedOn); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, st)
	}

	return stories, rows.Err()
}

// CreateStory inserts a story and sets its ID.
func (s *ProjectStore) CreateStory(ctx context.Context, st *model.Story) error {
	query := `
		INSERT INTO stories (headline, link, publication, project_id, published_on)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, st.Headline, st.Link, st.Publication, st.ProjectID, st.PublishedOn).
		Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}
	return nil
}
