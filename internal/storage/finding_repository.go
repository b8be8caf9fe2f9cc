package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

// FindingRepository provides data access for findings.
type FindingRepository struct {
	BaseRepository
}

// NewFindingRepository creates a new finding repository.
func NewFindingRepository(db *DB) *FindingRepository {
	return &FindingRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const findingColumns = `
	id, changeover_id, title, notes, media_url, status, created_at, updated_at
`

func scanFinding(row interface{ Scan(...any) error }) (*models.Finding, error) {
	f := &models.Finding{}
	err := row.Scan(
		&f.ID, &f.ChangeoverID, &f.Title, &f.Notes, &f.MediaURL,
		&f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a new finding, open by default.
func (r *FindingRepository) Create(ctx context.Context, f *models.Finding) error {
	f.ID = GenerateID()
	f.CreatedAt = r.Now()
	f.UpdatedAt = f.CreatedAt
	if f.Status == "" {
		f.Status = models.FindingOpen
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO findings (
			id, changeover_id, title, notes, media_url, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		f.ID, f.ChangeoverID, f.Title, f.Notes, f.MediaURL,
		f.Status, f.CreatedAt, f.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting finding: %w", err)
	}

	return nil
}

// GetByID retrieves a finding by its ID. Returns nil without error when no
// row matches.
func (r *FindingRepository) GetByID(ctx context.Context, id string) (*models.Finding, error) {
	row := r.DB().QueryRowContext(ctx,
		"SELECT"+findingColumns+"FROM findings WHERE id = ?", id)

	f, err := scanFinding(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying finding: %w", err)
	}

	return f, nil
}

// ListByChangeover retrieves all findings for a changeover, newest first.
func (r *FindingRepository) ListByChangeover(ctx context.Context, changeoverID string) ([]models.Finding, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT`+findingColumns+`FROM findings
		WHERE changeover_id = ?
		ORDER BY created_at DESC
	`, changeoverID)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	var findings []models.Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		findings = append(findings, *f)
	}

	return findings, rows.Err()
}

// Update updates a finding's editable fields.
func (r *FindingRepository) Update(ctx context.Context, f *models.Finding) error {
	f.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE findings SET title = ?, notes = ?, media_url = ?, updated_at = ?
		WHERE id = ?
	`, f.Title, f.Notes, f.MediaURL, f.UpdatedAt, f.ID)

	if err != nil {
		return fmt.Errorf("updating finding: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("finding not found: %s", f.ID)
	}

	return nil
}

// UpdateStatus resolves or reopens a finding.
func (r *FindingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE findings SET status = ?, updated_at = ? WHERE id = ?
	`, status, r.Now(), id)

	if err != nil {
		return fmt.Errorf("updating finding status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("finding not found: %s", id)
	}

	return nil
}

// Delete removes a finding.
func (r *FindingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM findings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting finding: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("finding not found: %s", id)
	}

	return nil
}
