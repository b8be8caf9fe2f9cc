package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

// PropertyRepository provides data access for properties. It implements
// the sync engine's PropertyStore contract.
type PropertyRepository struct {
	BaseRepository
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const propertyColumns = `
	id, owner_id, name, address, calendar_url, calendar_sync_status,
	calendar_sync_error, calendar_last_synced, initial_sync_complete,
	created_at, updated_at
`

func scanProperty(row interface{ Scan(...any) error }) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.CalendarURL,
		&p.CalendarSyncStatus, &p.CalendarSyncError, &p.CalendarLastSynced,
		&p.InitialSyncComplete, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new property. A calendar URL makes it eligible for sync
// with status pending.
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	p.ID = GenerateID()
	p.CreatedAt = r.Now()
	p.UpdatedAt = p.CreatedAt
	p.CalendarSyncStatus = models.CalendarSyncPending

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO properties (
			id, owner_id, name, address, calendar_url, calendar_sync_status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.OwnerID, p.Name, p.Address, p.CalendarURL,
		p.CalendarSyncStatus, p.CreatedAt, p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by its ID. Returns nil without error when
// no row matches.
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	row := r.DB().QueryRowContext(ctx,
		"SELECT"+propertyColumns+"FROM properties WHERE id = ?", id)

	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}

	return p, nil
}

// List retrieves all properties, optionally filtered by owner.
func (r *PropertyRepository) List(ctx context.Context, ownerID string) ([]models.Property, error) {
	query := "SELECT" + propertyColumns + "FROM properties"
	args := []any{}
	if ownerID != "" {
		query += " WHERE owner_id = ?"
		args = append(args, ownerID)
	}
	query += " ORDER BY name"

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

// ListWithCalendarURL retrieves every property eligible for calendar sync.
func (r *PropertyRepository) ListWithCalendarURL(ctx context.Context) ([]models.Property, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT`+propertyColumns+`FROM properties
		WHERE calendar_url IS NOT NULL AND calendar_url != ''
		ORDER BY calendar_last_synced ASC NULLS FIRST
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sync-eligible properties: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

func collectProperties(rows *sql.Rows) ([]models.Property, error) {
	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

// Update updates a property's editable fields.
func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET
			name = ?, address = ?, calendar_url = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Address, p.CalendarURL, p.UpdatedAt, p.ID)

	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", p.ID)
	}

	return nil
}

// UpdateSyncStatus records a sync state transition. A nil syncErr clears
// any stored error; a nil lastSyncedAt preserves the previous timestamp.
func (r *PropertyRepository) UpdateSyncStatus(ctx context.Context, id, status string, syncErr *string, lastSyncedAt *time.Time, initialSyncComplete bool) error {
	_, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET
			calendar_sync_status = ?,
			calendar_sync_error = ?,
			calendar_last_synced = COALESCE(?, calendar_last_synced),
			initial_sync_complete = ?,
			updated_at = ?
		WHERE id = ?
	`, status, syncErr, lastSyncedAt, initialSyncComplete, r.Now(), id)

	if err != nil {
		return fmt.Errorf("updating sync status: %w", err)
	}

	return nil
}

// Delete removes a property and, via cascade, its changeovers and findings.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}
