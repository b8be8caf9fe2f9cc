package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

// ChangeoverRepository provides data access for changeovers. It implements
// the sync engine's ChangeoverStore contract.
type ChangeoverRepository struct {
	BaseRepository
}

// NewChangeoverRepository creates a new changeover repository.
func NewChangeoverRepository(db *DB) *ChangeoverRepository {
	return &ChangeoverRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const changeoverColumns = `
	id, property_id, checkin_date, checkout_date, external_booking_id,
	status, share_token, created_at, updated_at
`

func scanChangeover(row interface{ Scan(...any) error }) (*models.Changeover, error) {
	c := &models.Changeover{}
	err := row.Scan(
		&c.ID, &c.PropertyID, &c.CheckinDate, &c.CheckoutDate,
		&c.ExternalBookingID, &c.Status, &c.ShareToken,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a manually scheduled changeover. The share token is
// generated here and never changes for the record's lifetime.
func (r *ChangeoverRepository) Create(ctx context.Context, c *models.Changeover) error {
	c.ID = GenerateID()
	c.ShareToken = GenerateID()
	c.CreatedAt = r.Now()
	c.UpdatedAt = c.CreatedAt
	if c.Status == "" {
		c.Status = models.ChangeoverScheduled
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO changeovers (
			id, property_id, checkin_date, checkout_date, external_booking_id,
			status, share_token, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.PropertyID, c.CheckinDate, c.CheckoutDate, c.ExternalBookingID,
		c.Status, c.ShareToken, c.CreatedAt, c.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting changeover: %w", err)
	}

	return nil
}

// CreateSynced inserts a changeover produced by calendar sync, with status
// scheduled and the booking's external id as the reconciliation key.
func (r *ChangeoverRepository) CreateSynced(ctx context.Context, propertyID string, checkin, checkout time.Time, externalID string) error {
	c := &models.Changeover{
		PropertyID:        propertyID,
		CheckinDate:       checkin,
		CheckoutDate:      checkout,
		ExternalBookingID: &externalID,
		Status:            models.ChangeoverScheduled,
	}
	return r.Create(ctx, c)
}

// GetByID retrieves a changeover by its ID. Returns nil without error when
// no row matches.
func (r *ChangeoverRepository) GetByID(ctx context.Context, id string) (*models.Changeover, error) {
	row := r.DB().QueryRowContext(ctx,
		"SELECT"+changeoverColumns+"FROM changeovers WHERE id = ?", id)

	c, err := scanChangeover(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying changeover: %w", err)
	}

	return c, nil
}

// GetByShareToken retrieves a changeover by its share token, together with
// its property name for the share view.
func (r *ChangeoverRepository) GetByShareToken(ctx context.Context, token string) (*models.ChangeoverWithProperty, error) {
	row := r.DB().QueryRowContext(ctx, `
		SELECT c.id, c.property_id, c.checkin_date, c.checkout_date,
		       c.external_booking_id, c.status, c.share_token,
		       c.created_at, c.updated_at, p.name
		FROM changeovers c
		JOIN properties p ON p.id = c.property_id
		WHERE c.share_token = ?
	`, token)

	c := &models.ChangeoverWithProperty{}
	err := row.Scan(
		&c.ID, &c.PropertyID, &c.CheckinDate, &c.CheckoutDate,
		&c.ExternalBookingID, &c.Status, &c.ShareToken,
		&c.CreatedAt, &c.UpdatedAt, &c.PropertyName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying changeover by token: %w", err)
	}

	return c, nil
}

// ListByProperty retrieves all changeovers for a property, soonest
// check-in first.
func (r *ChangeoverRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Changeover, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT`+changeoverColumns+`FROM changeovers
		WHERE property_id = ?
		ORDER BY checkin_date
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying changeovers: %w", err)
	}
	defer rows.Close()

	return collectChangeovers(rows)
}

// ListSynced retrieves only the changeovers that originated from calendar
// sync. Manual changeovers never reach the reconciler.
func (r *ChangeoverRepository) ListSynced(ctx context.Context, propertyID string) ([]models.Changeover, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT`+changeoverColumns+`FROM changeovers
		WHERE property_id = ? AND external_booking_id IS NOT NULL
		ORDER BY checkin_date
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying synced changeovers: %w", err)
	}
	defer rows.Close()

	return collectChangeovers(rows)
}

func collectChangeovers(rows *sql.Rows) ([]models.Changeover, error) {
	var changeovers []models.Changeover
	for rows.Next() {
		c, err := scanChangeover(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning changeover: %w", err)
		}
		changeovers = append(changeovers, *c)
	}
	return changeovers, rows.Err()
}

// ListForFeed retrieves changeovers with their property names for outbound
// feed generation: every changeover of every property the owner has, or of
// one property when propertyID is non-empty.
func (r *ChangeoverRepository) ListForFeed(ctx context.Context, ownerID, propertyID string) ([]models.ChangeoverWithProperty, error) {
	query := `
		SELECT c.id, c.property_id, c.checkin_date, c.checkout_date,
		       c.external_booking_id, c.status, c.share_token,
		       c.created_at, c.updated_at, p.name
		FROM changeovers c
		JOIN properties p ON p.id = c.property_id
		WHERE p.owner_id = ?
	`
	args := []any{ownerID}
	if propertyID != "" {
		query += " AND c.property_id = ?"
		args = append(args, propertyID)
	}
	query += " ORDER BY c.checkin_date, c.id"

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying feed changeovers: %w", err)
	}
	defer rows.Close()

	var entries []models.ChangeoverWithProperty
	for rows.Next() {
		var c models.ChangeoverWithProperty
		if err := rows.Scan(
			&c.ID, &c.PropertyID, &c.CheckinDate, &c.CheckoutDate,
			&c.ExternalBookingID, &c.Status, &c.ShareToken,
			&c.CreatedAt, &c.UpdatedAt, &c.PropertyName,
		); err != nil {
			return nil, fmt.Errorf("scanning feed changeover: %w", err)
		}
		entries = append(entries, c)
	}

	return entries, rows.Err()
}

// UpdateDates moves a changeover to new check-in/check-out dates. Status
// and share token are deliberately left untouched; this is the only field
// change calendar sync performs on existing records.
func (r *ChangeoverRepository) UpdateDates(ctx context.Context, id string, checkin, checkout time.Time) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE changeovers SET checkin_date = ?, checkout_date = ?, updated_at = ?
		WHERE id = ?
	`, checkin, checkout, r.Now(), id)

	if err != nil {
		return fmt.Errorf("updating changeover dates: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("changeover not found: %s", id)
	}

	return nil
}

// UpdateStatus moves a changeover through its lifecycle
// (scheduled → in_progress → complete).
func (r *ChangeoverRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE changeovers SET status = ?, updated_at = ? WHERE id = ?
	`, status, r.Now(), id)

	if err != nil {
		return fmt.Errorf("updating changeover status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("changeover not found: %s", id)
	}

	return nil
}

// Delete removes a changeover and, via cascade, its findings.
func (r *ChangeoverRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM changeovers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting changeover: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("changeover not found: %s", id)
	}

	return nil
}
