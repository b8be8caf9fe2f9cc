package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// FeedTokenRepository stores the per-owner capability tokens that guard
// the outbound calendar feed.
type FeedTokenRepository struct {
	BaseRepository
}

// NewFeedTokenRepository creates a new feed token repository.
func NewFeedTokenRepository(db *DB) *FeedTokenRepository {
	return &FeedTokenRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetOrCreate returns the owner's feed token, minting one on first use.
func (r *FeedTokenRepository) GetOrCreate(ctx context.Context, ownerID string) (string, error) {
	var token string
	err := r.DB().QueryRowContext(ctx,
		"SELECT token FROM feed_tokens WHERE owner_id = ?", ownerID).Scan(&token)

	if err == nil {
		return token, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("querying feed token: %w", err)
	}

	token = GenerateID()
	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO feed_tokens (owner_id, token) VALUES (?, ?)
	`, ownerID, token)
	if err != nil {
		return "", fmt.Errorf("inserting feed token: %w", err)
	}

	return token, nil
}

// Rotate replaces the owner's feed token, invalidating any previously
// shared feed URLs.
func (r *FeedTokenRepository) Rotate(ctx context.Context, ownerID string) (string, error) {
	token := GenerateID()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO feed_tokens (owner_id, token, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner_id) DO UPDATE SET token = excluded.token, updated_at = CURRENT_TIMESTAMP
	`, ownerID, token)
	if err != nil {
		return "", fmt.Errorf("rotating feed token: %w", err)
	}

	return token, nil
}

// Validate reports whether token is the owner's current feed token.
func (r *FeedTokenRepository) Validate(ctx context.Context, ownerID, token string) (bool, error) {
	var stored string
	err := r.DB().QueryRowContext(ctx,
		"SELECT token FROM feed_tokens WHERE owner_id = ?", ownerID).Scan(&stored)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying feed token: %w", err)
	}

	return stored == token, nil
}
