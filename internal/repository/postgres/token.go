package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/repository"
)

func (r *tokenRepository) StoreResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	// One live token per user; a new request replaces any prior one.
	query := `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token_hash = EXCLUDED.token_hash, expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.ExecContext(ctx, query, userID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

func (r *tokenRepository) ConsumeResetToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	query := `
		DELETE FROM password_reset_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
		RETURNING user_id
	`
	var userID uuid.UUID
	err := r.db.GetContext(ctx, &userID, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, repository.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}
