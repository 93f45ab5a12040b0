package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/devhaven/account-api/internal/domain"
)

type PasswordResetRepository struct {
	db *sqlx.DB
}

func NewPasswordResetRepo(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordReset, error) {
	const query = `
        INSERT INTO password_reset (user_id, token_hash, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, token_hash, created_at, expires_at
    `
	row := r.db.QueryRowxContext(ctx, query, userID, tokenHash, expiresAt)
	var reset domain.PasswordReset
	if err := row.StructScan(&reset); err != nil {
		return nil, err
	}
	return &reset, nil
}

// FindByTokenHash only returns live challenges; expired rows are invisible to
// callers and eventually cleaned up by retention jobs outside this service.
func (r *PasswordResetRepository) FindByTokenHash(ctx context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error) {
	const query = `
        SELECT id, user_id, token_hash, created_at, expires_at
        FROM password_reset
        WHERE token_hash = $1 AND expires_at > $2
        ORDER BY created_at DESC
        LIMIT 1
    `
	var reset domain.PasswordReset
	if err := r.db.GetContext(ctx, &reset, query, tokenHash, now); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *PasswordResetRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `DELETE FROM password_reset WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *PasswordResetRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM password_reset WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
