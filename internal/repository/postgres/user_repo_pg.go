package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/devhaven/account-api/internal/domain"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account. Email uniqueness is enforced by the table's
// unique constraint; callers detect the duplicate via pg error code 23505.
func (r *UserRepository) Create(ctx context.Context, name, email string, passwordHash []byte) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (name, email, password_hash, photo_url, phone, bio)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, name, email, password_hash, photo_url, phone, bio, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, name, email, passwordHash,
		domain.DefaultPhotoURL, domain.DefaultPhone, domain.DefaultBio)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, photo_url, phone, bio, created_at, updated_at
        FROM user_account
        WHERE email = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, photo_url, phone, bio, created_at, updated_at
        FROM user_account
        WHERE id = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile replaces only the fields whose pointers are non-nil. Email is
// deliberately not part of the statement.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, photoURL, phone, bio *string) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET name = COALESCE($2, name),
            photo_url = COALESCE($3, photo_url),
            phone = COALESCE($4, phone),
            bio = COALESCE($5, bio),
            updated_at = NOW()
        WHERE id = $1
        RETURNING id, name, email, password_hash, photo_url, phone, bio, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, id, name, photoURL, phone, bio)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) error {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, passwordHash)
	return err
}
