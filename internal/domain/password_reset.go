package domain

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset is a single-use reset challenge. Only the SHA-256 digest of
// the emailed secret is stored; the plaintext never touches the database.
type PasswordReset struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	TokenHash []byte    `db:"token_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}
