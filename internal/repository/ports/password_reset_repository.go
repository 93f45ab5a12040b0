package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/devhaven/account-api/internal/domain"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordReset, error)
	FindByTokenHash(ctx context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id int64) error
}
