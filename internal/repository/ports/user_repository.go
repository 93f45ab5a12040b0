package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/devhaven/account-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, name, email string, passwordHash []byte) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, photoURL, phone, bio *string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) error
}
