package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPhotoURL = "https://i.ibb.co/4pDNDk1/avatar.png"
	DefaultPhone    = "+91-"
	DefaultBio      = "Bio - "

	MaxBioLength = 250
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	PhotoURL     string    `db:"photo_url" json:"photo"`
	Phone        string    `db:"phone" json:"phone"`
	Bio          string    `db:"bio" json:"bio"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
