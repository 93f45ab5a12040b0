package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/devhaven/account-api/internal/domain"
	"github.com/devhaven/account-api/internal/media"
	"github.com/devhaven/account-api/internal/repository/ports"
	"github.com/devhaven/account-api/internal/util"
)

const MinPasswordLength = 3

var (
	ErrMissingFields      = errors.New("please fill in all required fields")
	ErrInvalidEmail       = errors.New("please enter a valid email")
	ErrPasswordTooShort   = errors.New("password must be at least 3 characters")
	ErrEmailAlreadyUsed   = errors.New("email has already been registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("old password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrBioTooLong         = errors.New("bio should not exceed 250 characters")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrNotAuthorized      = errors.New("not authorized, please login")
	ErrMailDelivery       = errors.New("password reset email not sent, please try again")
)

var emailPattern = regexp.MustCompile(`^[\w-.]+@([\w-]+\.)+[\w-]{2,4}$`)

// PasswordResetSender delivers the reset link out-of-band.
type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// AuthResult is what credential-issuing operations hand back to transport.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// ProfilePatch carries optional replacements for mutable profile fields.
// A nil pointer means "leave unchanged"; a pointer to the empty string is an
// explicit overwrite. Email is not patchable by design.
type ProfilePatch struct {
	Name  *string
	Photo *string
	Phone *string
	Bio   *string
}

// ProfileImage is an uploaded avatar, processed and stored when present.
type ProfileImage struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type AuthService struct {
	users     ports.UserRepository
	resets    ports.PasswordResetRepository
	storage   ports.ObjectStorage
	processor media.Processor
	mailer    PasswordResetSender
	tokens    *util.TokenManager

	avatarBucket    string
	frontendBaseURL string
	resetTTL        time.Duration
}

func NewAuthService(
	users ports.UserRepository,
	resets ports.PasswordResetRepository,
	storage ports.ObjectStorage,
	processor media.Processor,
	mailer PasswordResetSender,
	tokens *util.TokenManager,
	avatarBucket string,
	frontendBaseURL string,
	resetTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:           users,
		resets:          resets,
		storage:         storage,
		processor:       processor,
		mailer:          mailer,
		tokens:          tokens,
		avatarBucket:    avatarBucket,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		resetTTL:        resetTTL,
	}
}

// Register creates an account and immediately issues a session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	digest, err := util.DerivePassword(password)
	if err != nil {
		return nil, fmt.Errorf("derive password: %w", err)
	}

	user, err := s.users.Create(ctx, name, email, digest)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueSession(user)
}

// Login verifies credentials and only then issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	// No stored password is ever this short, so skip the lookup. The error
	// stays indistinct from a failed verification.
	if len(password) < MinPasswordLength {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !util.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// Authenticate resolves a session token to its user. Every failure collapses
// to ErrNotAuthorized so callers cannot probe which step rejected them.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrNotAuthorized
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrNotAuthorized
	}
	return user, nil
}

// LoginStatus reports whether a token is currently valid. It never errors and
// has no side effects.
func (s *AuthService) LoginStatus(token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	_, err := s.tokens.Parse(token)
	return err == nil
}

// UpdateProfile applies the patch to the user's mutable fields. An uploaded
// image takes precedence over a photo URL supplied in the patch.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch, image *ProfileImage) (*domain.User, error) {
	if patch.Bio != nil && utf8.RuneCountInString(*patch.Bio) > domain.MaxBioLength {
		return nil, ErrBioTooLong
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}

	if image != nil {
		url, err := s.storeAvatar(ctx, userID, image)
		if err != nil {
			return nil, err
		}
		patch.Photo = &url
	}

	user, err := s.users.UpdateProfile(ctx, userID, patch.Name, patch.Photo, patch.Phone, patch.Bio)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword swaps the stored digest after verifying the old password.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingFields
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return ErrNotAuthorized
	}
	if !util.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	digest, err := util.DerivePassword(newPassword)
	if err != nil {
		return fmt.Errorf("derive password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, digest); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// RequestPasswordReset replaces any live challenge for the user with a fresh
// one and emails the reset link. The challenge is not rolled back when the
// mail bounces; the caller may simply retry.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return ErrUserNotFound
	}

	if err := s.resets.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete previous reset challenge: %w", err)
	}

	secret, hash, err := util.NewResetSecret(user.ID)
	if err != nil {
		return fmt.Errorf("issue reset secret: %w", err)
	}
	if _, err := s.resets.Create(ctx, user.ID, hash, time.Now().Add(s.resetTTL)); err != nil {
		return fmt.Errorf("store reset challenge: %w", err)
	}

	resetURL := fmt.Sprintf("%s/resetpassword/%s", s.frontendBaseURL, secret)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// ResetPassword redeems a challenge secret. The consumed challenge is deleted
// in the same call as the password update, so a secret cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, secret, newPassword string) error {
	if strings.TrimSpace(secret) == "" {
		return ErrResetTokenInvalid
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	reset, err := s.resets.FindByTokenHash(ctx, util.HashResetSecret(secret), time.Now())
	if err != nil {
		return ErrResetTokenInvalid
	}
	if time.Now().After(reset.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	digest, err := util.DerivePassword(newPassword)
	if err != nil {
		return fmt.Errorf("derive password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, reset.UserID, digest); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.resets.Delete(ctx, reset.ID); err != nil {
		return fmt.Errorf("consume reset challenge: %w", err)
	}
	return nil
}

func (s *AuthService) issueSession(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) storeAvatar(ctx context.Context, userID uuid.UUID, image *ProfileImage) (string, error) {
	upload := media.Upload{
		Reader:      image.Reader,
		Size:        image.Size,
		FileName:    image.FileName,
		ContentType: image.ContentType,
	}
	processed, err := s.processor.Process(ctx, upload, media.DefaultMaxDimension)
	if err != nil {
		return "", fmt.Errorf("process avatar: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(image.FileName))
	if ext == "" {
		ext = ".jpg"
	}
	objectName := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := s.storage.Upload(ctx, s.avatarBucket, objectName, processed.ContentType,
		bytes.NewReader(processed.Bytes), int64(len(processed.Bytes)))
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	return url, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
