package http

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"

	"github.com/devhaven/account-api/internal/domain"
	"github.com/devhaven/account-api/internal/media"
	"github.com/devhaven/account-api/internal/service"
	"github.com/devhaven/account-api/internal/util"
)

// memUserRepo is a map-backed stand-in for the postgres user repository.
type memUserRepo struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	repo := &memUserRepo{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
	for _, u := range users {
		repo.put(u)
	}
	return repo
}

func (r *memUserRepo) put(u *domain.User) {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
}

func (r *memUserRepo) Create(ctx context.Context, name, email string, passwordHash []byte) (*domain.User, error) {
	if _, exists := r.byEmail[email]; exists {
		return nil, &pgconn.PgError{Code: "23505", ConstraintName: "user_account_email_key"}
	}
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: append([]byte(nil), passwordHash...),
		PhotoURL:     domain.DefaultPhotoURL,
		Phone:        domain.DefaultPhone,
		Bio:          domain.DefaultBio,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.put(user)
	return cloneUser(user), nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return cloneUser(user), nil
	}
	return nil, sql.ErrNoRows
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := r.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, sql.ErrNoRows
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, photoURL, phone, bio *string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if name != nil {
		user.Name = *name
	}
	if photoURL != nil {
		user.PhotoURL = *photoURL
	}
	if phone != nil {
		user.Phone = *phone
	}
	if bio != nil {
		user.Bio = *bio
	}
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) error {
	user, ok := r.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.PasswordHash = append([]byte(nil), passwordHash...)
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &clone
}

type memResetRepo struct {
	nextID int64
	rows   []domain.PasswordReset
}

func (r *memResetRepo) Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordReset, error) {
	r.nextID++
	row := domain.PasswordReset{
		ID:        r.nextID,
		UserID:    userID,
		TokenHash: append([]byte(nil), tokenHash...),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	r.rows = append(r.rows, row)
	clone := row
	return &clone, nil
}

func (r *memResetRepo) FindByTokenHash(ctx context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error) {
	for i := range r.rows {
		if string(r.rows[i].TokenHash) == string(tokenHash) && r.rows[i].ExpiresAt.After(now) {
			clone := r.rows[i]
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memResetRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *memResetRepo) Delete(ctx context.Context, id int64) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type stubStorage struct{}

func (stubStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	return "https://storage/" + objectName, nil
}

type stubProcessor struct{}

func (stubProcessor) Process(ctx context.Context, upload media.Upload, maxDimension int) (*media.Result, error) {
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, err
	}
	return &media.Result{Bytes: data, ContentType: upload.ContentType}, nil
}

type recordingMailer struct {
	sent []struct {
		email string
		url   string
	}
	err error
}

func (m *recordingMailer) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	m.sent = append(m.sent, struct {
		email string
		url   string
	}{email: email, url: resetURL})
	return m.err
}

type testEnv struct {
	e      *echo.Echo
	svc    *service.AuthService
	users  *memUserRepo
	resets *memResetRepo
	mailer *recordingMailer
}

func newTestEnv(users *memUserRepo) *testEnv {
	if users == nil {
		users = newMemUserRepo()
	}
	resets := &memResetRepo{}
	mailer := &recordingMailer{}
	tokens := util.NewTokenManager("test-secret", 24*time.Hour)
	svc := service.NewAuthService(users, resets, stubStorage{}, stubProcessor{}, mailer, tokens,
		"avatars", "https://app.example.com", 30*time.Minute)

	e := echo.New()
	RegisterAuth(e, svc, AuthHandlerConfig{AvatarMaxBytes: 5 * 1024 * 1024})
	return &testEnv{e: e, svc: svc, users: users, resets: resets, mailer: mailer}
}

func mustUser(email, password string) *domain.User {
	digest, err := util.DerivePassword(password)
	if err != nil {
		panic(err)
	}
	return &domain.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: digest,
		PhotoURL:     domain.DefaultPhotoURL,
		Phone:        domain.DefaultPhone,
		Bio:          domain.DefaultBio,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}
