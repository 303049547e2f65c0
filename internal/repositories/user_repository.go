package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"pairing-service/internal/models"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository is the identity store.
type UserRepository interface {
	CreateUser(ctx context.Context, email, nickname, password, socialHandle string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (models.User, error)
	UpdateSocialHandle(ctx context.Context, userID, handle string) error
	Stats(ctx context.Context) (models.UserStats, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a new account with a bcrypt password hash.
func (r *UserRepo) CreateUser(ctx context.Context, email, nickname, password, socialHandle string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	var handle sql.NullString
	if h := strings.TrimSpace(socialHandle); h != "" {
		handle = sql.NullString{String: h, Valid: true}
	}

	var user models.User
	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO users (id, email, nickname, password_hash, social_handle)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, email, nickname, password_hash, social_handle, created_at, last_login`,
		uuid.NewString(), strings.ToLower(strings.TrimSpace(email)), nickname, string(hash), handle,
	).StructScan(&user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	return user, nil
}

// GetByEmail fetches an account by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, nickname, password_hash, social_handle, created_at, last_login
         FROM users WHERE email=$1`, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, nickname, password_hash, social_handle, created_at, last_login
         FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// VerifyPassword checks credentials and touches last_login on success.
func (r *UserRepo) VerifyPassword(ctx context.Context, email, password string) (models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id=$1`, user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateSocialHandle sets or clears the account's social handle.
func (r *UserRepo) UpdateSocialHandle(ctx context.Context, userID, handle string) error {
	var value sql.NullString
	if h := strings.TrimSpace(handle); h != "" {
		value = sql.NullString{String: h, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET social_handle=$1 WHERE id=$2`, value, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Stats returns account totals and recent-activity counts.
func (r *UserRepo) Stats(ctx context.Context) (models.UserStats, error) {
	var stats models.UserStats
	err := r.db.GetContext(ctx, &stats,
		`SELECT COUNT(*) AS total_users,
                COUNT(CASE WHEN last_login > NOW() - INTERVAL '7 days' THEN 1 END) AS active_users_7d,
                COUNT(CASE WHEN last_login > NOW() - INTERVAL '30 days' THEN 1 END) AS active_users_30d
         FROM users`)
	return stats, err
}
