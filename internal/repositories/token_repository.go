package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/jmoiron/sqlx"

	"pairing-service/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenRepository mints and verifies opaque bearer tokens.
type TokenRepository interface {
	Issue(ctx context.Context, userID string) (string, error)
	Verify(ctx context.Context, token string) (models.User, error)
	Revoke(ctx context.Context, token string) error
}

// TokenRepo stores tokens in the auth_tokens table.
type TokenRepo struct {
	db *sqlx.DB
}

// NewTokenRepo constructs a TokenRepo.
func NewTokenRepo(db *sqlx.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Issue mints a random token bound to the user.
func (r *TokenRepo) Issue(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, user_id) VALUES ($1, $2)`, token, userID); err != nil {
		return "", err
	}
	return token, nil
}

// Verify resolves a token to its account.
func (r *TokenRepo) Verify(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrInvalidToken
	}
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT u.id, u.email, u.nickname, u.password_hash, u.social_handle, u.created_at, u.last_login
         FROM auth_tokens t JOIN users u ON t.user_id = u.id
         WHERE t.token=$1`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrInvalidToken
	}
	return user, err
}

// Revoke deletes the token. No-op when absent.
func (r *TokenRepo) Revoke(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token=$1`, token)
	return err
}
