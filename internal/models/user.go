package models

import (
	"database/sql"
	"time"
)

// User is a persistent account row.
type User struct {
	ID           string         `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Nickname     string         `db:"nickname" json:"nickname"`
	PasswordHash string         `db:"password_hash" json:"-"`
	SocialHandle sql.NullString `db:"social_handle" json:"social_handle,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	LastLogin    sql.NullTime   `db:"last_login" json:"last_login,omitempty"`
}

// UserStats aggregates account activity counts.
type UserStats struct {
	TotalUsers    int `db:"total_users" json:"total_users"`
	ActiveUsers7d int `db:"active_users_7d" json:"active_users_7d"`
	ActiveUsers30 int `db:"active_users_30d" json:"active_users_30d"`
}
