package models

import "time"

// Friend edge statuses.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// FriendEdge is one directed relationship row. A friendship is the
// co-existence of both directions in accepted state.
type FriendEdge struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	TargetID  string    `db:"target_id" json:"target_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FriendProfile is a friend-list row joined with the target's profile.
type FriendProfile struct {
	UserID       string    `db:"id" json:"user_id"`
	Nickname     string    `db:"nickname" json:"nickname"`
	SocialHandle *string   `db:"social_handle" json:"social_handle,omitempty"`
	Since        time.Time `db:"created_at" json:"since"`
}
