package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pairing-service/internal/models"
)

var (
	ErrSelfFriend       = errors.New("cannot friend yourself")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrDuplicateRequest = errors.New("friend request already exists")
	ErrNoPendingRequest = errors.New("no pending friend request")
)

// FriendRepository manages directed friend edges. An accepted friendship
// is always a pair of rows, one per direction.
type FriendRepository interface {
	SendRequest(ctx context.Context, ownerID, targetID string) (models.FriendEdge, error)
	AcceptRequest(ctx context.Context, acceptorID, requesterID string) error
	RejectRequest(ctx context.Context, acceptorID, requesterID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) (int64, error)
	ListFriends(ctx context.Context, userID string) ([]models.FriendProfile, error)
	ListIncomingRequests(ctx context.Context, userID string) ([]models.FriendProfile, error)
	ListOutgoingRequests(ctx context.Context, userID string) ([]models.FriendProfile, error)
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// SendRequest creates a pending edge owner→target.
func (r *FriendRepo) SendRequest(ctx context.Context, ownerID, targetID string) (models.FriendEdge, error) {
	if ownerID == targetID {
		return models.FriendEdge{}, ErrSelfFriend
	}

	accepted, err := r.AreFriends(ctx, ownerID, targetID)
	if err != nil {
		return models.FriendEdge{}, err
	}
	if accepted {
		return models.FriendEdge{}, ErrAlreadyFriends
	}

	var edge models.FriendEdge
	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO friends (id, owner_id, target_id, status)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (owner_id, target_id) DO NOTHING
         RETURNING id, owner_id, target_id, status, created_at, updated_at`,
		uuid.NewString(), ownerID, targetID, models.FriendStatusPending,
	).StructScan(&edge)
	if errors.Is(err, sql.ErrNoRows) {
		// No row returned means an edge owner→target already exists.
		return models.FriendEdge{}, ErrDuplicateRequest
	}
	if err != nil {
		return models.FriendEdge{}, err
	}
	return edge, nil
}

// AcceptRequest flips requester→acceptor to accepted and inserts the
// reciprocal accepted edge, both inside one transaction so concurrent
// accepts cannot leave a half-formed friendship.
func (r *FriendRepo) AcceptRequest(ctx context.Context, acceptorID, requesterID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE friends SET status=$1, updated_at=NOW()
         WHERE owner_id=$2 AND target_id=$3 AND status=$4`,
		models.FriendStatusAccepted, requesterID, acceptorID, models.FriendStatusPending)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoPendingRequest
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO friends (id, owner_id, target_id, status)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (owner_id, target_id) DO UPDATE SET status=EXCLUDED.status, updated_at=NOW()`,
		uuid.NewString(), acceptorID, requesterID, models.FriendStatusAccepted); err != nil {
		return err
	}

	return tx.Commit()
}

// RejectRequest deletes the pending edge requester→acceptor.
func (r *FriendRepo) RejectRequest(ctx context.Context, acceptorID, requesterID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM friends WHERE owner_id=$1 AND target_id=$2 AND status=$3`,
		requesterID, acceptorID, models.FriendStatusPending)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoPendingRequest
	}
	return nil
}

// RemoveFriend deletes both directions regardless of status and reports
// how many rows went away. Idempotent.
func (r *FriendRepo) RemoveFriend(ctx context.Context, userID, friendID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM friends
         WHERE (owner_id=$1 AND target_id=$2) OR (owner_id=$2 AND target_id=$1)`,
		userID, friendID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListFriends returns accepted targets joined with their profile.
func (r *FriendRepo) ListFriends(ctx context.Context, userID string) ([]models.FriendProfile, error) {
	var friends []models.FriendProfile
	err := r.db.SelectContext(ctx, &friends,
		`SELECT u.id, u.nickname, u.social_handle, f.created_at
         FROM friends f JOIN users u ON f.target_id = u.id
         WHERE f.owner_id=$1 AND f.status=$2
         ORDER BY f.created_at DESC`, userID, models.FriendStatusAccepted)
	return friends, err
}

// ListIncomingRequests returns owners of pending edges targeting the user.
func (r *FriendRepo) ListIncomingRequests(ctx context.Context, userID string) ([]models.FriendProfile, error) {
	var requests []models.FriendProfile
	err := r.db.SelectContext(ctx, &requests,
		`SELECT u.id, u.nickname, u.social_handle, f.created_at
         FROM friends f JOIN users u ON f.owner_id = u.id
         WHERE f.target_id=$1 AND f.status=$2
         ORDER BY f.created_at DESC`, userID, models.FriendStatusPending)
	return requests, err
}

// ListOutgoingRequests returns targets of pending edges owned by the user.
func (r *FriendRepo) ListOutgoingRequests(ctx context.Context, userID string) ([]models.FriendProfile, error) {
	var requests []models.FriendProfile
	err := r.db.SelectContext(ctx, &requests,
		`SELECT u.id, u.nickname, u.social_handle, f.created_at
         FROM friends f JOIN users u ON f.target_id = u.id
         WHERE f.owner_id=$1 AND f.status=$2
         ORDER BY f.created_at DESC`, userID, models.FriendStatusPending)
	return requests, err
}

// AreFriends reports whether a symmetric accepted relationship exists.
func (r *FriendRepo) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM friends
         WHERE ((owner_id=$1 AND target_id=$2) OR (owner_id=$2 AND target_id=$1))
         AND status=$3`, userID, friendID, models.FriendStatusAccepted)
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return count == 2, nil
}
