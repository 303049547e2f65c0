package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pairing-service/internal/models"
	"pairing-service/internal/repositories"
	"pairing-service/internal/telemetry"
)

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) SendRequest(ctx context.Context, ownerID, targetID string) (models.FriendEdge, error) {
	args := m.Called(ctx, ownerID, targetID)
	var edge models.FriendEdge
	if val := args.Get(0); val != nil {
		edge = val.(models.FriendEdge)
	}
	return edge, args.Error(1)
}

func (m *FriendRepositoryMock) AcceptRequest(ctx context.Context, acceptorID, requesterID string) error {
	args := m.Called(ctx, acceptorID, requesterID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) RejectRequest(ctx context.Context, acceptorID, requesterID string) error {
	args := m.Called(ctx, acceptorID, requesterID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) RemoveFriend(ctx context.Context, userID, friendID string) (int64, error) {
	args := m.Called(ctx, userID, friendID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *FriendRepositoryMock) ListFriends(ctx context.Context, userID string) ([]models.FriendProfile, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendProfile
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendProfile)
	}
	return list, args.Error(1)
}

func (m *FriendRepositoryMock) ListIncomingRequests(ctx context.Context, userID string) ([]models.FriendProfile, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendProfile
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendProfile)
	}
	return list, args.Error(1)
}

func (m *FriendRepositoryMock) ListOutgoingRequests(ctx context.Context, userID string) ([]models.FriendProfile, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendProfile
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendProfile)
	}
	return list, args.Error(1)
}

func (m *FriendRepositoryMock) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	args := m.Called(ctx, userID, friendID)
	return args.Bool(0), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, email, nickname, password, socialHandle string) (models.User, error) {
	args := m.Called(ctx, email, nickname, password, socialHandle)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) VerifyPassword(ctx context.Context, email, password string) (models.User, error) {
	args := m.Called(ctx, email, password)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdateSocialHandle(ctx context.Context, userID, handle string) error {
	args := m.Called(ctx, userID, handle)
	return args.Error(0)
}

func (m *UserRepositoryMock) Stats(ctx context.Context) (models.UserStats, error) {
	args := m.Called(ctx)
	var stats models.UserStats
	if val := args.Get(0); val != nil {
		stats = val.(models.UserStats)
	}
	return stats, args.Error(1)
}

type TokenRepositoryMock struct {
	mock.Mock
}

func (m *TokenRepositoryMock) Issue(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *TokenRepositoryMock) Verify(ctx context.Context, token string) (models.User, error) {
	args := m.Called(ctx, token)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *TokenRepositoryMock) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// EmitterMock records events pushed toward the transport adapter.
type EmitterMock struct {
	mock.Mock
}

func (m *EmitterMock) EmitTo(connectionID string, event string, payload any) error {
	args := m.Called(connectionID, event, payload)
	return args.Error(0)
}

func (m *EmitterMock) Broadcast(event string, payload any) {
	m.Called(event, payload)
}

// PublisherMock stands in for the broker-backed event publisher.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ repositories.FriendRepository = (*FriendRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.TokenRepository = (*TokenRepositoryMock)(nil)
var _ telemetry.Publisher = (*PublisherMock)(nil)
