package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pairing-service/internal/mocks"
	"pairing-service/internal/models"
)

type recordedEvent struct {
	Event   string
	Payload any
}

type fakeEmitter struct {
	mu        sync.Mutex
	sent      map[string][]recordedEvent
	broadcast []recordedEvent
	dead      map[string]bool
}

func newFakeEmitter() *fakeEmitter {
	return &fakeEmitter{sent: make(map[string][]recordedEvent), dead: make(map[string]bool)}
}

func (f *fakeEmitter) EmitTo(connectionID string, event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dead[connectionID] {
		return fmt.Errorf("connection gone: %s", connectionID)
	}
	f.sent[connectionID] = append(f.sent[connectionID], recordedEvent{Event: event, Payload: payload})
	return nil
}

func (f *fakeEmitter) Broadcast(event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcast = append(f.broadcast, recordedEvent{Event: event, Payload: payload})
}

func (f *fakeEmitter) eventsFor(connID string) []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedEvent(nil), f.sent[connID]...)
}

func newTestService(emitter Emitter, groupSize int) *Service {
	return NewService(NewMemoryPool(), NewMemoryRegistry(), emitter, groupSize)
}

func joinPayload(nickname string) models.JoinWaitingPayload {
	return models.JoinWaitingPayload{Nickname: nickname}
}

func TestJoinRequiresNickname(t *testing.T) {
	svc := newTestService(newFakeEmitter(), 2)

	err := svc.Join("c1", joinPayload("   "), "")
	require.ErrorIs(t, err, ErrValidation)

	err = svc.Join("c1", joinPayload("this nickname is far too long to accept"), "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestJoinPairsTwoParticipants(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), ""))
	require.NoError(t, svc.Join("ploy", joinPayload("Ploy"), ""))

	participants, sessions := svc.Counts()
	assert.Equal(t, 2, participants)
	assert.Equal(t, 1, sessions)

	var mintSession, ploySession *models.Session
	for _, ev := range emitter.eventsFor("mint") {
		if ev.Event == models.EventUserPaired {
			mintSession = ev.Payload.(models.UserPairedPayload).Session
		}
	}
	for _, ev := range emitter.eventsFor("ploy") {
		if ev.Event == models.EventUserPaired {
			ploySession = ev.Payload.(models.UserPairedPayload).Session
		}
	}
	require.NotNil(t, mintSession)
	require.NotNil(t, ploySession)
	assert.Equal(t, mintSession.ID, ploySession.ID)
	assert.Len(t, mintSession.Members, 2)
	assert.Len(t, mintSession.Questions, 6)
	assert.NotEmpty(t, mintSession.Activity)
}

func TestJoinManyLeavesAtMostOneWaiting(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	const n = 7
	for i := 0; i < n; i++ {
		connID := fmt.Sprintf("conn-%d", i)
		require.NoError(t, svc.Join(connID, joinPayload(fmt.Sprintf("p%d", i)), ""))
	}

	_, sessions := svc.Counts()
	assert.Equal(t, n/2, sessions)

	waiting := 0
	for _, entry := range svc.WaitingList() {
		if entry.Status == models.WaitingStatusWaiting {
			waiting++
		}
	}
	assert.LessOrEqual(t, waiting, 1)
}

func TestNoEntryBelongsToTwoSessions(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	for i := 0; i < 8; i++ {
		require.NoError(t, svc.Join(fmt.Sprintf("conn-%d", i), joinPayload(fmt.Sprintf("p%d", i)), ""))
	}

	seen := map[string]int{}
	for i := 0; i < 8; i++ {
		connID := fmt.Sprintf("conn-%d", i)
		for _, ev := range emitter.eventsFor(connID) {
			if ev.Event == models.EventUserPaired {
				seen[connID]++
			}
		}
	}
	for connID, count := range seen {
		assert.Equal(t, 1, count, "connection %s paired more than once", connID)
	}
}

func TestSubmitAnswerRelaysToPartnerOnly(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), ""))
	require.NoError(t, svc.Join("ploy", joinPayload("Ploy"), ""))
	require.NoError(t, svc.Join("bystander", joinPayload("Bee"), ""))

	var sessionID string
	for _, ev := range emitter.eventsFor("mint") {
		if ev.Event == models.EventUserPaired {
			sessionID = ev.Payload.(models.UserPairedPayload).Session.ID
		}
	}
	require.NotEmpty(t, sessionID)

	require.NoError(t, svc.SubmitAnswer("mint", models.SubmitAnswerPayload{
		SessionID:     sessionID,
		QuestionIndex: 2,
		Answer:        "เชียงใหม่",
	}))

	var relayed *models.ReceiveAnswerPayload
	for _, ev := range emitter.eventsFor("ploy") {
		if ev.Event == models.EventReceiveAnswer {
			payload := ev.Payload.(models.ReceiveAnswerPayload)
			relayed = &payload
		}
	}
	require.NotNil(t, relayed)
	assert.Equal(t, "mint", relayed.UserID)
	assert.Equal(t, "เชียงใหม่", relayed.Answer)
	assert.Equal(t, 2, relayed.QuestionIndex)

	for _, ev := range emitter.eventsFor("bystander") {
		assert.NotEqual(t, models.EventReceiveAnswer, ev.Event)
	}
	// The sender never receives their own relay.
	for _, ev := range emitter.eventsFor("mint") {
		assert.NotEqual(t, models.EventReceiveAnswer, ev.Event)
	}
}

func TestSubmitAnswerErrors(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), ""))
	require.NoError(t, svc.Join("ploy", joinPayload("Ploy"), ""))

	var sessionID string
	for _, ev := range emitter.eventsFor("mint") {
		if ev.Event == models.EventUserPaired {
			sessionID = ev.Payload.(models.UserPairedPayload).Session.ID
		}
	}

	err := svc.SubmitAnswer("mint", models.SubmitAnswerPayload{SessionID: "missing", Answer: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = svc.SubmitAnswer("stranger", models.SubmitAnswerPayload{SessionID: sessionID, Answer: "hi"})
	assert.ErrorIs(t, err, ErrNotMember)

	err = svc.SubmitAnswer("mint", models.SubmitAnswerPayload{SessionID: sessionID, Answer: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitActivityAnswerCarriesFileURL(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), ""))
	require.NoError(t, svc.Join("ploy", joinPayload("Ploy"), ""))

	var sessionID string
	for _, ev := range emitter.eventsFor("ploy") {
		if ev.Event == models.EventUserPaired {
			sessionID = ev.Payload.(models.UserPairedPayload).Session.ID
		}
	}

	require.NoError(t, svc.SubmitActivityAnswer("ploy", models.SubmitActivityAnswerPayload{
		SessionID: sessionID,
		Answer:    "done!",
		FileURL:   "/uploads/selfie.jpg",
	}))

	var relayed *models.ReceiveActivityAnswerPayload
	for _, ev := range emitter.eventsFor("mint") {
		if ev.Event == models.EventReceiveActivityAnswer {
			payload := ev.Payload.(models.ReceiveActivityAnswerPayload)
			relayed = &payload
		}
	}
	require.NotNil(t, relayed)
	assert.Equal(t, "ploy", relayed.UserID)
	assert.Equal(t, "/uploads/selfie.jpg", relayed.FileURL)
}

func TestRelayDropsSilentlyWhenRecipientGone(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), ""))
	require.NoError(t, svc.Join("ploy", joinPayload("Ploy"), ""))

	var sessionID string
	for _, ev := range emitter.eventsFor("mint") {
		if ev.Event == models.EventUserPaired {
			sessionID = ev.Payload.(models.UserPairedPayload).Session.ID
		}
	}

	emitter.mu.Lock()
	emitter.dead["ploy"] = true
	emitter.mu.Unlock()

	// The sender still succeeds.
	err := svc.SubmitAnswer("mint", models.SubmitAnswerPayload{SessionID: sessionID, Answer: "hello"})
	assert.NoError(t, err)
}

func TestStartNewGameDestroysSession(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), ""))
	require.NoError(t, svc.Join("ploy", joinPayload("Ploy"), ""))

	var sessionID string
	for _, ev := range emitter.eventsFor("mint") {
		if ev.Event == models.EventUserPaired {
			sessionID = ev.Payload.(models.UserPairedPayload).Session.ID
		}
	}

	svc.StartNewGame("mint")

	err := svc.SubmitAnswer("ploy", models.SubmitAnswerPayload{SessionID: sessionID, Answer: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLeaveBroadcastsUpdatedList(t *testing.T) {
	emitter := new(mocks.EmitterMock)
	emitter.On("Broadcast", models.EventUsersUpdated, mock.Anything).Return()
	svc := newTestService(emitter, 2)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), "")) // one broadcast
	svc.Leave("mint")                                            // second broadcast
	svc.Leave("mint")                                            // absent: no broadcast

	emitter.AssertNumberOfCalls(t, "Broadcast", 2)
	emitter.AssertNotCalled(t, "EmitTo", mock.Anything, mock.Anything, mock.Anything)
}

func TestPartnerUserID(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 2)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), "user-mint"))
	require.NoError(t, svc.Join("ploy", joinPayload("Ploy"), ""))

	var sessionID string
	for _, ev := range emitter.eventsFor("mint") {
		if ev.Event == models.EventUserPaired {
			sessionID = ev.Payload.(models.UserPairedPayload).Session.ID
		}
	}

	// Ploy's partner is Mint, who has an account.
	partnerID, err := svc.PartnerUserID(sessionID, "ploy", "")
	require.NoError(t, err)
	assert.Equal(t, "user-mint", partnerID)

	// Mint's partner is anonymous.
	partnerID, err = svc.PartnerUserID(sessionID, "mint", "")
	require.NoError(t, err)
	assert.Empty(t, partnerID)

	// Naming the co-member explicitly works too.
	partnerID, err = svc.PartnerUserID(sessionID, "ploy", "mint")
	require.NoError(t, err)
	assert.Equal(t, "user-mint", partnerID)

	_, err = svc.PartnerUserID(sessionID, "ploy", "ploy")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PartnerUserID(sessionID, "ploy", "stranger")
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = svc.PartnerUserID("missing", "mint", "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPartnerUserIDLargerGroupNeedsExplicitTarget(t *testing.T) {
	emitter := newFakeEmitter()
	svc := newTestService(emitter, 3)

	require.NoError(t, svc.Join("mint", joinPayload("Mint"), "user-mint"))
	require.NoError(t, svc.Join("ploy", joinPayload("Ploy"), "user-ploy"))
	require.NoError(t, svc.Join("nam", joinPayload("Nam"), ""))

	var sessionID string
	for _, ev := range emitter.eventsFor("nam") {
		if ev.Event == models.EventUserPaired {
			sessionID = ev.Payload.(models.UserPairedPayload).Session.ID
		}
	}
	require.NotEmpty(t, sessionID)

	// Ambiguous without a target connection in a three-member session.
	_, err := svc.PartnerUserID(sessionID, "nam", "")
	assert.ErrorIs(t, err, ErrValidation)

	partnerID, err := svc.PartnerUserID(sessionID, "nam", "ploy")
	require.NoError(t, err)
	assert.Equal(t, "user-ploy", partnerID)
}
