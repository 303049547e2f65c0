package game

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pairing-service/internal/models"
	"pairing-service/internal/observability"
)

const (
	maxNicknameLen     = 20
	maxSocialHandleLen = 100
)

// Emitter pushes events to websocket connections. Implemented by the ws
// hub; mocked in tests.
type Emitter interface {
	EmitTo(connectionID string, event string, payload any) error
	Broadcast(event string, payload any)
}

// Service owns the waiting pool, the matchmaker and the answer relay.
// All state mutation runs under one mutex, which stands in for the
// single-threaded dispatcher the protocol assumes: a connection can
// never be selected into two sessions.
type Service struct {
	mu        sync.Mutex
	pool      WaitingPool
	sessions  SessionRegistry
	emitter   Emitter
	groupSize int
	rng       *rand.Rand
}

// NewService wires the game service. Group sizes below 2 fall back to 2.
func NewService(pool WaitingPool, sessions SessionRegistry, emitter Emitter, groupSize int) *Service {
	if groupSize < 2 {
		groupSize = 2
	}
	return &Service{
		pool:      pool,
		sessions:  sessions,
		emitter:   emitter,
		groupSize: groupSize,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Join registers the connection in the waiting pool, fans out the
// updated list and opportunistically runs the matchmaker.
func (s *Service) Join(connectionID string, payload models.JoinWaitingPayload, userID string) error {
	nickname := strings.TrimSpace(payload.Nickname)
	if nickname == "" {
		return fmt.Errorf("%w: nickname is required", ErrValidation)
	}
	if len([]rune(nickname)) > maxNicknameLen {
		return fmt.Errorf("%w: nickname exceeds %d characters", ErrValidation, maxNicknameLen)
	}
	handle := strings.TrimSpace(payload.SocialHandle)
	if len([]rune(handle)) > maxSocialHandleLen {
		return fmt.Errorf("%w: social handle exceeds %d characters", ErrValidation, maxSocialHandleLen)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool.Add(models.WaitingEntry{
		ConnectionID: connectionID,
		UserID:       userID,
		Nickname:     nickname,
		SocialHandle: handle,
		JoinedAt:     time.Now(),
		Status:       models.WaitingStatusWaiting,
	})
	s.broadcastWaitingList()
	s.tryMatchLocked()
	return nil
}

// Leave removes the connection from the pool. No-op when absent.
func (s *Service) Leave(connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.pool.Remove(connectionID); ok {
		log.Printf("participant left: %s (%s)", entry.Nickname, connectionID)
		s.broadcastWaitingList()
	}
}

// StartNewGame drops the connection's pool entry and destroys any
// session it belongs to, then fans out the updated list.
func (s *Service) StartNewGame(connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, removed := s.pool.Remove(connectionID)
	for _, session := range s.sessions.SessionsFor(connectionID) {
		s.sessions.Delete(session.ID)
	}
	if removed {
		s.broadcastWaitingList()
	}
}

// SubmitAnswer records one ice-breaker answer and relays it to the
// session co-members only. A dead recipient is logged, never surfaced.
func (s *Service) SubmitAnswer(connectionID string, payload models.SubmitAnswerPayload) error {
	answer := strings.TrimSpace(payload.Answer)
	if answer == "" {
		return fmt.Errorf("%w: answer is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get(payload.SessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if !session.HasMember(connectionID) {
		return fmt.Errorf("%w: %s", ErrNotMember, connectionID)
	}

	if session.Answers[connectionID] == nil {
		session.Answers[connectionID] = make(map[int]string)
	}
	session.Answers[connectionID][payload.QuestionIndex] = answer

	s.relayLocked(session, connectionID, models.EventReceiveAnswer, models.ReceiveAnswerPayload{
		UserID:        connectionID,
		Answer:        answer,
		QuestionIndex: payload.QuestionIndex,
	})
	return nil
}

// SubmitActivityAnswer records the activity response and relays it to
// co-members. FileURL is carried as-is.
func (s *Service) SubmitActivityAnswer(connectionID string, payload models.SubmitActivityAnswerPayload) error {
	answer := strings.TrimSpace(payload.Answer)
	if answer == "" {
		return fmt.Errorf("%w: answer is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get(payload.SessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if !session.HasMember(connectionID) {
		return fmt.Errorf("%w: %s", ErrNotMember, connectionID)
	}

	session.ActivityAnswers[connectionID] = models.ActivityAnswer{Text: answer, FileURL: payload.FileURL}

	s.relayLocked(session, connectionID, models.EventReceiveActivityAnswer, models.ReceiveActivityAnswerPayload{
		UserID:  connectionID,
		Answer:  answer,
		FileURL: payload.FileURL,
	})
	return nil
}

// PartnerUserID returns the persistent user id of a co-member in the
// session, for in-session friend requests. Empty when the co-member is
// anonymous. partnerConnectionID names the wanted co-member; it may be
// omitted only in a two-member session, where the partner is implied.
func (s *Service) PartnerUserID(sessionID, connectionID, partnerConnectionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}
	if !session.HasMember(connectionID) {
		return "", fmt.Errorf("%w: %s", ErrNotMember, connectionID)
	}

	if partnerConnectionID != "" {
		if partnerConnectionID == connectionID {
			return "", fmt.Errorf("%w: cannot target yourself", ErrValidation)
		}
		for _, m := range session.Members {
			if m.ConnectionID == partnerConnectionID {
				return m.UserID, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrNotMember, partnerConnectionID)
	}

	if len(session.Members) != 2 {
		return "", fmt.Errorf("%w: partner connection id required", ErrValidation)
	}
	for _, m := range session.Members {
		if m.ConnectionID != connectionID {
			return m.UserID, nil
		}
	}
	return "", nil
}

// Counts reports current pool and session sizes.
func (s *Service) Counts() (participants int, sessions int) {
	return s.pool.Len(), s.sessions.Len()
}

// WaitingList returns every pool entry.
func (s *Service) WaitingList() []models.WaitingEntry {
	return s.pool.List()
}

// StartSweepers launches the pool and session cleanup tickers. The
// returned stop function halts both.
func (s *Service) StartSweepers(interval, waitingTTL, sessionTTL time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.sweep(waitingTTL, sessionTTL)
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}

func (s *Service) sweep(waitingTTL, sessionTTL time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := s.pool.Sweep(waitingTTL)
	evicted := s.sessions.Sweep(sessionTTL)
	if dropped > 0 {
		s.broadcastWaitingList()
	}
	if dropped > 0 || evicted > 0 {
		log.Printf("sweep: dropped %d stale participants, evicted %d sessions", dropped, evicted)
	}
}

// tryMatchLocked forms one session when enough participants wait. The
// whole waiting set is reshuffled on every attempt; the first groupSize
// entries win. Too few waiting is a silent no-op.
func (s *Service) tryMatchLocked() {
	waiting := s.pool.Waiting()
	if len(waiting) < s.groupSize {
		return
	}

	s.rng.Shuffle(len(waiting), func(i, j int) {
		waiting[i], waiting[j] = waiting[j], waiting[i]
	})
	members := make([]models.WaitingEntry, s.groupSize)
	ids := make([]string, s.groupSize)
	for i := 0; i < s.groupSize; i++ {
		members[i] = waiting[i]
		members[i].Status = models.WaitingStatusPaired
		ids[i] = waiting[i].ConnectionID
	}
	s.pool.MarkPaired(ids...)

	session := &models.Session{
		ID:              uuid.NewString(),
		Members:         members,
		Questions:       pickQuestionSet(s.rng),
		Activity:        pickActivity(s.rng),
		Answers:         make(map[string]map[int]string),
		ActivityAnswers: make(map[string]models.ActivityAnswer),
		CreatedAt:       time.Now(),
	}
	s.sessions.Put(session)
	observability.IncSessionFormed()

	for _, id := range ids {
		if err := s.emitter.EmitTo(id, models.EventUserPaired, models.UserPairedPayload{Session: session}); err != nil {
			log.Printf("pairing push failed for %s: %v", id, err)
		}
	}
	s.broadcastWaitingList()
	log.Printf("session formed: %s members=%d", session.ID, len(members))
}

func (s *Service) relayLocked(session *models.Session, from string, event string, payload any) {
	for _, m := range session.Members {
		if m.ConnectionID == from {
			continue
		}
		if err := s.emitter.EmitTo(m.ConnectionID, event, payload); err != nil {
			// Best effort, no durability. The sender still succeeds.
			observability.IncRelayDrop()
			log.Printf("relay dropped for %s in session %s: %v", m.ConnectionID, session.ID, err)
			continue
		}
		observability.IncAnswerRelayed(event)
	}
}

func (s *Service) broadcastWaitingList() {
	list := s.pool.List()
	observability.SetWaitingPoolSize(len(list))
	s.emitter.Broadcast(models.EventUsersUpdated, models.UsersUpdatedPayload{Users: list})
}
