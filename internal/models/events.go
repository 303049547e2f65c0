package models

import "encoding/json"

// Server-to-client event names.
const (
	EventUsersUpdated          = "users-updated"
	EventUserPaired            = "user-paired"
	EventReceiveAnswer         = "receive-answer"
	EventReceiveActivityAnswer = "receive-activity-answer"
	EventError                 = "error"
)

// Client-to-server event names.
const (
	EventJoinWaiting          = "join-waiting"
	EventLeaveWaiting         = "leave-waiting"
	EventStartNewGame         = "start-new-game"
	EventSubmitAnswer         = "submit-answer"
	EventSubmitActivityAnswer = "submit-activity-answer"
)

// ServerEvent is the envelope written to websocket clients.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ClientEvent is the envelope read from websocket clients. Data is
// decoded into the event-specific payload struct at the transport
// boundary, before anything reaches the game logic.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinWaitingPayload carries a join-waiting request. Token is optional;
// when present and valid the entry is linked to a persistent account.
type JoinWaitingPayload struct {
	Nickname     string `json:"nickname"`
	SocialHandle string `json:"socialHandle,omitempty"`
	Token        string `json:"token,omitempty"`
}

// SubmitAnswerPayload carries one ice-breaker answer.
type SubmitAnswerPayload struct {
	SessionID     string `json:"sessionId"`
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
}

// SubmitActivityAnswerPayload carries the activity response. FileURL is
// an already-stored attachment location; bytes never pass through here.
type SubmitActivityAnswerPayload struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
	FileURL   string `json:"fileUrl,omitempty"`
}

// UsersUpdatedPayload is the full waiting-list fan-out.
type UsersUpdatedPayload struct {
	Users []WaitingEntry `json:"users"`
}

// UserPairedPayload notifies a member of their new session.
type UserPairedPayload struct {
	Session *Session `json:"session"`
}

// ReceiveAnswerPayload relays a co-member's answer.
type ReceiveAnswerPayload struct {
	UserID        string `json:"userId"`
	Answer        string `json:"answer"`
	QuestionIndex int    `json:"questionIndex"`
}

// ReceiveActivityAnswerPayload relays a co-member's activity response.
type ReceiveActivityAnswerPayload struct {
	UserID  string `json:"userId"`
	Answer  string `json:"answer"`
	FileURL string `json:"fileUrl,omitempty"`
}

// ErrorPayload is a structured failure returned to the originating
// connection only.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
