package models

import "time"

// Waiting entry statuses.
const (
	WaitingStatusWaiting = "waiting"
	WaitingStatusPaired  = "paired"
)

// WaitingEntry is one connected, unmatched participant. The session
// member list carries snapshots of these, so membership survives the
// entry being swept from the pool.
type WaitingEntry struct {
	ConnectionID string    `json:"id"`
	UserID       string    `json:"userId,omitempty"`
	Nickname     string    `json:"nickname"`
	SocialHandle string    `json:"socialHandle,omitempty"`
	JoinedAt     time.Time `json:"joinedAt"`
	Status       string    `json:"status"`
}

// ActivityAnswer is one member's response to the assigned activity.
type ActivityAnswer struct {
	Text    string `json:"answer"`
	FileURL string `json:"fileUrl,omitempty"`
}

// Session is a formed match. Membership and content are fixed at
// creation; only the answer maps mutate afterwards.
type Session struct {
	ID              string                    `json:"id"`
	Members         []WaitingEntry            `json:"members"`
	Questions       []string                  `json:"questions"`
	Activity        string                    `json:"activity"`
	Answers         map[string]map[int]string `json:"answers"`
	ActivityAnswers map[string]ActivityAnswer `json:"activityAnswers"`
	CreatedAt       time.Time                 `json:"createdAt"`
}

// HasMember reports whether the connection belongs to the session.
func (s *Session) HasMember(connectionID string) bool {
	for _, m := range s.Members {
		if m.ConnectionID == connectionID {
			return true
		}
	}
	return false
}
