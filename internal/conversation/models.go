package conversation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one conversation with the agent.
type Session struct {
	ID        string    `json:"session_id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recent returns the last n messages, or all of them when n <= 0.
func (s *Session) Recent(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

func NewSessionID() string {
	return uuid.NewString()
}

// maxStoredMessages bounds how much history a session keeps.
const maxStoredMessages = 100

func appendBounded(s *Session, msgs []Message, now time.Time) {
	s.Messages = append(s.Messages, msgs...)
	if len(s.Messages) > maxStoredMessages {
		s.Messages = s.Messages[len(s.Messages)-maxStoredMessages:]
	}
	s.UpdatedAt = now
}
