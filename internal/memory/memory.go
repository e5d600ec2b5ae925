// Package memory provides the append-only conversation store owned by a
// single agent. Messages are never mutated after they are appended; callers
// that need bounded observations clamp content before appending.
package memory

import (
	"sync"

	ai "github.com/striderml/strider"
)

// Store is an append-only ordered sequence of messages.
// It is safe for concurrent use, though an agent appends strictly sequentially.
type Store struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		messages: make([]ai.Message, 0),
	}
}

// Append adds messages to the store.
func (s *Store) Append(msgs ...ai.Message) {
	if len(msgs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
}

// Messages returns a copy of all messages.
func (s *Store) Messages() []ai.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]ai.Message, len(s.messages))
	copy(result, s.messages)
	return result
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the last n messages. If n > Len(), returns all messages.
func (s *Store) Last(n int) []ai.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return nil
	}

	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}

	result := make([]ai.Message, len(s.messages)-start)
	copy(result, s.messages[start:])
	return result
}

// LastAssistant returns the most recent assistant message, or nil if none exists.
func (s *Store) LastAssistant() *ai.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == ai.RoleAssistant {
			msg := s.messages[i]
			return &msg
		}
	}
	return nil
}
