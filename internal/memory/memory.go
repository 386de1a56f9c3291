package memory

import (
	"sync"

	"github.com/xaenox/helpdesk-bot/internal/models"
)

// DefaultCapacity is the conversation window size used when none is
// configured.
const DefaultCapacity = 10

type userMemory struct {
	turns []models.Turn
}

// Store holds a bounded conversation window per user. Windows are
// created lazily on first append and live only in process memory.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]*userMemory
	capacity int
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		users:    make(map[int64]*userMemory),
		capacity: capacity,
	}
}

// Append records a turn for the user, creating the window if absent and
// dropping the oldest turns once the window exceeds capacity.
func (s *Store) Append(userID int64, role models.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mem, exists := s.users[userID]
	if !exists {
		mem = &userMemory{}
		s.users[userID] = mem
	}

	mem.turns = append(mem.turns, models.Turn{Role: role, Content: content})
	if len(mem.turns) > s.capacity {
		mem.turns = mem.turns[len(mem.turns)-s.capacity:]
	}
}

// AsChat returns the user's window oldest-first, at most capacity
// turns. Unknown users get an empty slice.
func (s *Store) AsChat(userID int64) []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mem, exists := s.users[userID]
	if !exists {
		return nil
	}

	out := make([]models.Turn, len(mem.turns))
	copy(out, mem.turns)
	return out
}

// Reset removes the user's window entirely; the next Append recreates
// it fresh.
func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
}
