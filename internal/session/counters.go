package session

import (
	"sync"

	"github.com/xaenox/helpdesk-bot/internal/models"
)

// Counters tracks per-user message tallies for the current process
// lifetime. Entries are created lazily and removed entirely on Clear.
type Counters struct {
	mu    sync.Mutex
	stats map[int64]*models.Stats
}

func NewCounters() *Counters {
	return &Counters{stats: make(map[int64]*models.Stats)}
}

func (c *Counters) statsFor(userID int64) *models.Stats {
	st, exists := c.stats[userID]
	if !exists {
		st = &models.Stats{}
		c.stats[userID] = st
	}
	return st
}

// IncrementUser bumps the user-message tally.
func (c *Counters) IncrementUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statsFor(userID).UserMessages++
}

// IncrementBot bumps the bot-message tally.
func (c *Counters) IncrementBot(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statsFor(userID).BotMessages++
}

// Read returns the user's tallies, creating a zeroed entry if absent.
func (c *Counters) Read(userID int64) models.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return *c.statsFor(userID)
}

// Clear removes the user's entry entirely; a later Read starts from
// zero again.
func (c *Counters) Clear(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.stats, userID)
}
