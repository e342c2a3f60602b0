package stub

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Reminder struct {
	ID          string    `json:"id"`
	ProductCode string    `json:"product_code"`
	LeadDays    int       `json:"lead_days"`
	FireAt      time.Time `json:"fire_at"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReminderStorage is the in-memory backing store of the stub gateway.
type ReminderStorage struct {
	mu        sync.RWMutex
	reminders map[string]*Reminder
}

func NewReminderStorage() *ReminderStorage {
	return &ReminderStorage{
		reminders: make(map[string]*Reminder),
	}
}

func (s *ReminderStorage) Add(r *Reminder) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	s.reminders[r.ID] = r
	return r.ID
}

func (s *ReminderStorage) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[id]; !ok {
		return false
	}
	delete(s.reminders, id)
	return true
}

func (s *ReminderStorage) RemoveAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.reminders)
	s.reminders = make(map[string]*Reminder)
	return n
}

func (s *ReminderStorage) List() []*Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		items = append(items, r)
	}
	return items
}
