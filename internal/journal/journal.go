// Package journal keeps a per-user food and mood journal in process memory.
package journal

import (
	"slices"
	"strings"
	"sync"
	"time"

	"mealmuse/internal/schema"
)

// Mood is how the user felt after a meal.
type Mood string

const (
	Happy     Mood = "Happy"
	Comforted Mood = "Comforted"
	Sad       Mood = "Sad"
	Neutral   Mood = "Neutral"
	Stressed  Mood = "Stressed"
)

// Moods lists every mood in display order.
var Moods = []Mood{Happy, Comforted, Sad, Neutral, Stressed}

const dateLayout = "1/2/2006"

// Entry is one journal line. ID is the creation time in unix milliseconds.
type Entry struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Mood Mood   `json:"mood"`
	Food string `json:"food"`
}

// EntryRequest is the journal form.
type EntryRequest struct {
	Mood string `json:"mood" form:"mood" validate:"required,oneof=Happy Comforted Sad Neutral Stressed"`
	Food string `json:"food" form:"food" validate:"notblank,min=3,max=500"`
}

func (EntryRequest) ValidationMessage(field, rule string) string {
	switch {
	case field == "mood":
		return "Please select a mood."
	case field == "food" && (rule == "notblank" || rule == "min"):
		return "Please describe what you ate."
	}
	return ""
}

// Store holds one journal per user, newest entry first. A new journal is
// seeded with a single Comforted entry.
type Store struct {
	mu       sync.Mutex
	journals map[string][]Entry
	lastID   map[string]int64
	now      func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		journals: make(map[string][]Entry),
		lastID:   make(map[string]int64),
		now:      time.Now,
	}
}

// Entries returns a copy of the user's journal.
func (s *Store) Entries(userID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.journalLocked(userID))
}

// Add validates req and prepends a new entry.
func (s *Store) Add(userID string, req EntryRequest) (Entry, error) {
	req.Food = strings.TrimSpace(req.Food)
	if err := schema.Validate(req); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.journalLocked(userID)
	e := s.newEntryLocked(userID, Mood(req.Mood), req.Food)
	s.journals[userID] = append([]Entry{e}, entries...)
	return e, nil
}

// MoodCounts returns how many entries the user logged per mood. Moods with
// no entries are absent.
func (s *Store) MoodCounts(userID string) map[Mood]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[Mood]int)
	for _, e := range s.journalLocked(userID) {
		counts[e.Mood]++
	}
	return counts
}

func (s *Store) journalLocked(userID string) []Entry {
	entries, ok := s.journals[userID]
	if !ok {
		entries = []Entry{s.newEntryLocked(userID, Comforted, "A warm bowl of tomato soup and grilled cheese.")}
		s.journals[userID] = entries
	}
	return entries
}

// newEntryLocked stamps an entry with an ID strictly greater than the
// previous one for the same user, even within one millisecond.
func (s *Store) newEntryLocked(userID string, mood Mood, food string) Entry {
	now := s.now()
	id := now.UnixMilli()
	if last := s.lastID[userID]; id <= last {
		id = last + 1
	}
	s.lastID[userID] = id
	return Entry{
		ID:   id,
		Date: now.Format(dateLayout),
		Mood: mood,
		Food: food,
	}
}
