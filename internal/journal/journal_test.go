package journal

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmuse/internal/shared"
)

func fixedStore(t time.Time) *Store {
	s := NewStore()
	s.now = func() time.Time { return t }
	return s
}

func TestStore_Seed(t *testing.T) {
	s := fixedStore(time.Date(2026, time.October, 15, 8, 0, 0, 0, time.UTC))

	entries := s.Entries("alice")
	require.Len(t, entries, 1)
	assert.Equal(t, Comforted, entries[0].Mood)
	assert.Equal(t, "A warm bowl of tomato soup and grilled cheese.", entries[0].Food)
	assert.Equal(t, "10/15/2026", entries[0].Date)
}

func TestStore_AddPrependsWithIncreasingIDs(t *testing.T) {
	// A frozen clock forces every entry into the same millisecond.
	s := fixedStore(time.Date(2026, time.October, 15, 8, 0, 0, 0, time.UTC))

	first, err := s.Add("alice", EntryRequest{Mood: "Happy", Food: "Pancakes with berries"})
	require.NoError(t, err)
	second, err := s.Add("alice", EntryRequest{Mood: "Stressed", Food: "Cold pizza at my desk"})
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)

	entries := s.Entries("alice")
	require.Len(t, entries, 3)
	assert.Equal(t, second, entries[0])
	assert.Equal(t, first, entries[1])
	assert.Greater(t, entries[1].ID, entries[2].ID)
}

func TestStore_AddValidation(t *testing.T) {
	s := NewStore()

	cases := []struct {
		name  string
		req   EntryRequest
		field string
		msg   string
	}{
		{"NoMood", EntryRequest{Food: "Soup and bread"}, "mood", "Please select a mood."},
		{"UnknownMood", EntryRequest{Mood: "Angry", Food: "Soup and bread"}, "mood", "Please select a mood."},
		{"ShortFood", EntryRequest{Mood: "Sad", Food: "ok"}, "food", "Please describe what you ate."},
		{"LongFood", EntryRequest{Mood: "Sad", Food: strings.Repeat("a", 501)}, "food", "Must be at most 500 characters."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Add("alice", tc.req)
			var verr *shared.ValidationError
			require.True(t, errors.As(err, &verr))
			v, ok := verr.Field(tc.field)
			require.True(t, ok)
			assert.Equal(t, tc.msg, v.Message)
		})
	}

	assert.Len(t, s.Entries("alice"), 1)
}

func TestStore_MoodCounts(t *testing.T) {
	s := NewStore()
	_, err := s.Add("alice", EntryRequest{Mood: "Happy", Food: "Pancakes"})
	require.NoError(t, err)
	_, err = s.Add("alice", EntryRequest{Mood: "Happy", Food: "Ice cream"})
	require.NoError(t, err)

	counts := s.MoodCounts("alice")
	assert.Equal(t, map[Mood]int{Happy: 2, Comforted: 1}, counts)
	assert.Equal(t, map[Mood]int{Comforted: 1}, s.MoodCounts("bob"))
}
