// Package leaderboard keeps the top scores of finished quizzes.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/chemmaster/chemmaster/internal/store"
)

// MaxEntries is the number of scores kept.
const MaxEntries = 10

// Key is the KV key the board is stored under.
const Key = "chem_leaderboard"

// Entry is one leaderboard row.
type Entry struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Insert adds e to entries and returns the new board: sorted by score
// descending, ties in insertion order, at most MaxEntries long. The input
// slice is not modified.
func Insert(entries []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entries...)
	out = append(out, e)
	slices.SortStableFunc(out, func(a, b Entry) int { return b.Score - a.Score })
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// Store persists the board in a KV store.
type Store struct {
	kv store.KV
	mu sync.Mutex
}

// NewStore creates a Store backed by kv.
func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

// Load returns the stored board, or an empty board when none exists.
func (s *Store) Load(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) ([]Entry, error) {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, store.ErrNotFound) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Record inserts e, persists the board and returns it.
func (s *Store) Record(ctx context.Context, e Entry) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	entries = Insert(entries, e)

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		return nil, fmt.Errorf("save leaderboard: %w", err)
	}
	return entries, nil
}
