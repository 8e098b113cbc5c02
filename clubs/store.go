package clubs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"archery-results/models"
)

const (
	StorageKey       = "archery-clubs-v2"
	legacyStorageKey = "archery-clubs-v1"

	DefaultSuggestionLimit = 8
)

var (
	ErrEmptyField    = errors.New("club code and name are required")
	ErrDuplicateCode = errors.New("club code already exists")
	ErrNotFound      = errors.New("club not found")
	ErrBuiltIn       = errors.New("built-in clubs cannot be removed")
)

type storedVocabulary struct {
	Version int           `json:"version"`
	Clubs   []models.Club `json:"clubs"`
}

// Store owns the club vocabulary. Built-ins come first and cannot be removed;
// user additions follow in insertion order and are persisted to Storage.
type Store struct {
	mu       sync.RWMutex
	builtins []models.Club
	user     []models.Club
	storage  Storage

	subMu       sync.Mutex
	subscribers map[int]func([]models.Club)
	nextSub     int
}

// NewStore returns a store holding only builtins. storage may be nil.
func NewStore(storage Storage, builtins []models.Club) *Store {
	b := make([]models.Club, len(builtins))
	for i, c := range builtins {
		c.UserAdded = false
		b[i] = c
	}
	return &Store{
		builtins:    b,
		storage:     storage,
		subscribers: map[int]func([]models.Club){},
	}
}

// Load merges persisted user additions with the current built-ins. Entries
// saved under the legacy key are migrated; user codes that now collide with
// a built-in are dropped.
func (s *Store) Load(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	saved, err := s.loadSaved(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	builtinCodes := map[string]bool{}
	for _, b := range s.builtins {
		builtinCodes[b.Code] = true
	}
	seen := map[string]bool{}
	s.user = s.user[:0]
	for _, c := range saved {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" || builtinCodes[code] || seen[code] {
			continue
		}
		seen[code] = true
		s.user = append(s.user, models.Club{Code: code, Name: strings.TrimSpace(c.Name), UserAdded: true})
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) loadSaved(ctx context.Context) ([]models.Club, error) {
	data, ok, err := s.storage.Load(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load club vocabulary: %w", err)
	}
	if ok {
		var v storedVocabulary
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode club vocabulary: %w", err)
		}
		return v.Clubs, nil
	}

	data, ok, err = s.storage.Load(ctx, legacyStorageKey)
	if err != nil {
		return nil, fmt.Errorf("load legacy club vocabulary: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var legacy []models.Club
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy club vocabulary: %w", err)
	}
	return legacy, nil
}

// All returns built-ins first, then user additions.
func (s *Store) All() []models.Club {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []models.Club {
	out := make([]models.Club, 0, len(s.builtins)+len(s.user))
	out = append(out, s.builtins...)
	out = append(out, s.user...)
	return out
}

func (s *Store) Add(ctx context.Context, code, name string) (models.Club, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return models.Club{}, ErrEmptyField
	}

	s.mu.Lock()
	if s.indexLocked(code) >= 0 {
		s.mu.Unlock()
		return models.Club{}, ErrDuplicateCode
	}
	club := models.Club{Code: code, Name: name, UserAdded: true}
	s.user = append(s.user, club)
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
	return club, nil
}

func (s *Store) Remove(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	s.mu.Lock()
	for _, b := range s.builtins {
		if b.Code == code {
			s.mu.Unlock()
			return ErrBuiltIn
		}
	}
	idx := -1
	for i, c := range s.user {
		if c.Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.user = append(s.user[:idx], s.user[idx+1:]...)
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
	return nil
}

// Reset drops every user addition.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
}

// Suggestions matches input against codes and names, case-insensitively.
// Prefix matches sort before substring matches; list order breaks ties.
func (s *Store) Suggestions(input string, limit int) []models.Club {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	all := s.All()
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		if len(all) > limit {
			all = all[:limit]
		}
		return all
	}

	var prefix, contains []models.Club
	for _, c := range all {
		code := strings.ToLower(c.Code)
		name := strings.ToLower(c.Name)
		switch {
		case strings.HasPrefix(code, q) || strings.HasPrefix(name, q):
			prefix = append(prefix, c)
		case strings.Contains(code, q) || strings.Contains(name, q):
			contains = append(contains, c)
		}
	}
	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Subscribe registers fn to receive the vocabulary after every change.
// fn runs synchronously before the mutating call returns.
func (s *Store) Subscribe(fn func([]models.Club)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func([]models.Club), 0, len(s.subscribers))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subscribers[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()

	clubs := s.All()
	for _, fn := range fns {
		fn(clubs)
	}
}

func (s *Store) indexLocked(code string) int {
	for i, c := range s.snapshotLocked() {
		if strings.EqualFold(c.Code, code) {
			return i
		}
	}
	return -1
}

// persist writes user additions. Failures are logged; the in-memory
// vocabulary stays authoritative for the running process.
func (s *Store) persist(ctx context.Context) {
	if s.storage == nil {
		return
	}
	s.mu.RLock()
	v := storedVocabulary{Version: 2, Clubs: append([]models.Club(nil), s.user...)}
	s.mu.RUnlock()

	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode club vocabulary: %v", err)
		return
	}
	if err := s.storage.Save(ctx, StorageKey, data); err != nil {
		log.Printf("persist club vocabulary: %v", err)
	}
}
