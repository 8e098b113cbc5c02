package review

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"archery-results/results"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// SessionStore keeps review sessions in memory and expires idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	policy   AgeClassPolicy
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration, policy AgeClassPolicy) *SessionStore {
	return &SessionStore{
		sessions: map[string]*Session{},
		ttl:      ttl,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *SessionStore) Create(imported *results.ImportResult) *Session {
	session := NewSession(uuid.NewString(), imported, s.policy)
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	return session
}

func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Purge drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionStore) Purge() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.lastActive().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartPurgeScheduler runs Purge on a standard 5-field cron schedule until
// ctx is cancelled.
func (s *SessionStore) StartPurgeScheduler(ctx context.Context, schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("parse session purge schedule %q: %w", schedule, err)
	}
	log.Printf("Review session purge scheduled (cron: %s, ttl: %s)", schedule, s.ttl)

	go func() {
		for {
			now := time.Now()
			timer := time.NewTimer(sched.Next(now).Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			if n := s.Purge(); n > 0 {
				log.Printf("Purged %d idle review sessions", n)
			}
		}
	}()
	return nil
}
