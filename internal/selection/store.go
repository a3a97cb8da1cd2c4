package selection

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fdg312/muscle-plan/internal/plan"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownItem     = errors.New("unknown shopping item")
	ErrUnknownDay      = errors.New("unknown day")
)

type session struct {
	state    State
	lastSeen time.Time
}

// Store keeps selection state per session in memory. Nothing survives a restart.
type Store struct {
	mu       sync.RWMutex
	plan     *plan.Plan
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// A ttl <= 0 disables expiry.
func NewStore(p *plan.Plan, ttl time.Duration) *Store {
	return &Store{
		plan:     p,
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session with nothing bought and no day completed.
func (s *Store) Create() (uuid.UUID, State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()

	id := uuid.New()
	st := State{Bought: Set{}, CompletedDays: Set{}}
	s.sessions[id] = &session{state: st, lastSeen: s.now()}
	return id, st
}

// Get returns the session's current state.
func (s *Store) Get(id uuid.UUID) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupLocked(id)
	if err != nil {
		return State{}, err
	}
	return sess.state, nil
}

// ToggleBought flips the bought flag of a shopping list item.
func (s *Store) ToggleBought(id uuid.UUID, item string) (State, error) {
	if _, ok := s.plan.ShoppingItem(item); !ok {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	return s.update(id, func(st State) State { return st.ToggleBought(item) })
}

// ToggleCompletedDay flips the completion flag of a day.
func (s *Store) ToggleCompletedDay(id uuid.UUID, day string) (State, error) {
	if _, ok := s.plan.Day(day); !ok {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	return s.update(id, func(st State) State { return st.ToggleCompletedDay(day) })
}

// Delete ends a session.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) update(id uuid.UUID, fn func(State) State) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupLocked(id)
	if err != nil {
		return State{}, err
	}
	sess.state = fn(sess.state)
	return sess.state, nil
}

// lookupLocked finds a live session and refreshes its idle timer.
func (s *Store) lookupLocked(id uuid.UUID) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

func (s *Store) evictExpiredLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}
