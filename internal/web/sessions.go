package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/sheetfilter/internal/core"
)

var (
	// ErrSessionNotFound means the session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionBusy means another open or filter is running in the session.
	ErrSessionBusy = errors.New("session busy")

	// ErrTooManySessions means the store is full of live sessions.
	ErrTooManySessions = errors.New("too many sessions")
)

// FormValues are the last inputs submitted in a session, re-rendered on the page.
type FormValues struct {
	InputPath  string
	OutputPath string
	Column     string
	Value      string
}

// Session is one user's workspace: the opened file's header state and the
// journal of status lines. Operations in a session run one at a time.
type Session struct {
	ID      string
	Journal *core.Journal
	Created time.Time

	busy sync.Mutex // held for the duration of an operation

	mu       sync.Mutex
	state    *core.HeaderState
	form     FormValues
	lastUsed time.Time
}

// TryBegin claims the session for one operation. It returns ErrSessionBusy
// when another operation holds it. End must follow a nil return.
func (s *Session) TryBegin() error {
	if !s.busy.TryLock() {
		return ErrSessionBusy
	}
	return nil
}

// End releases the session claimed by TryBegin.
func (s *Session) End() { s.busy.Unlock() }

// State returns the current header state, nil while no file is open.
func (s *Session) State() *core.HeaderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState replaces the header state. A nil state closes the file.
func (s *Session) SetState(st *core.HeaderState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Form returns the remembered form values.
func (s *Session) Form() FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// UpdateForm applies fn to the remembered form values.
func (s *Session) UpdateForm(fn func(*FormValues)) {
	s.mu.Lock()
	fn(&s.form)
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// SessionStore keeps live sessions in memory and expires idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int
	idle     time.Duration
	lang     language.Tag
	now      func() time.Time
}

// NewSessionStore creates a store holding at most max sessions, each expiring
// after idle without use. Journals render in lang.
func NewSessionStore(max int, idle time.Duration, lang language.Tag) *SessionStore {
	if max <= 0 {
		max = 100
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		max:      max,
		idle:     idle,
		lang:     lang,
		now:      time.Now,
	}
}

// Create starts a new session. Expired sessions are dropped first; if the
// store is still full it returns ErrTooManySessions.
func (st *SessionStore) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	if len(st.sessions) >= st.max {
		st.sweepLocked(now)
	}
	if len(st.sessions) >= st.max {
		return nil, ErrTooManySessions
	}

	s := &Session{
		ID:       uuid.NewString(),
		Journal:  core.NewJournal(st.lang),
		Created:  now,
		lastUsed: now,
	}
	st.sessions[s.ID] = s
	return s, nil
}

// Get returns the session with id and marks it used.
func (st *SessionStore) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(st.now())
	return s, nil
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the idle timeout and returns
// how many were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked(st.now())
}

func (st *SessionStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) > st.idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps every interval until ctx ends.
func (st *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Debug("expired idle sessions", "removed", n, "live", st.Len())
			}
		}
	}
}
