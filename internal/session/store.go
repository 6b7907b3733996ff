// Package session owns the client-side authentication state: the auth token
// and the current user, persisted together and broadcast to observers. The
// store replaces the ambient browser-storage pattern with an explicit object
// holding an injectable persistence port, so several "tabs" (stores sharing
// one persistence) stay consistent through Reload on an auth-changed signal.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/inclusivevents/client/internal/domain/users"
	"github.com/inclusivevents/client/internal/metrics"
)

// State is the session state machine: a session is either anonymous or
// authenticated, never in between.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// ErrNotAuthenticated is returned by operations that require a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Store holds the session invariantly: token presence and user presence are
// always equal. It is safe for concurrent use; reads are snapshots that a
// concurrent mutation (or another tab) can invalidate at any time.
type Store struct {
	mu      sync.Mutex
	persist Persistence
	logger  zerolog.Logger
	now     func() time.Time

	token   string
	user    users.User
	rawUser json.RawMessage

	subs    map[int]func()
	nextSub int
}

// New creates a Store backed by the given persistence and loads any existing
// session from it. Corrupted persisted state is cleared and logged, never
// surfaced as a failure.
func New(persist Persistence, logger zerolog.Logger) *Store {
	s := &Store{
		persist: persist,
		logger:  logger,
		now:     time.Now,
		subs:    make(map[int]func()),
	}
	s.mu.Lock()
	s.loadLocked()
	s.mu.Unlock()
	return s
}

// Login stores the token and user atomically and notifies subscribers. The
// raw user JSON must parse as a valid user record; otherwise nothing changes,
// keeping the token/user invariant intact.
func (s *Store) Login(token string, rawUser json.RawMessage) error {
	if token == "" {
		return fmt.Errorf("login: empty token")
	}
	user, err := users.Parse(rawUser)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	if err := s.persist.Save(Record{Token: token, User: rawUser}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.token = token
	s.user = user
	s.rawUser = append(json.RawMessage(nil), rawUser...)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Logout clears the persisted token and user atomically and notifies
// subscribers. Logging out of an anonymous store is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	if err := s.persist.Clear(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear session: %w", err)
	}
	s.token = ""
	s.user = users.User{}
	s.rawUser = nil
	s.mu.Unlock()

	if wasAuthenticated {
		s.notify()
	}
	return nil
}

// Refresh replaces the cached user object, e.g. after a profile edit, without
// touching the token. Requires an authenticated session.
func (s *Store) Refresh(rawUser json.RawMessage) error {
	user, err := users.Parse(rawUser)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if err := s.persist.Save(Record{Token: s.token, User: rawUser}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.user = user
	s.rawUser = append(json.RawMessage(nil), rawUser...)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Reload re-reads persisted state. Callers invoke it on an external
// auth-changed signal (another tab logged in or out) so every store over the
// same persistence converges without a restart.
func (s *Store) Reload() {
	metrics.SessionReloads.Inc()
	s.mu.Lock()
	s.loadLocked()
	s.mu.Unlock()
	s.notify()
}

// loadLocked reads persistence into memory. Any record that cannot yield a
// consistent token+user pair is treated as corrupted: both halves are cleared
// and the store becomes anonymous.
func (s *Store) loadLocked() {
	s.token = ""
	s.user = users.User{}
	s.rawUser = nil

	record, err := s.persist.Load()
	if err != nil {
		// Only a record that exists but cannot be decoded gets cleared.
		// A storage that is merely unreadable right now keeps its record;
		// this run stays anonymous.
		if errors.Is(err, ErrCorrupted) {
			s.logger.Warn().Err(err).Msg("persisted session corrupted, clearing")
			_ = s.persist.Clear()
		} else {
			s.logger.Warn().Err(err).Msg("session load failed, staying anonymous")
		}
		return
	}
	if record.IsZero() {
		return
	}

	// One half without the other violates the session invariant.
	if record.Token == "" || len(record.User) == 0 {
		s.logger.Warn().Msg("persisted session missing token or user, clearing")
		_ = s.persist.Clear()
		return
	}

	user, err := users.Parse(record.User)
	if err != nil {
		s.logger.Warn().Err(err).Msg("persisted user data corrupted, clearing session")
		_ = s.persist.Clear()
		return
	}

	if tokenExpired(record.Token, s.now()) {
		s.logger.Info().Msg("persisted token expired, clearing session")
		_ = s.persist.Clear()
		return
	}

	s.token = record.Token
	s.user = user
	s.rawUser = append(json.RawMessage(nil), record.User...)
}

// State reports whether the store currently holds a session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return Authenticated
	}
	return Anonymous
}

// Token returns the current auth token, or false when anonymous.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// User returns a snapshot of the current user, or false when anonymous.
func (s *Store) User() (users.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.token != ""
}

// Subscribe registers fn to run after every state change. The returned cancel
// function removes the subscription. Callbacks run synchronously on the
// mutating goroutine and should re-read the store rather than capture state.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
