package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = json.RawMessage(`{"id":1,"username":"dana","email":"dana@example.com"}`)

func newTestStore(t *testing.T, persist Persistence) *Store {
	t.Helper()
	return New(persist, zerolog.Nop())
}

// invariantHolds checks the core session invariant: token presence and user
// presence are always equal.
func invariantHolds(t *testing.T, s *Store) {
	t.Helper()
	_, hasToken := s.Token()
	_, hasUser := s.User()
	assert.Equal(t, hasToken, hasUser, "token/user presence diverged")
}

func TestStore_LoginLogout(t *testing.T) {
	s := newTestStore(t, NewMemoryStore())
	assert.Equal(t, Anonymous, s.State())

	require.NoError(t, s.Login("token-1", testUser))
	assert.Equal(t, Authenticated, s.State())

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "dana", u.Username)

	require.NoError(t, s.Logout())
	assert.Equal(t, Anonymous, s.State())
	invariantHolds(t, s)
}

func TestStore_InvariantAcrossOperationSequences(t *testing.T) {
	persist := NewMemoryStore()
	s := newTestStore(t, persist)

	steps := []func() error{
		func() error { return s.Login("t1", testUser) },
		func() error { return s.Refresh(json.RawMessage(`{"id":1,"username":"dana-renamed"}`)) },
		func() error { return s.Logout() },
		func() error { return s.Refresh(testUser) }, // fails: anonymous
		func() error { return s.Login("t2", testUser) },
		func() error { return s.Login("", testUser) }, // fails: empty token
		func() error { return s.Login("t3", json.RawMessage(`{"email":"no identity"}`)) }, // fails: invalid user
		func() error { return s.Logout() },
		func() error { return s.Logout() },
	}

	for i, step := range steps {
		_ = step()
		invariantHolds(t, s)

		// The persisted record obeys the invariant too.
		record, err := persist.Load()
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, record.Token == "", len(record.User) == 0, "step %d", i)
	}
}

func TestStore_RefreshKeepsToken(t *testing.T) {
	s := newTestStore(t, NewMemoryStore())
	require.NoError(t, s.Login("token-1", testUser))

	require.NoError(t, s.Refresh(json.RawMessage(`{"id":1,"username":"dana","email":"new@example.com"}`)))

	token, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "token-1", token)
	u, _ := s.User()
	assert.Equal(t, "new@example.com", u.Email)
}

func TestStore_RefreshWhileAnonymous(t *testing.T) {
	s := newTestStore(t, NewMemoryStore())
	assert.ErrorIs(t, s.Refresh(testUser), ErrNotAuthenticated)
}

func TestStore_CorruptedUserDataClearsSession(t *testing.T) {
	persist := NewMemoryStore()
	require.NoError(t, persist.Save(Record{Token: "t1", User: json.RawMessage(`{not json`)}))

	s := newTestStore(t, persist)
	assert.Equal(t, Anonymous, s.State())
	invariantHolds(t, s)

	record, err := persist.Load()
	require.NoError(t, err)
	assert.True(t, record.IsZero(), "corrupted record should be cleared from persistence")
}

// flakyStore fails Load until readable is set, without ever losing its
// record. Clear calls are counted to catch a store discarding a session it
// could not even read.
type flakyStore struct {
	MemoryStore
	readable bool
	clears   int
}

func (f *flakyStore) Load() (Record, error) {
	if !f.readable {
		return Record{}, errors.New("permission denied")
	}
	return f.MemoryStore.Load()
}

func (f *flakyStore) Clear() error {
	f.clears++
	return f.MemoryStore.Clear()
}

func TestStore_UnreadablePersistenceKeepsRecord(t *testing.T) {
	persist := &flakyStore{}
	require.NoError(t, persist.MemoryStore.Save(Record{Token: "t1", User: testUser}))

	s := newTestStore(t, persist)
	assert.Equal(t, Anonymous, s.State(), "unreadable storage means anonymous for this run")
	assert.Zero(t, persist.clears, "a read failure must not destroy the session")

	// Once the storage is readable again, Reload picks the session back up.
	persist.readable = true
	s.Reload()
	assert.Equal(t, Authenticated, s.State())
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "dana", u.Username)
}

func TestFileStoreCorruptionIsDistinguished(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, os.WriteFile(fs.path, []byte("{truncated"), 0o600))

	_, err := fs.Load()
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestStore_TokenWithoutUserClearsSession(t *testing.T) {
	persist := NewMemoryStore()
	require.NoError(t, persist.Save(Record{Token: "orphan"}))

	s := newTestStore(t, persist)
	assert.Equal(t, Anonymous, s.State())

	record, _ := persist.Load()
	assert.True(t, record.IsZero())
}

func TestStore_CrossTabSync(t *testing.T) {
	// Two stores over one persistence simulate two tabs sharing a storage
	// area. Tab B converges after the auth-changed signal (Reload) without
	// any restart.
	shared := NewMemoryStore()
	tabA := newTestStore(t, shared)
	tabB := newTestStore(t, shared)

	notified := 0
	cancel := tabB.Subscribe(func() { notified++ })
	defer cancel()

	require.NoError(t, tabA.Login("tokenX", json.RawMessage(`{"id":9,"username":"userY"}`)))
	assert.Equal(t, Anonymous, tabB.State(), "tab B sees nothing until the signal arrives")

	tabB.Reload()

	assert.Equal(t, Authenticated, tabB.State())
	u, ok := tabB.User()
	require.True(t, ok)
	assert.Equal(t, "userY", u.Username)
	assert.Equal(t, 1, notified)

	// Logout in tab A propagates the same way.
	require.NoError(t, tabA.Logout())
	tabB.Reload()
	assert.Equal(t, Anonymous, tabB.State())
	invariantHolds(t, tabB)
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	s := newTestStore(t, NewMemoryStore())

	calls := 0
	cancel := s.Subscribe(func() { calls++ })

	require.NoError(t, s.Login("t", testUser))
	require.NoError(t, s.Logout())
	assert.Equal(t, 2, calls)

	cancel()
	require.NoError(t, s.Login("t", testUser))
	assert.Equal(t, 2, calls)
}

func TestStore_LogoutWhileAnonymousDoesNotNotify(t *testing.T) {
	s := newTestStore(t, NewMemoryStore())
	calls := 0
	defer s.Subscribe(func() { calls++ })()

	require.NoError(t, s.Logout())
	assert.Equal(t, 0, calls)
}

func TestStore_ExpiredJWTLoadsAnonymous(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Hour))
	persist := NewMemoryStore()
	require.NoError(t, persist.Save(Record{Token: expired, User: testUser}))

	s := newTestStore(t, persist)
	assert.Equal(t, Anonymous, s.State())
}

func TestStore_ValidJWTLoads(t *testing.T) {
	valid := signedToken(t, time.Now().Add(time.Hour))
	persist := NewMemoryStore()
	require.NoError(t, persist.Save(Record{Token: valid, User: testUser}))

	s := newTestStore(t, persist)
	assert.Equal(t, Authenticated, s.State())
}

func TestStore_OpaqueTokenNeverExpires(t *testing.T) {
	persist := NewMemoryStore()
	require.NoError(t, persist.Save(Record{Token: "opaque-token-value", User: testUser}))

	s := newTestStore(t, persist)
	assert.Equal(t, Authenticated, s.State())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}
