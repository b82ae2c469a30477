package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"moviewave/internal/database"
	"moviewave/internal/types"
)

// memStore is an in-memory KeyValueStore.
type memStore struct {
	mu       sync.Mutex
	items    map[string]string
	writes   int
	failNext error
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]string)}
}

func (m *memStore) GetItems(keys ...string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := m.items[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memStore) SetItems(items map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.writes++
	for k, v := range items {
		m.items[k] = v
	}
	return nil
}

func (m *memStore) RemoveItems(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memStore) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func setupIdentity(t *testing.T) (*IdentityStore, *memStore) {
	t.Helper()

	store := newMemStore()
	identity, err := NewIdentityStore(store)
	if err != nil {
		t.Fatalf("NewIdentityStore() error = %v", err)
	}
	t.Cleanup(identity.Close)
	return identity, store
}

func TestIdentityStoreLoadsPersistedState(t *testing.T) {
	store := newMemStore()
	store.items[database.KeyLoggedIn] = "true"
	store.items[database.KeyUserID] = "kakao_7"
	store.items[database.KeyProfileName] = "Mina"
	store.items[database.KeyAccessToken] = "tok"

	identity, err := NewIdentityStore(store)
	if err != nil {
		t.Fatalf("NewIdentityStore() error = %v", err)
	}

	snap := identity.Current()
	if !snap.LoggedIn || snap.UserID != "kakao_7" || snap.Name != "Mina" || snap.Bio != "" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if identity.AccessToken() != "tok" {
		t.Errorf("AccessToken() = %q", identity.AccessToken())
	}
}

func TestIdentityStoreSignIn(t *testing.T) {
	identity, store := setupIdentity(t)

	var seen []Snapshot
	unsubscribe := identity.Subscribe(func(s Snapshot) { seen = append(seen, s) })
	defer unsubscribe()

	err := identity.SignIn(Snapshot{UserID: "u1", Name: "Neo", Bio: "N", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if store.writes != 1 {
		t.Errorf("expected a single write, got %d", store.writes)
	}
	want := map[string]string{
		database.KeyLoggedIn:    "true",
		database.KeyUserID:      "u1",
		database.KeyProfileName: "Neo",
		database.KeyProfileBio:  "N",
		database.KeyAccessToken: "tok",
	}
	for key, value := range want {
		if got, _ := store.get(key); got != value {
			t.Errorf("%s = %q, want %q", key, got, value)
		}
	}

	if len(seen) != 1 || !seen[0].LoggedIn || seen[0].UserID != "u1" {
		t.Errorf("subscriber saw %+v", seen)
	}
	if !identity.Current().LoggedIn {
		t.Error("expected logged in snapshot")
	}
}

func TestIdentityStoreSignInFailureKeepsSnapshot(t *testing.T) {
	identity, store := setupIdentity(t)
	store.failNext = errors.New("disk full")

	called := false
	identity.Subscribe(func(Snapshot) { called = true })

	if err := identity.SignIn(Snapshot{UserID: "u1"}); err == nil {
		t.Fatal("expected error")
	}
	if called || identity.Current().LoggedIn {
		t.Error("failed sign-in must not publish")
	}
}

func TestIdentityStoreSignOut(t *testing.T) {
	identity, store := setupIdentity(t)
	if err := identity.SignIn(Snapshot{UserID: "u1", Name: "Neo", AccessToken: "tok"}); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	var last Snapshot
	identity.Subscribe(func(s Snapshot) { last = s })

	if err := identity.SignOut(); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	for _, key := range identityKeys {
		if _, ok := store.get(key); ok {
			t.Errorf("%s still present after sign-out", key)
		}
	}
	if last != (Snapshot{}) || identity.Current() != (Snapshot{}) {
		t.Errorf("expected empty snapshot, got %+v", last)
	}
}

func TestIdentityStoreUnsubscribe(t *testing.T) {
	identity, _ := setupIdentity(t)

	count := 0
	unsubscribe := identity.Subscribe(func(Snapshot) { count++ })

	identity.UpdateProfile("A", "")
	unsubscribe()
	identity.UpdateProfile("B", "")

	if count != 1 {
		t.Errorf("subscriber called %d times, want 1", count)
	}
	if identity.Current().Name != "B" {
		t.Errorf("Name = %q", identity.Current().Name)
	}
}

func TestIdentityStoreClose(t *testing.T) {
	identity, _ := setupIdentity(t)

	count := 0
	identity.Subscribe(func(Snapshot) { count++ })
	identity.Close()

	identity.Subscribe(func(Snapshot) { count++ })
	identity.SignIn(Snapshot{UserID: "u1"})

	if count != 0 {
		t.Errorf("closed store notified %d subscribers", count)
	}
	if identity.Current().UserID != "u1" {
		t.Error("snapshot should stay readable after close")
	}
}

func TestIdentityStoreSignInLocal(t *testing.T) {
	identity, store := setupIdentity(t)
	store.items[database.KeyUserID] = "u1"

	if err := identity.SignInLocal("Mina"); err != nil {
		t.Fatalf("SignInLocal() error = %v", err)
	}
	snap := identity.Current()
	if !snap.LoggedIn || snap.Name != "Mina" || snap.Bio != DefaultLocalBio {
		t.Errorf("snapshot = %+v", snap)
	}
	if v, _ := store.get(database.KeyLoggedIn); v != "true" {
		t.Errorf("%s = %q", database.KeyLoggedIn, v)
	}
	if v, _ := store.get(database.KeyUserID); v != "u1" {
		t.Errorf("user id overwritten: %q", v)
	}

	if err := identity.SignInLocal(""); err != nil {
		t.Fatalf("SignInLocal() error = %v", err)
	}
	if identity.Current().Name != "Mina" {
		t.Error("empty name must keep the stored display name")
	}
}

func TestIdentityStoreConcurrentWritesAgree(t *testing.T) {
	identity, store := setupIdentity(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			identity.SignIn(Snapshot{UserID: fmt.Sprintf("u%d", i), Name: "N"})
		}(i)
		go func() {
			defer wg.Done()
			identity.SignOut()
		}()
	}
	wg.Wait()

	snap := identity.Current()
	loggedIn, _ := store.get(database.KeyLoggedIn)
	userID, _ := store.get(database.KeyUserID)
	if snap.LoggedIn != (loggedIn == "true") || snap.UserID != userID {
		t.Errorf("snapshot %+v disagrees with store (logged_in=%q user_id=%q)", snap, loggedIn, userID)
	}
}

func TestIdentityStoreMirrorUser(t *testing.T) {
	identity, store := setupIdentity(t)
	if err := identity.SignIn(Snapshot{UserID: "u1", Name: "Old", Bio: "O"}); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if err := identity.MirrorUser(&types.User{ID: "u2", Name: "Other"}); err != nil {
		t.Fatalf("MirrorUser() error = %v", err)
	}
	if identity.Current().Name != "Old" {
		t.Error("another user's profile must not be mirrored")
	}

	if err := identity.MirrorUser(&types.User{ID: "u1", Name: "New", AvatarText: types.String("N")}); err != nil {
		t.Fatalf("MirrorUser() error = %v", err)
	}
	if snap := identity.Current(); snap.Name != "New" || snap.Bio != "N" {
		t.Errorf("snapshot = %+v", snap)
	}
	if v, _ := store.get(database.KeyProfileName); v != "New" {
		t.Errorf("%s = %q", database.KeyProfileName, v)
	}
}

type logoutBackend struct {
	err   error
	calls int
}

func (b *logoutBackend) Logout(ctx context.Context) (*types.MessageResponse, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return &types.MessageResponse{Message: "Logged out"}, nil
}

func TestLogOut(t *testing.T) {
	tests := []struct {
		name    string
		backend *logoutBackend
		message string
	}{
		{"backend ok", &logoutBackend{}, "Logged out"},
		{"backend down", &logoutBackend{err: &APIError{Status: 500, Message: "boom"}}, MsgLoggedOutLocally},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, store := setupIdentity(t)
			if err := identity.SignIn(Snapshot{UserID: "u1", AccessToken: "tok"}); err != nil {
				t.Fatalf("SignIn() error = %v", err)
			}

			msg, err := LogOut(context.Background(), tt.backend, identity)
			if err != nil {
				t.Fatalf("LogOut() error = %v", err)
			}
			if msg.Message != tt.message {
				t.Errorf("message = %q, want %q", msg.Message, tt.message)
			}
			if tt.backend.calls != 1 {
				t.Errorf("backend called %d times", tt.backend.calls)
			}
			if identity.Current().LoggedIn {
				t.Error("still logged in")
			}
			if _, ok := store.get(database.KeyAccessToken); ok {
				t.Error("access token kept after logout")
			}
		})
	}
}
