package services

import (
	"fmt"
	"sync"

	"moviewave/internal/database"
	"moviewave/internal/types"
)

// Snapshot is the locally held sign-in state. It is only used to decide what
// to show; the backend never trusts it.
type Snapshot struct {
	LoggedIn    bool   `json:"logged_in"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	AccessToken string `json:"-"`
}

// KeyValueStore is the persistence the identity and profile stores write through.
type KeyValueStore interface {
	GetItems(keys ...string) (map[string]string, error)
	SetItems(items map[string]string) error
	RemoveItems(keys ...string) error
}

var identityKeys = []string{
	database.KeyLoggedIn,
	database.KeyUserID,
	database.KeyProfileName,
	database.KeyProfileBio,
	database.KeyAccessToken,
}

// IdentityStore holds the process-wide identity snapshot and tells
// subscribers about every change.
type IdentityStore struct {
	store KeyValueStore

	// writeMu serializes persist-then-publish so the stored rows and the
	// snapshot agree on which write came last.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current Snapshot
	subs    map[int]func(Snapshot)
	nextID  int
	closed  bool
}

// NewIdentityStore loads the persisted snapshot from store.
func NewIdentityStore(store KeyValueStore) (*IdentityStore, error) {
	items, err := store.GetItems(identityKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	return &IdentityStore{
		store: store,
		current: Snapshot{
			LoggedIn:    items[database.KeyLoggedIn] == "true",
			UserID:      items[database.KeyUserID],
			Name:        items[database.KeyProfileName],
			Bio:         items[database.KeyProfileBio],
			AccessToken: items[database.KeyAccessToken],
		},
		subs: make(map[int]func(Snapshot)),
	}, nil
}

func (s *IdentityStore) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AccessToken makes the store usable as a bearer TokenSource.
func (s *IdentityStore) AccessToken() string {
	return s.Current().AccessToken
}

// SignIn persists all identity fields in one write, then notifies subscribers.
func (s *IdentityStore) SignIn(snap Snapshot) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap.LoggedIn = true
	err := s.store.SetItems(map[string]string{
		database.KeyLoggedIn:    "true",
		database.KeyUserID:      snap.UserID,
		database.KeyProfileName: snap.Name,
		database.KeyProfileBio:  snap.Bio,
		database.KeyAccessToken: snap.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}

	s.publish(snap)
	return nil
}

// DefaultLocalBio is the bio given to a name entered on the local login form.
const DefaultLocalBio = "Enjoying drama and SF with strong emotional arcs."

// SignInLocal marks this device as signed in without asking the backend.
// A non-empty name replaces the display name and resets the bio to
// DefaultLocalBio; user id and token stay as they are.
func (s *IdentityStore) SignInLocal(name string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items := map[string]string{database.KeyLoggedIn: "true"}
	snap := s.Current()
	snap.LoggedIn = true
	if name != "" {
		items[database.KeyProfileName] = name
		items[database.KeyProfileBio] = DefaultLocalBio
		snap.Name = name
		snap.Bio = DefaultLocalBio
	}

	if err := s.store.SetItems(items); err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}

	s.publish(snap)
	return nil
}

// UpdateProfile changes the display name and bio of the current snapshot.
func (s *IdentityStore) UpdateProfile(name, bio string) error {
	return s.updateProfile(nil, name, bio)
}

// MirrorUser copies name and avatar text of user into the snapshot when user
// is the one signed in here. Other users are ignored.
func (s *IdentityStore) MirrorUser(user *types.User) error {
	if user == nil || s.Current().UserID != user.ID {
		return nil
	}
	bio := ""
	if user.AvatarText != nil {
		bio = *user.AvatarText
	}
	return s.updateProfile(nil, user.Name, bio)
}

// updateProfile writes extra together with the name and bio keys in a
// single SetItems call, then publishes.
func (s *IdentityStore) updateProfile(extra map[string]string, name, bio string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items := make(map[string]string, len(extra)+2)
	for k, v := range extra {
		items[k] = v
	}
	items[database.KeyProfileName] = name
	items[database.KeyProfileBio] = bio

	if err := s.store.SetItems(items); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	snap := s.Current()
	snap.Name = name
	snap.Bio = bio
	s.publish(snap)
	return nil
}

// SignOut clears every identity key and publishes an empty snapshot.
func (s *IdentityStore) SignOut() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.RemoveItems(identityKeys...); err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}

	s.publish(Snapshot{})
	return nil
}

// Subscribe registers fn for future changes. The returned function removes it.
func (s *IdentityStore) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close drops all subscribers. The snapshot stays readable.
func (s *IdentityStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[int]func(Snapshot))
}

func (s *IdentityStore) publish(snap Snapshot) {
	s.mu.Lock()
	s.current = snap
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
