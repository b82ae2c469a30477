package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Keys under which the front-end persists local state. The names match the
// keys browsers of earlier releases already hold.
const (
	KeyLoggedIn    = "mw_logged_in"
	KeyUserID      = "mw_user_id"
	KeyAccessToken = "mw_access_token"
	KeyProfileName = "mw_profile_name"
	KeyProfileBio  = "mw_profile_bio"

	KeyProfileNickname = "mw_profile_nickname"
	KeyProfileRealName = "mw_profile_realname"
	KeyProfileAge      = "mw_profile_age"
	KeyProfileGender   = "mw_profile_gender"
	KeyProfileHandle   = "mw_profile_id"
	KeyProfileEmail    = "mw_profile_email"

	KeyTasteGenres    = "mw_taste_genres"
	KeyTasteMoods     = "mw_taste_moods"
	KeyTasteWatchTime = "mw_taste_watch_time"
	KeyTasteEnding    = "mw_taste_ending"
	KeyTasteKeywords  = "mw_tast_keyword"
)

// LocalStore is a string key/value store with browser local-storage
// semantics: last write wins, values have no schema.
type LocalStore struct {
	db *sql.DB
}

func NewLocalStore(db *sql.DB) *LocalStore {
	return &LocalStore{db: db}
}

// GetItem returns the value for key and whether it was present.
func (s *LocalStore) GetItem(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *LocalStore) SetItem(key, value string) error {
	return s.SetItems(map[string]string{key: value})
}

// SetItems writes all values in one transaction.
func (s *LocalStore) SetItems(items map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin write: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for key, value := range items {
		_, err := tx.Exec(`
			INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, now)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// RemoveItems deletes keys. Missing keys are ignored.
func (s *LocalStore) RemoveItems(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.Exec("DELETE FROM local_storage WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// GetItems returns the present subset of keys.
func (s *LocalStore) GetItems(keys ...string) (map[string]string, error) {
	items := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok, err := s.GetItem(key)
		if err != nil {
			return nil, err
		}
		if ok {
			items[key] = value
		}
	}
	return items, nil
}

// EncodeStrings renders values as the JSON array stored for list settings.
func EncodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}
