package services

import (
	"errors"
	"reflect"
	"testing"

	"moviewave/internal/database"
)

func TestProfileNicknameFallsBackToDisplayName(t *testing.T) {
	identity, store := setupIdentity(t)
	store.items[database.KeyProfileName] = "Hana"
	profiles := NewProfileStore(store, identity)

	profile, err := profiles.Profile()
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Nickname != "Hana" {
		t.Errorf("Nickname = %q, want Hana", profile.Nickname)
	}
}

func TestSaveProfileUpdatesIdentity(t *testing.T) {
	identity, store := setupIdentity(t)
	profiles := NewProfileStore(store, identity)

	var seen Snapshot
	identity.Subscribe(func(s Snapshot) { seen = s })

	saved, err := profiles.SaveProfile(LocalProfile{
		Nickname: "  movie_fan ",
		Email:    "fan@example.com ",
		Handle:   "fan01",
		Bio:      "Likes thrillers",
	})
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if saved.Nickname != "movie_fan" || saved.Email != "fan@example.com" {
		t.Errorf("fields not trimmed: %+v", saved)
	}

	if v, _ := store.get(database.KeyProfileHandle); v != "fan01" {
		t.Errorf("%s = %q", database.KeyProfileHandle, v)
	}
	if v, _ := store.get(database.KeyProfileName); v != "movie_fan" {
		t.Errorf("%s = %q", database.KeyProfileName, v)
	}
	if seen.Name != "movie_fan" || seen.Bio != "Likes thrillers" {
		t.Errorf("identity saw %+v", seen)
	}

	loaded, err := profiles.Profile()
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if *loaded != *saved {
		t.Errorf("Profile() = %+v, want %+v", loaded, saved)
	}
}

func TestSurveyDefaults(t *testing.T) {
	identity, store := setupIdentity(t)
	profiles := NewProfileStore(store, identity)

	survey, err := profiles.Survey()
	if err != nil {
		t.Fatalf("Survey() error = %v", err)
	}
	if survey.WatchTime != "90" {
		t.Errorf("WatchTime = %q, want 90", survey.WatchTime)
	}
	if survey.Genres == nil || len(survey.Genres) != 0 {
		t.Errorf("Genres = %#v, want empty slice", survey.Genres)
	}
}

func TestSaveSurvey(t *testing.T) {
	identity, store := setupIdentity(t)
	profiles := NewProfileStore(store, identity)

	in := TasteSurvey{
		Genres:    []string{"thriller", "sf"},
		Moods:     []string{"tense"},
		WatchTime: "120",
		Endings:   []string{"open"},
		Keywords:  []string{"twist"},
	}
	if err := profiles.SaveSurvey(in); err != nil {
		t.Fatalf("SaveSurvey() error = %v", err)
	}

	if v, _ := store.get("mw_tast_keyword"); v != `["twist"]` {
		t.Errorf("keywords stored as %q", v)
	}

	out, err := profiles.Survey()
	if err != nil {
		t.Fatalf("Survey() error = %v", err)
	}
	if !reflect.DeepEqual(*out, in) {
		t.Errorf("Survey() = %+v, want %+v", out, in)
	}
}

func TestSurveyIgnoresCorruptValues(t *testing.T) {
	identity, store := setupIdentity(t)
	store.items[database.KeyTasteMoods] = "not json"
	profiles := NewProfileStore(store, identity)

	survey, err := profiles.Survey()
	if err != nil {
		t.Fatalf("Survey() error = %v", err)
	}
	if len(survey.Moods) != 0 {
		t.Errorf("Moods = %v", survey.Moods)
	}
}

func TestSaveProfileWritesOnce(t *testing.T) {
	identity, store := setupIdentity(t)
	profiles := NewProfileStore(store, identity)

	store.failNext = errors.New("disk full")
	if _, err := profiles.SaveProfile(LocalProfile{Nickname: "fan", Handle: "fan01", Bio: "b"}); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := store.get(database.KeyProfileHandle); ok {
		t.Error("profile half-saved after failed write")
	}
	if identity.Current().Name != "" {
		t.Errorf("identity changed after failed write: %+v", identity.Current())
	}

	if _, err := profiles.SaveProfile(LocalProfile{Nickname: "fan", Handle: "fan01", Bio: "b"}); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if store.writes != 1 {
		t.Errorf("writes = %d, want 1", store.writes)
	}
	if v, _ := store.get(database.KeyProfileNickname); v != "fan" {
		t.Errorf("%s = %q", database.KeyProfileNickname, v)
	}
}
