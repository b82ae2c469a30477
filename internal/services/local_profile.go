package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"moviewave/internal/database"
)

// LocalProfile holds the editable profile fields kept only on this device.
type LocalProfile struct {
	Nickname string `json:"nickname"`
	RealName string `json:"realname"`
	Age      string `json:"age"`
	Gender   string `json:"gender"`
	Handle   string `json:"id"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

// TasteSurvey holds the answers of the taste survey.
type TasteSurvey struct {
	Genres    []string `json:"genres"`
	Moods     []string `json:"moods"`
	WatchTime string   `json:"watch_time"`
	Endings   []string `json:"endings"`
	Keywords  []string `json:"keywords"`
}

const defaultWatchTime = "90"

var profileKeys = []string{
	database.KeyProfileNickname,
	database.KeyProfileName,
	database.KeyProfileRealName,
	database.KeyProfileAge,
	database.KeyProfileGender,
	database.KeyProfileHandle,
	database.KeyProfileEmail,
	database.KeyProfileBio,
}

var surveyKeys = []string{
	database.KeyTasteGenres,
	database.KeyTasteMoods,
	database.KeyTasteWatchTime,
	database.KeyTasteEnding,
	database.KeyTasteKeywords,
}

// ProfileStore reads and writes the local profile and taste survey.
type ProfileStore struct {
	store    KeyValueStore
	identity *IdentityStore
}

func NewProfileStore(store KeyValueStore, identity *IdentityStore) *ProfileStore {
	return &ProfileStore{store: store, identity: identity}
}

// Profile returns the saved profile. A missing nickname falls back to the
// display name.
func (p *ProfileStore) Profile() (*LocalProfile, error) {
	items, err := p.store.GetItems(profileKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	nickname := items[database.KeyProfileNickname]
	if nickname == "" {
		nickname = items[database.KeyProfileName]
	}

	return &LocalProfile{
		Nickname: nickname,
		RealName: items[database.KeyProfileRealName],
		Age:      items[database.KeyProfileAge],
		Gender:   items[database.KeyProfileGender],
		Handle:   items[database.KeyProfileHandle],
		Email:    items[database.KeyProfileEmail],
		Bio:      items[database.KeyProfileBio],
	}, nil
}

// SaveProfile stores the profile and makes the nickname the display name.
// Profile and identity keys go out in one write.
func (p *ProfileStore) SaveProfile(profile LocalProfile) (*LocalProfile, error) {
	profile.Nickname = strings.TrimSpace(profile.Nickname)
	profile.RealName = strings.TrimSpace(profile.RealName)
	profile.Handle = strings.TrimSpace(profile.Handle)
	profile.Email = strings.TrimSpace(profile.Email)
	profile.Bio = strings.TrimSpace(profile.Bio)

	err := p.identity.updateProfile(map[string]string{
		database.KeyProfileNickname: profile.Nickname,
		database.KeyProfileRealName: profile.RealName,
		database.KeyProfileAge:      profile.Age,
		database.KeyProfileGender:   profile.Gender,
		database.KeyProfileHandle:   profile.Handle,
		database.KeyProfileEmail:    profile.Email,
	}, profile.Nickname, profile.Bio)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfileStore) Survey() (*TasteSurvey, error) {
	items, err := p.store.GetItems(surveyKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to load taste survey: %w", err)
	}

	survey := &TasteSurvey{
		Genres:    decodeStrings(items[database.KeyTasteGenres]),
		Moods:     decodeStrings(items[database.KeyTasteMoods]),
		WatchTime: items[database.KeyTasteWatchTime],
		Endings:   decodeStrings(items[database.KeyTasteEnding]),
		Keywords:  decodeStrings(items[database.KeyTasteKeywords]),
	}
	if survey.WatchTime == "" {
		survey.WatchTime = defaultWatchTime
	}
	return survey, nil
}

func (p *ProfileStore) SaveSurvey(survey TasteSurvey) error {
	if survey.WatchTime == "" {
		survey.WatchTime = defaultWatchTime
	}

	err := p.store.SetItems(map[string]string{
		database.KeyTasteGenres:    database.EncodeStrings(survey.Genres),
		database.KeyTasteMoods:     database.EncodeStrings(survey.Moods),
		database.KeyTasteWatchTime: survey.WatchTime,
		database.KeyTasteEnding:    database.EncodeStrings(survey.Endings),
		database.KeyTasteKeywords:  database.EncodeStrings(survey.Keywords),
	})
	if err != nil {
		return fmt.Errorf("failed to save taste survey: %w", err)
	}
	return nil
}

func decodeStrings(value string) []string {
	if value == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(value), &values); err != nil || values == nil {
		return []string{}
	}
	return values
}
