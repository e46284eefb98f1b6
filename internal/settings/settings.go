package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Key is the single preference entry the application stores
const Key = "zhuyinFlashcardsSettings"

// ErrUnknownSetting is returned by Set for names other than the JSON keys
// of Settings
var ErrUnknownSetting = errors.New("unknown setting")

// Settings are the user preferences of the study session
type Settings struct {
	ShowPinyin   bool `json:"showPinyin"`
	OverviewMode bool `json:"overviewMode"`
}

// Defaults returns the preferences used when nothing is stored
func Defaults() Settings {
	return Settings{
		ShowPinyin:   true,
		OverviewMode: false,
	}
}

// Decode merges the stored JSON object over the defaults. Keys present in
// data win, missing keys keep their default and unknown keys are ignored.
func Decode(data []byte) (Settings, error) {
	s := Defaults()
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("invalid settings data: %w", err)
	}
	return s, nil
}

// Encode serializes the settings for storage
func (s Settings) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Set changes one preference by its stored name
func (s *Settings) Set(name, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, name, err)
	}

	switch name {
	case "showPinyin":
		s.ShowPinyin = b
	case "overviewMode":
		s.OverviewMode = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	return nil
}

// Load reads the preferences from store. It never fails: a missing entry
// yields the defaults, unreadable or corrupted data is reported to warn and
// the defaults are used.
func Load(store Store, warn io.Writer) Settings {
	data, err := store.Get(Key)
	if errors.Is(err, ErrNotFound) {
		return Defaults()
	}
	if err != nil {
		fmt.Fprintf(warn, "Warning: Could not read settings: %v\n", err)
		return Defaults()
	}

	s, err := Decode(data)
	if err != nil {
		fmt.Fprintf(warn, "Warning: Ignoring corrupted settings: %v\n", err)
		return Defaults()
	}
	return s
}

// Save writes the preferences to store
func Save(store Store, s Settings) error {
	data, err := s.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := store.Put(Key, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Reset removes the stored preferences so the defaults apply again
func Reset(store Store) error {
	if err := store.Delete(Key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	return nil
}
