package prefs

import (
	"errors"
	"sync"

	"github.com/sacred-word/core/internal/modules/processing/speech"
	"github.com/sacred-word/core/internal/pkg/localstore"
)

// Each preference lives under its own storage key; changing one never
// rewrites the others.
const (
	KeyVoice            = "voice"
	KeyFontFamily       = "font_family"
	KeyFontSize         = "font_size"
	KeyTheme            = "theme"
	KeyExplanationStyle = "explanation_style"

	storageKeyPrefix = "pref_"
)

// ErrUnknownKey is returned for a preference name outside the fixed set.
var ErrUnknownKey = errors.New("unknown preference key")

const MsgUnknownKey = "এই নামে কোনো সেটিং নেই।"

// Preferences are the reader-facing display and playback settings.
type Preferences struct {
	Voice            string `json:"voice"`
	FontFamily       string `json:"font_family"`
	FontSize         int    `json:"font_size"`
	Theme            string `json:"theme"`
	ExplanationStyle string `json:"explanation_style"`
}

// Defaults returns the out-of-the-box preferences.
func Defaults() Preferences {
	return Preferences{
		Voice:            "Kore",
		FontFamily:       "Hind Siliguri",
		FontSize:         18,
		Theme:            "dark",
		ExplanationStyle: "modern",
	}
}

// Service reads and writes preferences through the key-value store. A
// missing or corrupt stored value yields that preference's default.
type Service struct {
	store localstore.Store
	mu    sync.Mutex
}

func NewService(store localstore.Store) *Service {
	return &Service{store: store}
}

func storageKey(key string) string { return storageKeyPrefix + key }

func (s *Service) loadString(key, fallback string) string {
	var v string
	status, err := s.store.Load(storageKey(key), &v)
	if err != nil || status != localstore.StatusFound || v == "" {
		return fallback
	}
	return v
}

func (s *Service) loadInt(key string, fallback int) int {
	var v int
	status, err := s.store.Load(storageKey(key), &v)
	if err != nil || status != localstore.StatusFound {
		return fallback
	}
	return v
}

func (s *Service) Get() (Preferences, error) {
	d := Defaults()
	p := Preferences{
		Voice:            s.loadString(KeyVoice, d.Voice),
		FontFamily:       s.loadString(KeyFontFamily, d.FontFamily),
		FontSize:         s.loadInt(KeyFontSize, d.FontSize),
		Theme:            s.loadString(KeyTheme, d.Theme),
		ExplanationStyle: s.loadString(KeyExplanationStyle, d.ExplanationStyle),
	}
	return normalize(p), nil
}

// GetOne returns a single preference value by key.
func (s *Service) GetOne(key string) (interface{}, error) {
	p, err := s.Get()
	if err != nil {
		return nil, err
	}
	switch key {
	case KeyVoice:
		return p.Voice, nil
	case KeyFontFamily:
		return p.FontFamily, nil
	case KeyFontSize:
		return p.FontSize, nil
	case KeyTheme:
		return p.Theme, nil
	case KeyExplanationStyle:
		return p.ExplanationStyle, nil
	default:
		return nil, ErrUnknownKey
	}
}

// SetOne updates a single preference. Out-of-range values fall back to the
// default before persisting.
func (s *Service) SetOne(key string, raw interface{}) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setOneLocked(key, raw)
}

func (s *Service) setOneLocked(key string, raw interface{}) (Preferences, error) {
	p, err := s.Get()
	if err != nil {
		return p, err
	}

	switch key {
	case KeyVoice:
		str, _ := raw.(string)
		p.Voice = str
	case KeyFontFamily:
		str, _ := raw.(string)
		p.FontFamily = str
	case KeyFontSize:
		// JSON numbers decode as float64.
		switch n := raw.(type) {
		case float64:
			p.FontSize = int(n)
		case int:
			p.FontSize = n
		default:
			p.FontSize = 0
		}
	case KeyTheme:
		str, _ := raw.(string)
		p.Theme = str
	case KeyExplanationStyle:
		str, _ := raw.(string)
		p.ExplanationStyle = str
	default:
		return p, ErrUnknownKey
	}

	p = normalize(p)
	if err := s.persistOne(key, p); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Service) persistOne(key string, p Preferences) error {
	switch key {
	case KeyVoice:
		return s.store.Save(storageKey(key), p.Voice)
	case KeyFontFamily:
		return s.store.Save(storageKey(key), p.FontFamily)
	case KeyFontSize:
		return s.store.Save(storageKey(key), p.FontSize)
	case KeyTheme:
		return s.store.Save(storageKey(key), p.Theme)
	case KeyExplanationStyle:
		return s.store.Save(storageKey(key), p.ExplanationStyle)
	default:
		return ErrUnknownKey
	}
}

// Update merges non-nil fields of the patch, each into its own storage key.
func (s *Service) Update(patch PatchDTO) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type change struct {
		key   string
		value interface{}
	}
	changes := make([]change, 0, 5)
	if patch.Voice != nil {
		changes = append(changes, change{KeyVoice, *patch.Voice})
	}
	if patch.FontFamily != nil {
		changes = append(changes, change{KeyFontFamily, *patch.FontFamily})
	}
	if patch.FontSize != nil {
		changes = append(changes, change{KeyFontSize, *patch.FontSize})
	}
	if patch.Theme != nil {
		changes = append(changes, change{KeyTheme, *patch.Theme})
	}
	if patch.ExplanationStyle != nil {
		changes = append(changes, change{KeyExplanationStyle, *patch.ExplanationStyle})
	}

	var p Preferences
	var err error
	for _, ch := range changes {
		if p, err = s.setOneLocked(ch.key, ch.value); err != nil {
			return p, err
		}
	}
	if len(changes) == 0 {
		return s.Get()
	}
	return p, nil
}

// ResetOne clears a single preference back to its default.
func (s *Service) ResetOne(key string) (Preferences, error) {
	if !knownKey(key) {
		p, _ := s.Get()
		return p, ErrUnknownKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(storageKey(key)); err != nil {
		return Defaults(), err
	}
	return s.Get()
}

// Reset restores all defaults.
func (s *Service) Reset() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range allKeys() {
		if err := s.store.Remove(storageKey(key)); err != nil {
			return Defaults(), err
		}
	}
	return Defaults(), nil
}

func allKeys() []string {
	return []string{KeyVoice, KeyFontFamily, KeyFontSize, KeyTheme, KeyExplanationStyle}
}

func knownKey(key string) bool {
	for _, k := range allKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// PatchDTO carries a partial preferences update. Nil fields are left
// untouched.
type PatchDTO struct {
	Voice            *string `json:"voice"`
	FontFamily       *string `json:"font_family"`
	FontSize         *int    `json:"font_size"`
	Theme            *string `json:"theme"`
	ExplanationStyle *string `json:"explanation_style"`
}

func normalize(p Preferences) Preferences {
	d := Defaults()
	p.Voice = speech.NormalizeVoice(p.Voice, d.Voice)
	if p.FontFamily == "" {
		p.FontFamily = d.FontFamily
	}
	if p.FontSize < 12 || p.FontSize > 32 {
		p.FontSize = d.FontSize
	}
	switch p.Theme {
	case "dark", "light":
	default:
		p.Theme = d.Theme
	}
	switch p.ExplanationStyle {
	case "modern", "classical":
	default:
		p.ExplanationStyle = d.ExplanationStyle
	}
	return p
}
