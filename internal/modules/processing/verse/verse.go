package verse

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	appcfg "github.com/sacred-word/core/internal/config"
	"github.com/sacred-word/core/internal/pkg/localstore"
	"go.uber.org/zap"
)

const (
	savedVersesKey        = "sacred_verses"
	defaultLookupTimeout  = 30 * time.Second
	verseIDLength         = 9
	verseIDAlphabet       = "0123456789abcdefghijklmnopqrstuvwxyz"
	defaultLookupMaxQuery = 500
)

// ConfigSource provides the current runtime configuration.
type ConfigSource interface {
	Get() (*appcfg.FullConfig, error)
}

// Service resolves scripture lookups and manages the saved list.
type Service struct {
	cfgSvc    ConfigSource
	store     localstore.Store
	transport Transport
	log       *zap.Logger

	cache sync.Map // cache key -> *Verse
	busy  atomic.Bool
	mu    sync.Mutex // guards saved-list read-modify-write
}

func NewService(cfgSvc ConfigSource, store localstore.Store, transport Transport, log *zap.Logger) *Service {
	if transport == nil {
		transport = NewTransport()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfgSvc:    cfgSvc,
		store:     store,
		transport: transport,
		log:       log,
	}
}

// CacheKey builds the lookup cache key. Queries differing only in case or
// surrounding whitespace share an entry; styles never do.
func CacheKey(query string, style Style) string {
	return strings.ToLower(strings.TrimSpace(query)) + "_" + string(style)
}

func newVerseID() string {
	b := make([]byte, verseIDLength)
	for i := range b {
		b[i] = verseIDAlphabet[rand.IntN(len(verseIDAlphabet))]
	}
	return string(b)
}

// Lookup resolves a query to a verse, serving repeats from cache. Only one
// uncached lookup runs at a time; concurrent callers get ErrLookupInFlight.
func (s *Service) Lookup(ctx context.Context, query, styleRaw string) (*Verse, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, fmt.Errorf("query is required")
	}
	if len([]rune(query)) > defaultLookupMaxQuery {
		query = string([]rune(query)[:defaultLookupMaxQuery])
	}

	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return nil, false, err
	}

	style := ParseStyle(styleRaw)
	if styleRaw == "" && cfg.AI.DefaultStyle != "" {
		style = ParseStyle(cfg.AI.DefaultStyle)
	}

	key := CacheKey(query, style)
	if cached, ok := s.cache.Load(key); ok {
		return cached.(*Verse), true, nil
	}

	if !cfg.AI.EnableLookup {
		return nil, false, ErrLookupDisabled
	}
	provider := SelectProvider(cfg.AI, cfg.AI.VerseModel)
	if provider == nil {
		return nil, false, ErrLookupDisabled
	}

	if !s.busy.CompareAndSwap(false, true) {
		return nil, false, ErrLookupInFlight
	}
	defer s.busy.Store(false)

	timeout := defaultLookupTimeout
	if cfg.AI.RequestTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.AI.RequestTimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	systemPrompt, prompt := buildLookupPrompt(style, query)
	raw, err := s.transport.Generate(ctx, provider, RequestDescriptor{
		SystemInstruction: systemPrompt,
		UserContent:       prompt,
		Schema:            lookupSchema(),
		MaxOutputTokens:   lookupMaxOutputTokens,
		JSONResponse:      true,
	})
	if err != nil {
		s.log.Warn("verse lookup failed", zap.String("style", string(style)), zap.Error(err))
		return nil, false, err
	}

	v, err := extractVerse(raw, style)
	if err != nil {
		s.log.Warn("verse extraction failed", zap.Error(err))
		return nil, false, err
	}
	v.ID = newVerseID()
	v.Timestamp = time.Now().UnixMilli()

	s.cache.Store(key, v)
	return v, false, nil
}

// InvalidateCache drops all cached lookups. Called when the runtime
// configuration changes.
func (s *Service) InvalidateCache() {
	s.cache.Range(func(key, _ interface{}) bool {
		s.cache.Delete(key)
		return true
	})
}

// Saved returns the saved verse list, newest first. A missing or corrupt
// stored value yields an empty list.
func (s *Service) Saved() ([]Verse, error) {
	var items []Verse
	status, err := s.store.Load(savedVersesKey, &items)
	if err != nil {
		return nil, err
	}
	if status != localstore.StatusFound || items == nil {
		return []Verse{}, nil
	}
	return items, nil
}

// ToggleSave adds the verse to the saved list, or removes it if a verse
// with the same reference is already saved. Returns the resulting state.
func (s *Service) ToggleSave(v Verse) (bool, []Verse, error) {
	if strings.TrimSpace(v.Reference) == "" {
		return false, nil, fmt.Errorf("reference is required")
	}
	if v.ID == "" {
		v.ID = newVerseID()
	}
	// The save time and the tags belong to this store, not the caller.
	v.Timestamp = time.Now().UnixMilli()
	v.Tags = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Saved()
	if err != nil {
		return false, nil, err
	}

	filtered := make([]Verse, 0, len(items)+1)
	removed := false
	for _, item := range items {
		if item.Reference == v.Reference {
			removed = true
			continue
		}
		filtered = append(filtered, item)
	}

	if removed {
		if err := s.store.Save(savedVersesKey, filtered); err != nil {
			return false, nil, err
		}
		return false, filtered, nil
	}

	next := append([]Verse{v}, filtered...)
	if err := s.store.Save(savedVersesKey, next); err != nil {
		return false, nil, err
	}
	return true, next, nil
}

// matchesSaved reports whether a saved item is addressed by key, which may
// be either the record id or the reference.
func matchesSaved(item Verse, key string) bool {
	return item.ID == key || item.Reference == key
}

// UpdateTags replaces the tag list of the saved verse addressed by id or
// reference. Blank tags are dropped; a nil list clears the tags.
func (s *Service) UpdateTags(reference string, tags []string) (*Verse, error) {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		cleaned = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Saved()
	if err != nil {
		return nil, err
	}

	for i := range items {
		if !matchesSaved(items[i], reference) {
			continue
		}
		items[i].Tags = cleaned
		if err := s.store.Save(savedVersesKey, items); err != nil {
			return nil, err
		}
		return &items[i], nil
	}
	return nil, ErrVerseNotSaved
}

// RemoveSaved deletes the saved verse addressed by id or reference.
// Removing an unsaved key is a no-op.
func (s *Service) RemoveSaved(reference string) ([]Verse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Saved()
	if err != nil {
		return nil, err
	}

	filtered := make([]Verse, 0, len(items))
	for _, item := range items {
		if matchesSaved(item, reference) {
			continue
		}
		filtered = append(filtered, item)
	}
	if err := s.store.Save(savedVersesKey, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}
