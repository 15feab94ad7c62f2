// Package prefs remembers each player's last throw settings between games.
//
// Settings live in the per-user data directory managed by gdata, one YAML
// property per player name. A Store opened without a data directory keeps
// settings in memory only.
package prefs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application directory name.
const AppName = "tui_gorillas"

const playersObject = "players"

// ThrowSettings are the speed and angle a player last threw with.
type ThrowSettings struct {
	Speed int `yaml:"speed"`
	Angle int `yaml:"angle"`
}

// Store loads and saves ThrowSettings.
type Store struct {
	mu      sync.Mutex
	manager *gdata.Manager // nil means memory-only
	cache   map[string]ThrowSettings
}

// Open opens the on-disk store for appName. An empty appName uses AppName.
func Open(appName string) (*Store, error) {
	if appName == "" {
		appName = AppName
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("prefs: open data dir: %w", err)
	}
	return NewStore(m), nil
}

// NewStore wraps a gdata manager. A nil manager gives a memory-only store.
func NewStore(m *gdata.Manager) *Store {
	return &Store{
		manager: m,
		cache:   make(map[string]ThrowSettings),
	}
}

// Persistent reports whether settings survive the process.
func (s *Store) Persistent() bool {
	return s != nil && s.manager != nil
}

// Key turns a player name into a storage key.
// Letters and digits are kept (lowercased), everything else becomes '_'.
func Key(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Load returns the saved settings for name. ok is false when nothing
// was saved yet.
func (s *Store) Load(name string) (ThrowSettings, bool, error) {
	if s == nil {
		return ThrowSettings{}, false, nil
	}
	key := Key(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ts, ok := s.cache[key]; ok {
		return ts, true, nil
	}
	if s.manager == nil || !s.manager.ObjectPropExists(playersObject, key) {
		return ThrowSettings{}, false, nil
	}

	data, err := s.manager.LoadObjectProp(playersObject, key)
	if err != nil {
		return ThrowSettings{}, false, fmt.Errorf("prefs: load %q: %w", name, err)
	}
	var ts ThrowSettings
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return ThrowSettings{}, false, fmt.Errorf("prefs: decode %q: %w", name, err)
	}
	s.cache[key] = ts
	return ts, true, nil
}

// Save stores the settings for name.
func (s *Store) Save(name string, ts ThrowSettings) error {
	if s == nil {
		return nil
	}
	key := Key(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[key] = ts
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(ts)
	if err != nil {
		return fmt.Errorf("prefs: encode %q: %w", name, err)
	}
	if err := s.manager.SaveObjectProp(playersObject, key, data); err != nil {
		return fmt.Errorf("prefs: save %q: %w", name, err)
	}
	return nil
}
