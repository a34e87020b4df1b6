package buildexec

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Settings is the process-wide key/value store shared with the build
// backend. Writes are logged so operators can trace how the build
// configuration was assembled.
type Settings struct {
	mu     sync.RWMutex
	values map[string]string
	log    *logrus.Entry
}

// NewSettings creates an empty settings store.
func NewSettings(log *logrus.Entry) *Settings {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Settings{
		values: make(map[string]string),
		log:    log,
	}
}

// Get returns the value for a key and whether it is set.
func (s *Settings) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// GetDefault returns the value for a key, or fallback when unset.
func (s *Settings) GetDefault(key, fallback string) string {
	if value, ok := s.Get(key); ok {
		return value
	}
	return fallback
}

// Set stores a value.
func (s *Settings) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Update applies multiple settings. When overwrite is false, keys that
// already hold a different value are left alone. Every decision is logged
// at debug level.
func (s *Settings) Update(values map[string]string, overwrite bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values[key]
		old, exists := s.values[key]
		switch {
		case exists && old == value:
			continue
		case exists && !overwrite:
			s.log.WithFields(logrus.Fields{"key": key, "kept": old}).
				Debug("Setup not overwriting existing value")
		case exists:
			s.log.WithFields(logrus.Fields{"key": key, "old": old, "new": value}).
				Debug("Setup overwriting value")
			s.values[key] = value
		default:
			s.log.WithFields(logrus.Fields{"key": key, "value": value}).
				Debug("Setup value")
			s.values[key] = value
		}
	}
}

// Override installs a temporary value for key and returns a function that
// restores the previous state, deleting the key if it was not set before.
// The restore function must be called on every exit path, typically via
// defer.
func (s *Settings) Override(key, value string) (restore func()) {
	s.mu.Lock()
	old, existed := s.values[key]
	s.values[key] = value
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.values[key] = old
		} else {
			delete(s.values, key)
		}
	}
}

// Snapshot returns a copy of all current settings.
func (s *Settings) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make(map[string]string, len(s.values))
	for key, value := range s.values {
		copied[key] = value
	}
	return copied
}
