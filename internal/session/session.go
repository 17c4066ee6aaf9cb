// Package session persists key/value state, command aliases, and
// remote-device addresses across runs.
//
// State lives in a single JSON document addressed with dotted paths.
// This is the default implementation of the session collaborator
// boundary; the dispatch core only ever sees the interface.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Session errors.
var (
	// ErrBadKey indicates a key that cannot be used as a JSON path.
	ErrBadKey = errors.New("session: invalid key")
)

const (
	aliasPrefix  = "aliases."
	devicePrefix = "devices."
)

// Session is a JSON-file-backed store. It is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	path string
	doc  []byte
}

// Open loads the session document at path, creating an empty one if
// the file does not exist. An empty path yields an in-memory session
// that is never persisted.
func Open(path string) (*Session, error) {
	s := &Session{path: path, doc: []byte("{}")}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("session: reading %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("session: %s is not valid JSON", path)
	}
	s.doc = data
	return s, nil
}

// Get returns the string value at a dotted key path.
func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := gjson.GetBytes(s.doc, key)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// Set writes a string value at a dotted key path and persists.
func (s *Session) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.SetBytes(s.doc, key, value)
	if err != nil {
		return fmt.Errorf("session: setting %q: %w", key, err)
	}
	s.doc = doc
	return s.flushLocked()
}

// Delete removes a key path and persists.
func (s *Session) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.DeleteBytes(s.doc, key)
	if err != nil {
		return fmt.Errorf("session: deleting %q: %w", key, err)
	}
	s.doc = doc
	return s.flushLocked()
}

// Keys returns the top-level keys of the session document.
func (s *Session) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	gjson.ParseBytes(s.doc).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Alias returns the expansion registered for a command alias.
// Names are case-insensitive.
func (s *Session) Alias(name string) (string, bool) {
	return s.Get(aliasPrefix + strings.ToLower(name))
}

// SetAlias registers a command alias under its folded name.
func (s *Session) SetAlias(name, expansion string) error {
	return s.Set(aliasPrefix+strings.ToLower(name), expansion)
}

// Aliases returns all registered aliases.
func (s *Session) Aliases() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string)
	gjson.GetBytes(s.doc, "aliases").ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}

// Device returns the host address registered for a remote device name.
func (s *Session) Device(name string) (string, bool) {
	return s.Get(devicePrefix + name)
}

// SetDevice registers a remote device address.
func (s *Session) SetDevice(name, host string) error {
	return s.Set(devicePrefix+name, host)
}

// Path returns the backing file path, empty for in-memory sessions.
func (s *Session) Path() string {
	return s.path
}

// flushLocked writes the document atomically. Callers hold s.mu.
func (s *Session) flushLocked() error {
	if s.path == "" {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: creating %s: %w", dir, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, s.doc, 0o600); err != nil {
		return fmt.Errorf("session: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session: replacing %s: %w", s.path, err)
	}
	return nil
}

// checkKey rejects keys that would corrupt the JSON path syntax.
func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrBadKey
	}
	if strings.ContainsAny(key, "*?|#@") {
		return fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return nil
}
