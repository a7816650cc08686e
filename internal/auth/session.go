// internal/auth/session.go
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "plexport"
	// FallbackDir is the directory, relative to the home directory, for
	// file-based session storage when no keyring is available
	FallbackDir = ".plexport/sessions"

	manifestKey = "_manifest"
)

// ErrSessionExpired is returned when loading a session past its expiry
var ErrSessionExpired = errors.New("session expired")

// SessionData represents a stored login session
type SessionData struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Cookies   []Cookie  `json:"cookies"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Cookie represents a browser cookie
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Expired reports whether the session is past its expiry at t
func (s *SessionData) Expired(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && t.After(s.ExpiresAt)
}

// Store persists sessions in the OS keyring, or as files in a directory
// when the keyring is unavailable (Codespaces, CI, headless Linux)
type Store struct {
	dir string // empty means keyring
}

// NewStore picks the keyring when it is usable and the fallback directory
// otherwise
func NewStore() (*Store, error) {
	if !useFileBasedStorage() {
		return &Store{}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}
	return NewFileStore(filepath.Join(home, FallbackDir)), nil
}

// NewFileStore returns a Store that keeps one JSON file per session in dir
func NewFileStore(dir string) *Store {
	return &Store{dir: dir}
}

// Backend names the storage in use
func (s *Store) Backend() string {
	if s.dir != "" {
		return "file:" + s.dir
	}
	return "keyring"
}

// useFileBasedStorage probes the keyring once per process
var fileBasedStorageCache *bool

func useFileBasedStorage() bool {
	if fileBasedStorageCache != nil {
		return *fileBasedStorageCache
	}

	if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
		result := true
		fileBasedStorageCache = &result
		return true
	}

	testKey := "_test_keyring_access_"
	err := keyring.Set(KeyringService, testKey, "test")
	result := err != nil
	fileBasedStorageCache = &result

	if !result {
		_ = keyring.Delete(KeyringService, testKey)
	}
	return result
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("session name cannot be empty")
	}
	if name == manifestKey || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid session name %q", name)
	}
	return nil
}

func (s *Store) path(name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Save stores a session, replacing any session with the same name
func (s *Store) Save(session *SessionData) error {
	if err := validName(session.Name); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if s.dir != "" {
		path, err := s.path(session.Name)
		if err != nil {
			return fmt.Errorf("failed to get session path: %w", err)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to save session file: %w", err)
		}
		return nil
	}

	if err := keyring.Set(KeyringService, session.Name, string(data)); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return s.updateManifest(session.Name, true)
}

// Load retrieves a session. Expired sessions return ErrSessionExpired.
func (s *Store) Load(name string) (*SessionData, error) {
	session, err := s.load(name)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		return session, ErrSessionExpired
	}
	return session, nil
}

func (s *Store) load(name string) (*SessionData, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	var data string
	if s.dir != "" {
		path, err := s.path(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get session path: %w", err)
		}
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load session file: %w", err)
		}
		data = string(fileData)
	} else {
		v, err := keyring.Get(KeyringService, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load from keyring: %w", err)
		}
		data = v
	}

	var session SessionData
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}
	return &session, nil
}

// Delete removes a session; deleting a missing file session is not an error
func (s *Store) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}

	if s.dir != "" {
		path, err := s.path(name)
		if err != nil {
			return fmt.Errorf("failed to get session path: %w", err)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete session file: %w", err)
		}
		return nil
	}

	if err := keyring.Delete(KeyringService, name); err != nil {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return s.updateManifest(name, false)
}

// List returns the stored session names in sorted order
func (s *Store) List() ([]string, error) {
	if s.dir != "" {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			if os.IsNotExist(err) {
				return []string{}, nil
			}
			return nil, err
		}

		sessions := []string{}
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
				sessions = append(sessions, strings.TrimSuffix(entry.Name(), ".json"))
			}
		}
		sort.Strings(sessions)
		return sessions, nil
	}

	// The keyring cannot enumerate entries, so names live in a manifest
	manifestData, err := keyring.Get(KeyringService, manifestKey)
	if err != nil {
		return []string{}, nil
	}

	var sessions []string
	if err := json.Unmarshal([]byte(manifestData), &sessions); err != nil {
		return nil, fmt.Errorf("failed to deserialize manifest: %w", err)
	}
	sort.Strings(sessions)
	return sessions, nil
}

// updateManifest adds or removes a name from the keyring manifest
func (s *Store) updateManifest(name string, add bool) error {
	sessions, _ := s.List()

	kept := sessions[:0]
	for _, existing := range sessions {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	if add {
		kept = append(kept, name)
	}

	data, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	return keyring.Set(KeyringService, manifestKey, string(data))
}
