// Package settings persists the user's column toggles between runs.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/law-makers/plexport/pkg/models"
	"github.com/rs/zerolog/log"
)

// FileName is the settings file inside the plexport home directory
const FileName = "settings.json"

// Store reads and writes the nine column flags as a JSON object
type Store struct {
	path string
}

// NewStore returns a Store backed by path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore returns the Store at ~/.plexport/settings.json
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}
	return NewStore(filepath.Join(home, ".plexport", FileName)), nil
}

// Path returns the settings file location
func (s *Store) Path() string {
	return s.path
}

// Defaults enables every column
func Defaults() models.RunConfiguration {
	return models.NewRunConfiguration(models.AllFields...)
}

// Load returns the saved configuration. A missing file yields Defaults and
// a missing key counts as enabled.
func (s *Store) Load() (models.RunConfiguration, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return models.RunConfiguration{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var saved map[string]bool
	if err := json.Unmarshal(data, &saved); err != nil {
		return models.RunConfiguration{}, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}

	flags := Defaults().Flags()
	for key, enabled := range saved {
		if _, ok := models.ParseField(key); !ok {
			log.Debug().Str("key", key).Msg("Ignoring unknown settings key")
			continue
		}
		flags[key] = enabled
	}
	return models.ConfigurationFromFlags(flags), nil
}

// Save writes cfg, replacing the previous settings
func (s *Store) Save(cfg models.RunConfiguration) error {
	data, err := json.MarshalIndent(cfg.Flags(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Set toggles the named columns and saves the result
func (s *Store) Set(changes map[string]bool) (models.RunConfiguration, error) {
	cfg, err := s.Load()
	if err != nil {
		return cfg, err
	}

	flags := cfg.Flags()
	for key, enabled := range changes {
		f, ok := models.ParseField(key)
		if !ok {
			return cfg, fmt.Errorf("unknown column %q (valid: %s)", key, strings.Join(Keys(), ", "))
		}
		flags[f.Key()] = enabled
	}

	cfg = models.ConfigurationFromFlags(flags)
	return cfg, s.Save(cfg)
}

// Reset removes the saved settings so Defaults apply again
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	return nil
}

// Keys lists the valid settings keys in column order
func Keys() []string {
	keys := make([]string, len(models.AllFields))
	for i, f := range models.AllFields {
		keys[i] = f.Key()
	}
	return keys
}

// ParseAssignments parses key=value pairs such as "cover=false". A bare
// key means true.
func ParseAssignments(args []string) (map[string]bool, error) {
	changes := make(map[string]bool, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		key = strings.TrimSpace(strings.ToLower(key))
		enabled := true
		if found {
			switch strings.ToLower(strings.TrimSpace(value)) {
			case "true", "on", "yes", "1":
			case "false", "off", "no", "0":
				enabled = false
			default:
				return nil, fmt.Errorf("invalid value %q for %s", value, key)
			}
		}
		changes[key] = enabled
	}
	return changes, nil
}

// Describe renders cfg as sorted "key=bool" pairs for logs
func Describe(cfg models.RunConfiguration) string {
	flags := cfg.Flags()
	pairs := make([]string, 0, len(flags))
	for key, enabled := range flags {
		pairs = append(pairs, fmt.Sprintf("%s=%t", key, enabled))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

// ParseFieldList parses a comma-separated column list such as
// "index,title,url". "all" enables every column.
func ParseFieldList(list string) (models.RunConfiguration, error) {
	var fields []models.Field
	for _, key := range strings.Split(list, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if strings.EqualFold(key, "all") {
			return Defaults(), nil
		}
		f, ok := models.ParseField(key)
		if !ok {
			return models.RunConfiguration{}, fmt.Errorf("unknown column %q (valid: %s)", key, strings.Join(Keys(), ", "))
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return models.RunConfiguration{}, fmt.Errorf("no columns selected")
	}
	return models.NewRunConfiguration(fields...), nil
}
