// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/contacts/internal/contact"
)

// Config holds all contacts configuration.
type Config struct {
	Store Store `yaml:"store"`
	Log   Log   `yaml:"log"`
	Name  Name  `yaml:"name"`
}

// Store holds address book persistence settings.
type Store struct {
	Path     string `yaml:"path"`     // Snapshot file.
	Autosave bool   `yaml:"autosave"` // Save after add, edit, and remove.
}

// Log holds audit log settings.
type Log struct {
	Path string `yaml:"path"`
}

// Name holds name entry settings.
type Name struct {
	Retries int `yaml:"retries"` // First-name repair attempts.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: Store{
			Path:     ".contacts/auto_save.json",
			Autosave: true,
		},
		Log: Log{
			Path: ".contacts/logs.txt",
		},
		Name: Name{
			Retries: contact.DefaultNameRetries,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return errors.New("config: store.path cannot be empty")
	}
	if c.Log.Path == "" {
		return errors.New("config: log.path cannot be empty")
	}
	if c.Name.Retries < 0 {
		return fmt.Errorf("config: name.retries must be non-negative, got %d", c.Name.Retries)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTS_STORE_PATH, CONTACTS_AUTOSAVE,
// CONTACTS_LOG_PATH, CONTACTS_NAME_RETRIES.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CONTACTS_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("CONTACTS_AUTOSAVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTS_AUTOSAVE %q: %w", v, err)
		}
		c.Store.Autosave = b
	}
	if v := os.Getenv("CONTACTS_LOG_PATH"); v != "" {
		c.Log.Path = v
	}
	if v := os.Getenv("CONTACTS_NAME_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTS_NAME_RETRIES %q: %w", v, err)
		}
		c.Name.Retries = n
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Store *rawStore `yaml:"store"`
	Log   *rawLog   `yaml:"log"`
	Name  *rawName  `yaml:"name"`
}

type rawStore struct {
	Path     *string `yaml:"path"`
	Autosave *bool   `yaml:"autosave"`
}

type rawLog struct {
	Path *string `yaml:"path"`
}

type rawName struct {
	Retries *int `yaml:"retries"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Store != nil {
		if layer.Store.Path != nil {
			c.Store.Path = *layer.Store.Path
		}
		if layer.Store.Autosave != nil {
			c.Store.Autosave = *layer.Store.Autosave
		}
	}
	if layer.Log != nil {
		if layer.Log.Path != nil {
			c.Log.Path = *layer.Log.Path
		}
	}
	if layer.Name != nil {
		if layer.Name.Retries != nil {
			c.Name.Retries = *layer.Name.Retries
		}
	}
}
