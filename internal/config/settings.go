package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danieljhkim/scopekv/internal/kvstore"
	"github.com/spf13/viper"
)

// ErrInvalidBackend indicates a settings file naming an unsupported backend.
var ErrInvalidBackend = errors.New("invalid backend")

// Settings holds user-tunable behavior read from config.yaml and the
// environment (SCOPEKV_ prefix, dots become underscores).
type Settings struct {
	// Backend selects the backing store: sqlite, json or memory
	Backend string `mapstructure:"backend"`

	// SeparateWorkspaceStore keeps workspace keys in their own backing store
	SeparateWorkspaceStore bool `mapstructure:"separate_workspace_store"`

	Log LogSettings `mapstructure:"log"`
}

// LogSettings configures the logger.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Backend:                kvstore.BackendSQLite,
		SeparateWorkspaceStore: false,
		Log: LogSettings{
			Level:  "warn",
			Pretty: false,
		},
	}
}

// LoadSettings reads the settings file at path, if present, and applies
// environment overrides on top of the defaults.
func LoadSettings(path string) (*Settings, error) {
	defaults := DefaultSettings()

	v := viper.New()
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("separate_workspace_store", defaults.SeparateWorkspaceStore)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.pretty", defaults.Log.Pretty)

	v.SetEnvPrefix("SCOPEKV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks the settings for unsupported values.
func (s *Settings) Validate() error {
	switch s.Backend {
	case kvstore.BackendSQLite, kvstore.BackendJSON, kvstore.BackendMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q (want sqlite, json or memory)", ErrInvalidBackend, s.Backend)
	}
}
