// ABOUTME: Airtable connection settings and their storage
// ABOUTME: Loads config from the XDG data dir with environment overrides, validates required fields
package sync

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
)

const (
	// DefaultAPIURL is the Airtable REST API root.
	DefaultAPIURL = "https://api.airtable.com/v0"

	// DefaultTableName matches the table in the base template.
	DefaultTableName = "Creators"
)

// Config identifies one Airtable table and the credential to reach it.
// It is passed into every operation and never held globally.
type Config struct {
	APIKey    string `json:"api_key" env:"AIRTABLE_API_KEY"`
	BaseID    string `json:"base_id" env:"AIRTABLE_BASE_ID"`
	TableName string `json:"table_name" env:"AIRTABLE_TABLE_NAME"`
	APIURL    string `json:"api_url,omitempty" env:"AIRTABLE_API_URL"`
}

// Validate reports which required settings are missing.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "api key")
	}
	if strings.TrimSpace(c.BaseID) == "" {
		missing = append(missing, "base id")
	}
	if strings.TrimSpace(c.TableName) == "" {
		missing = append(missing, "table name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfigurationIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// TableURL is the records endpoint for the configured table.
func (c Config) TableURL() string {
	api := c.APIURL
	if api == "" {
		api = DefaultAPIURL
	}
	return strings.TrimRight(api, "/") + "/" + url.PathEscape(c.BaseID) + "/" + url.PathEscape(c.TableName)
}

// Redacted returns the config with the credential masked, for display.
func (c Config) Redacted() Config {
	if len(c.APIKey) > 6 {
		c.APIKey = c.APIKey[:3] + strings.Repeat("*", len(c.APIKey)-6) + c.APIKey[len(c.APIKey)-3:]
	} else if c.APIKey != "" {
		c.APIKey = "***"
	}
	return c
}

// ConfigDir returns the XDG data directory for stacked.
func ConfigDir() string {
	return filepath.Join(xdg.DataHome, "stacked")
}

// ConfigPath returns the Airtable config file location.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "airtable-config.json")
}

// LoadConfig reads the Airtable config from disk and applies environment overrides:
// AIRTABLE_API_KEY, AIRTABLE_BASE_ID, AIRTABLE_TABLE_NAME, AIRTABLE_API_URL.
// A missing file yields defaults.
func LoadConfig() (Config, error) {
	cfg, err := LoadFileConfig()
	if err != nil {
		return Config{}, err
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse airtable env: %w", err)
	}

	if cfg.TableName == "" {
		cfg.TableName = DefaultTableName
	}

	return cfg, nil
}

// LoadFileConfig reads only the config file, ignoring the environment.
// Use it as the base for anything written back with SaveConfig.
func LoadFileConfig() (Config, error) {
	cfg := Config{TableName: DefaultTableName}

	data, err := os.ReadFile(ConfigPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read airtable config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode airtable config: %w", err)
	}

	if cfg.TableName == "" {
		cfg.TableName = DefaultTableName
	}

	return cfg, nil
}

// SaveConfig writes the config with user-only permissions.
func SaveConfig(cfg Config) error {
	if err := os.MkdirAll(ConfigDir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode airtable config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write airtable config: %w", err)
	}

	return nil
}
