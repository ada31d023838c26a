// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for tracker configuration.
	DefaultConfigDir = ".tracker"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite file name inside the config directory.
	DefaultDatabaseFile = "tracker.db"
)

// Mail transports.
const (
	TransportSMTP = "smtp"
	TransportLog  = "log"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Site    SiteConfig    `yaml:"site,omitempty"`
	Mail    MailConfig    `yaml:"mail,omitempty"`
	SQLite  SQLiteConfig  `yaml:"sqlite,omitempty"`
	Display DisplayConfig `yaml:"display,omitempty"`
	Date    DateConfig    `yaml:"date,omitempty"`
	LLM     LLMConfig     `yaml:"llm,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// SiteConfig holds the site identity notifications are sent for.
// It implements ports.SiteConfig.
type SiteConfig struct {
	Name     string `yaml:"name,omitempty"`
	Mail     string `yaml:"mail,omitempty"`
	Language string `yaml:"language,omitempty"`
}

// SiteMail returns the administrative address.
func (s SiteConfig) SiteMail() string {
	return s.Mail
}

// CurrentLanguage returns the configured language code.
func (s SiteConfig) CurrentLanguage() string {
	return s.Language
}

// MailConfig holds configuration for the mail transport.
type MailConfig struct {
	Transport string `yaml:"transport,omitempty"`
	Host      string `yaml:"host,omitempty"`
	Port      int    `yaml:"port,omitempty"`
	Username  string `yaml:"username,omitempty"`
	Password  string `yaml:"password,omitempty"`
	From      string `yaml:"from,omitempty"`
	// TLS is one of "mandatory", "opportunistic" or "none".
	TLS string `yaml:"tls,omitempty"`
	// Template is an optional body template replacing the built-in one.
	// Relative paths are resolved against the config directory.
	Template string `yaml:"template,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite snapshot store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database. Relative paths are
	// resolved against the config directory.
	Path string `yaml:"path,omitempty"`
}

// DisplayConfig holds the administrator-defined display mode templates.
type DisplayConfig struct {
	Mode string `yaml:"mode,omitempty"`
	// Types maps a field type to a template rendering its values.
	Types map[string]string `yaml:"types,omitempty"`
	// Fields maps a field name to a template; it takes precedence over Types.
	Fields map[string]string `yaml:"fields,omitempty"`
}

// DateConfig holds date formatting settings.
type DateConfig struct {
	Timezone string `yaml:"timezone,omitempty"`
	// Formats overrides Go time layouts per style name, e.g. short.
	Formats map[string]string `yaml:"formats,omitempty"`
}

// LLMConfig holds configuration for the optional change summary.
type LLMConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Model   string `yaml:"model,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	// BaseURL overrides the API endpoint, e.g. for a compatible proxy.
	BaseURL string `yaml:"base_url,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Name:     "Record Tracker",
			Language: "en",
		},
		Mail: MailConfig{
			Transport: TransportLog,
			Host:      "localhost",
			Port:      587,
			TLS:       "opportunistic",
		},
		SQLite: SQLiteConfig{
			Path: DefaultDatabaseFile,
		},
		Date: DateConfig{
			Timezone: "UTC",
		},
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the .tracker directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'tracker init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings the tracker cannot run without.
func (c *Config) Validate() error {
	if c.Site.Mail == "" {
		return errors.New("site.mail is required")
	}
	switch c.Mail.Transport {
	case TransportSMTP:
		if c.Mail.Host == "" {
			return errors.New("mail.host is required for the smtp transport")
		}
	case TransportLog:
	default:
		return fmt.Errorf("unknown mail transport %q", c.Mail.Transport)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TRACKER_SITE_MAIL"); v != "" {
		c.Site.Mail = v
	}
	if v := os.Getenv("TRACKER_SMTP_PASSWORD"); v != "" && c.Mail.Password == "" {
		c.Mail.Password = v
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
}

// DatabasePath returns the SQLite path, resolving relative paths against the config directory.
func (c *Config) DatabasePath(basePath string) string {
	if c.SQLite.Path == ":memory:" || filepath.IsAbs(c.SQLite.Path) {
		return c.SQLite.Path
	}
	return filepath.Join(ConfigDir(basePath), c.SQLite.Path)
}

// MailTemplatePath returns the custom mail template path, or "" for the built-in template.
func (c *Config) MailTemplatePath(basePath string) string {
	if c.Mail.Template == "" || filepath.IsAbs(c.Mail.Template) {
		return c.Mail.Template
	}
	return filepath.Join(ConfigDir(basePath), c.Mail.Template)
}

// ConfigDir returns the path to the .tracker config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}
