package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Record Tracker Configuration

site:
  name: Record Tracker
  mail: admin@example.com
  language: en

mail:
  # smtp or log
  transport: log
  host: localhost
  port: 587
  from: tracker@example.com
  tls: opportunistic
  # password: secret (or set TRACKER_SMTP_PASSWORD env var)
  # template: changes.tmpl (replaces the built-in mail body)

sqlite:
  path: tracker.db

# Templates for the record_tracker display mode. A template receives
# .Name, .Type, .Label, .Raw, .Ref and .Allowed and wins over the built-in
# formatting when it renders non-empty output.
display:
  types: {}
  fields: {}

date:
  timezone: UTC
  # formats:
  #   short: "02/01/2006 - 15:04"

llm:
  enabled: false
  model: gpt-4o-mini
  # api_key: your-api-key (or set OPENAI_API_KEY env var)

log:
  level: info
  format: text
`

// WriteDefault creates the .tracker directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Exists checks if a tracker config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
