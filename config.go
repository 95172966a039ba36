package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigDir   = ".myrithm"
	defaultMaxArticles = 10
	defaultHTTPTimeout = 30 * time.Second
)

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	SettingsPath     *string
	SystemPromptPath *string
	UserPromptPath   *string
}

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/scorer-system-prompt.md
var defaultSystemPrompt string

//go:embed config/scorer-user-prompt.md
var defaultUserPrompt string

// SourceSettings describes the news site being scraped
type SourceSettings struct {
	IndexURL          string          `yaml:"index_url"`
	BaseURL           string          `yaml:"base_url"`
	SkipLeading       int             `yaml:"skip_leading"`
	SkipTrailing      int             `yaml:"skip_trailing"`
	Duplicates        DuplicatePolicy `yaml:"duplicates"`
	ParagraphSelector string          `yaml:"paragraph_selector"`
	Extraction        ExtractionMode  `yaml:"extraction"`
}

// HTTPSettings holds outbound request settings
type HTTPSettings struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// RankerSettings configures the scoring model
type RankerSettings struct {
	Model        string           `yaml:"model"`
	MaxTokens    int              `yaml:"max_tokens"`
	Temperature  float64          `yaml:"temperature"`
	OnModelError ModelErrorPolicy `yaml:"on_model_error"`
}

// ServerSettings configures the web UI
type ServerSettings struct {
	Addr        string `yaml:"addr"`
	MaxArticles int    `yaml:"max_articles"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	Source SourceSettings `yaml:"source"`
	HTTP   HTTPSettings   `yaml:"http"`
	Ranker RankerSettings `yaml:"ranker"`
	Server ServerSettings `yaml:"server"`
}

// Trim returns the positional trim applied to the index page links
func (s SourceSettings) Trim() Trim {
	return Trim{Leading: s.SkipLeading, Trailing: s.SkipTrailing}
}

// Config holds configuration and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig creates a new Config with settings and overrides
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	var settings *Settings
	var err error
	if overrides != nil && overrides.SettingsPath != nil {
		// Explicit settings file must exist
		settings, err = loadSettings(*overrides.SettingsPath, true)
	} else {
		settings, err = loadSettings(getConfigPath("settings.yaml"), false)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

// GetSystemPrompt returns the scorer system prompt (from override file or embedded)
func (c *Config) GetSystemPrompt() string {
	if c.Overrides != nil && c.Overrides.SystemPromptPath != nil {
		if content, err := os.ReadFile(*c.Overrides.SystemPromptPath); err == nil {
			return string(content)
		}
		log.Printf("Warning: could not read %s, using embedded system prompt", *c.Overrides.SystemPromptPath)
	}
	return defaultSystemPrompt
}

// GetUserPrompt returns the scorer user prompt template (from override file or embedded)
func (c *Config) GetUserPrompt() string {
	if c.Overrides != nil && c.Overrides.UserPromptPath != nil {
		if content, err := os.ReadFile(*c.Overrides.UserPromptPath); err == nil {
			return string(content)
		}
		log.Printf("Warning: could not read %s, using embedded user prompt", *c.Overrides.UserPromptPath)
	}
	return defaultUserPrompt
}

// loadSettings decodes the embedded defaults and overlays the file at path.
// A missing file is only an error when required is set.
func loadSettings(path string, required bool) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		return nil, fmt.Errorf("failed to parse embedded settings: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings YAML %s: %w", path, err)
		}
		debugLog("loaded settings from %s", path)
	case os.IsNotExist(err) && !required:
		debugLog("no settings file at %s, using embedded defaults", path)
	default:
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) validate() error {
	if s.Source.IndexURL == "" {
		return fmt.Errorf("source.index_url is required")
	}
	if s.Source.SkipLeading < 0 || s.Source.SkipTrailing < 0 {
		return fmt.Errorf("source.skip_leading and source.skip_trailing cannot be negative")
	}
	if s.Source.BaseURL == "" {
		s.Source.BaseURL = s.Source.IndexURL
	}

	switch s.Source.Duplicates {
	case DuplicateLast, DuplicateFirst, DuplicateKeep:
	case "":
		s.Source.Duplicates = DuplicateLast
	default:
		return fmt.Errorf("source.duplicates must be one of last, first, keep: got %q", s.Source.Duplicates)
	}

	switch s.Source.Extraction {
	case ExtractSelector, ExtractReadability:
	case "":
		s.Source.Extraction = ExtractSelector
	default:
		return fmt.Errorf("source.extraction must be selector or readability: got %q", s.Source.Extraction)
	}
	if s.Source.Extraction == ExtractSelector && s.Source.ParagraphSelector == "" {
		return fmt.Errorf("source.paragraph_selector is required in selector mode")
	}

	switch s.Ranker.OnModelError {
	case PolicyAbort, PolicySkip:
	case "":
		s.Ranker.OnModelError = PolicyAbort
	default:
		return fmt.Errorf("ranker.on_model_error must be abort or skip: got %q", s.Ranker.OnModelError)
	}

	if s.HTTP.Timeout <= 0 {
		log.Printf("Warning: http.timeout is %v, defaulting to %v", s.HTTP.Timeout, defaultHTTPTimeout)
		s.HTTP.Timeout = defaultHTTPTimeout
	}
	if s.Server.MaxArticles < 1 {
		log.Printf("Warning: server.max_articles is %d, defaulting to %d", s.Server.MaxArticles, defaultMaxArticles)
		s.Server.MaxArticles = defaultMaxArticles
	}
	return nil
}

// getConfigPath returns the path to a config file in .myrithm directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates the config directory and writes the embedded defaults
// for any file that does not exist yet. It returns the paths it wrote.
func ensureConfigExists(configDir string) ([]string, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := []struct {
		name    string
		content string
	}{
		{"settings.yaml", defaultSettings},
		{"scorer-system-prompt.md", defaultSystemPrompt},
		{"scorer-user-prompt.md", defaultUserPrompt},
	}

	var written []string
	for _, d := range defaults {
		path := filepath.Join(configDir, d.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(d.content), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
