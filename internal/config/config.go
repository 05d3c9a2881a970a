package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/CEuchner/churchtools-song-export/internal/render"
)

// Source kinds.
const (
	SourceChurchTools = "churchtools"
	SourceJSON        = "json"
	SourceSQLite      = "sqlite"
	SourceMP3         = "mp3"
)

// FormatAuto picks the terminal format on a TTY and text otherwise.
const FormatAuto = "auto"

// EnvPrefix is the prefix of environment variables, e.g. SONGEXPORT_CHURCHTOOLS_TOKEN.
const EnvPrefix = "SONGEXPORT"

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// SourceConfig selects where songs are loaded from.
type SourceConfig struct {
	// Kind is one of churchtools, json, sqlite or mp3.
	Kind string `mapstructure:"kind"`

	// Path is the JSON dump, SQLite database or MP3 directory.
	Path string `mapstructure:"path"`
}

// ChurchToolsConfig holds the connection to a ChurchTools instance.
type ChurchToolsConfig struct {
	URL      string `mapstructure:"url"`
	Token    string `mapstructure:"token"`
	PageSize int    `mapstructure:"page_size"`
}

// OutputConfig controls the rendered export.
type OutputConfig struct {
	// Format is auto, text, markdown, html, csv or terminal.
	Format string `mapstructure:"format"`

	// Path is the output file. Empty writes to stdout.
	Path string `mapstructure:"path"`

	Title string `mapstructure:"title"`

	// Footer may contain {date}, {count} and {title}.
	Footer string `mapstructure:"footer"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ScanConfig tunes the MP3 directory scan.
type ScanConfig struct {
	Workers int `mapstructure:"workers"`
}

// Config holds all runtime configuration.
// Values are populated from .songexport.yaml, SONGEXPORT_* env vars, and CLI flags.
type Config struct {
	Source       SourceConfig      `mapstructure:"source"`
	ChurchTools  ChurchToolsConfig `mapstructure:"churchtools"`
	SettingsPath string            `mapstructure:"settings_path"`
	Output       OutputConfig      `mapstructure:"output"`

	// Collation is the BCP 47 language used to sort song names.
	Collation string `mapstructure:"collation"`

	Log  LogConfig  `mapstructure:"log"`
	Scan ScanConfig `mapstructure:"scan"`
}

// DefaultSettingsPath returns the default location of the settings document.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "songexport-settings.json"
	}
	return filepath.Join(dir, "songexport", "settings.json")
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", SourceChurchTools)
	v.SetDefault("source.path", "")
	v.SetDefault("churchtools.url", "")
	v.SetDefault("churchtools.token", "")
	v.SetDefault("churchtools.page_size", 100)
	v.SetDefault("settings_path", DefaultSettingsPath())
	v.SetDefault("output.format", FormatAuto)
	v.SetDefault("output.path", "")
	v.SetDefault("output.title", "Songs")
	v.SetDefault("output.footer", "{count} songs, {date}")
	v.SetDefault("collation", "de")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("scan.workers", 4)
}

// New returns a viper instance reading the config file and environment.
// An empty configFile searches .songexport.yaml in the working directory
// and the home directory.
func New(configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".songexport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// Read loads the config file into v. A missing file is not an error unless
// it was named explicitly.
func Read(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	c.ChurchTools.URL = strings.TrimSpace(c.ChurchTools.URL)
}

// Validate checks the source, output format and numeric limits.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceChurchTools:
		if c.ChurchTools.URL == "" {
			return fmt.Errorf("%w: churchtools.url is required for source %q", ErrInvalidConfig, c.Source.Kind)
		}
	case SourceJSON, SourceSQLite, SourceMP3:
		if c.Source.Path == "" {
			return fmt.Errorf("%w: source.path is required for source %q", ErrInvalidConfig, c.Source.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown source.kind %q", ErrInvalidConfig, c.Source.Kind)
	}

	if c.Output.Format != FormatAuto && !slices.Contains(render.Formats(), c.Output.Format) {
		return fmt.Errorf("%w: unknown output.format %q", ErrInvalidConfig, c.Output.Format)
	}
	if c.ChurchTools.PageSize < 1 {
		return fmt.Errorf("%w: churchtools.page_size must be positive", ErrInvalidConfig)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("%w: scan.workers must be positive", ErrInvalidConfig)
	}
	if c.SettingsPath == "" {
		return fmt.Errorf("%w: settings_path is required", ErrInvalidConfig)
	}
	if _, err := c.Language(); err != nil {
		return fmt.Errorf("%w: collation: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Language returns the collation language.
func (c *Config) Language() (language.Tag, error) {
	if strings.TrimSpace(c.Collation) == "" {
		return language.German, nil
	}
	return language.Parse(c.Collation)
}
