package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"croissant/internal/errors"
	"croissant/internal/paths"
)

// CurrentVersion is the config schema version this build understands.
const CurrentVersion = 1

// Config represents the complete croissant configuration
type Config struct {
	Version int      `json:"version" mapstructure:"version"`
	Chain   []string `json:"chain" mapstructure:"chain"`
	Strict  bool     `json:"strict" mapstructure:"strict"`

	Output  OutputConfig  `json:"output" mapstructure:"output"`
	Watch   WatchConfig   `json:"watch" mapstructure:"watch"`
	Morse   MorseConfig   `json:"morse" mapstructure:"morse"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// OutputConfig controls how results and reports are rendered
type OutputConfig struct {
	Style  string `json:"style" mapstructure:"style"`   // standard, legacy
	Format string `json:"format" mapstructure:"format"` // human, json, yaml, toml
	Color  string `json:"color" mapstructure:"color"`   // auto, always, never
}

// WatchConfig contains file watching configuration
type WatchConfig struct {
	DebounceMs int `json:"debounceMs" mapstructure:"debounceMs"`
}

// MorseConfig contains Morse printer configuration
type MorseConfig struct {
	Signal string `json:"signal" mapstructure:"signal"` // text, voice
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" mapstructure:"level"`
	File       bool   `json:"file" mapstructure:"file"`
	MaxSize    string `json:"maxSize" mapstructure:"maxSize"`       // e.g. "10MB"; empty disables rotation
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups"` // rotated files to keep
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Chain:   []string{"+", "-", "*", "/"},
		Strict:  false,
		Output: OutputConfig{
			Style:  "standard",
			Format: "human",
			Color:  "auto",
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
		Morse: MorseConfig{
			Signal: "text",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			File:       false,
			MaxSize:    "",
			MaxBackups: 3,
		},
	}
}

// EnvVar describes one supported environment override
type EnvVar struct {
	Name        string
	Key         string
	Description string
	Type        string
}

// EnvVars lists every environment variable LoadConfig honors.
var EnvVars = []EnvVar{
	{"CROISSANT_CONFIG_PATH", "", "Path to config file", "string"},
	{"CROISSANT_CHAIN", "chain", "Comma-separated handler order, e.g. \"+,-\"", "list"},
	{"CROISSANT_STRICT", "strict", "Treat unhandled requests as errors", "bool"},
	{"CROISSANT_OUTPUT_STYLE", "output.style", "Result line style (standard, legacy)", "string"},
	{"CROISSANT_OUTPUT_FORMAT", "output.format", "Report format (human, json, yaml, toml)", "string"},
	{"CROISSANT_OUTPUT_COLOR", "output.color", "Color mode (auto, always, never)", "string"},
	{"CROISSANT_WATCH_DEBOUNCEMS", "watch.debounceMs", "Watch debounce in milliseconds", "int"},
	{"CROISSANT_MORSE_SIGNAL", "morse.signal", "Morse signal (text, voice)", "string"},
	{"CROISSANT_LOGGING_LEVEL", "logging.level", "Log level (debug, info, warn, error)", "string"},
	{"CROISSANT_LOGGING_FILE", "logging.file", "Also write logs to .croissant/logs", "bool"},
	{"CROISSANT_LOGGING_MAXSIZE", "logging.maxSize", "Rotate the log file past this size, e.g. \"10MB\"", "string"},
	{"CROISSANT_LOGGING_MAXBACKUPS", "logging.maxBackups", "Rotated log files to keep", "int"},
}

// EnvOverride records an environment variable that changed a config value
type EnvOverride struct {
	EnvVar    string `json:"envVar"`
	Path      string `json:"path"`
	FromValue string `json:"value"`
}

// LoadResult is a loaded config plus where it came from
type LoadResult struct {
	Config       *Config       `json:"config"`
	ConfigPath   string        `json:"configPath,omitempty"`
	UsedDefaults bool          `json:"usedDefaults"`
	EnvOverrides []EnvOverride `json:"envOverrides,omitempty"`
}

// LoadConfig loads configuration from .croissant/config.json
func LoadConfig(workDir string) (*Config, error) {
	result, err := LoadConfigWithDetails(workDir)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// LoadConfigWithDetails loads configuration and reports its source and any
// environment overrides. A missing config file yields the defaults.
func LoadConfigWithDetails(workDir string) (*LoadResult, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("CROISSANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("CROISSANT_CONFIG_PATH")
	if configPath == "" {
		configPath = paths.ConfigPath(workDir)
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	result := &LoadResult{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) && !os.IsNotExist(err) && !stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ConfigInvalid, fmt.Sprintf("reading %s", configPath), err)
		}
		result.UsedDefaults = true
	} else {
		result.ConfigPath = configPath
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "decoding config", err)
	}
	cfg.Chain = splitList(cfg.Chain)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result.Config = &cfg
	result.EnvOverrides = envOverrides()
	return result, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("chain", d.Chain)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("output.style", d.Output.Style)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("watch.debounceMs", d.Watch.DebounceMs)
	v.SetDefault("morse.signal", d.Morse.Signal)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
}

// splitList accepts both ["+", "-"] and a single "+,-" entry (the env form).
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func envOverrides() []EnvOverride {
	var out []EnvOverride
	for _, ev := range EnvVars {
		if ev.Key == "" {
			continue
		}
		if val, ok := os.LookupEnv(ev.Name); ok {
			out = append(out, EnvOverride{EnvVar: ev.Name, Path: ev.Key, FromValue: val})
		}
	}
	return out
}

// Save writes the configuration to .croissant/config.json
func (c *Config) Save(workDir string) error {
	if _, err := paths.EnsureStateDir(workDir); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Clean(paths.ConfigPath(workDir)), data, 0644)
}

var (
	knownOperators = []string{"+", "-", "*", "/"}
	knownStyles    = []string{"standard", "legacy"}
	knownFormats   = []string{"human", "json", "yaml", "toml"}
	knownColors    = []string{"auto", "always", "never"}
	knownSignals   = []string{"text", "voice"}

	// LogLevels are the logging.level values the CLI logger understands.
	LogLevels = []string{"debug", "info", "warn", "warning", "error", "silent", "off"}
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return invalid("version", fmt.Sprintf("unsupported config version %d", c.Version))
	}
	for _, op := range c.Chain {
		if !contains(knownOperators, op) {
			return invalid("chain", fmt.Sprintf("unknown operator %q", op))
		}
	}
	if !contains(knownStyles, c.Output.Style) {
		return invalid("output.style", fmt.Sprintf("unknown style %q", c.Output.Style))
	}
	if !contains(knownFormats, c.Output.Format) {
		return invalid("output.format", fmt.Sprintf("unknown format %q", c.Output.Format))
	}
	if !contains(knownColors, c.Output.Color) {
		return invalid("output.color", fmt.Sprintf("unknown color mode %q", c.Output.Color))
	}
	if !contains(knownSignals, c.Morse.Signal) {
		return invalid("morse.signal", fmt.Sprintf("unknown signal %q", c.Morse.Signal))
	}
	if c.Watch.DebounceMs < 0 {
		return invalid("watch.debounceMs", "must not be negative")
	}
	if level := strings.ToLower(strings.TrimSpace(c.Logging.Level)); level != "" && !contains(LogLevels, level) {
		return invalid("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	if _, err := ParseSize(c.Logging.MaxSize); err != nil {
		return invalid("logging.maxSize", err.Error())
	}
	if c.Logging.MaxBackups < 0 {
		return invalid("logging.maxBackups", "must not be negative")
	}
	return nil
}

func invalid(field, message string) error {
	return errors.Wrap(errors.ConfigInvalid, "invalid configuration", &ConfigError{Field: field, Message: message})
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// ParseSize converts a logging.maxSize value such as "512", "64KB", "10MB"
// or "1.5GB" (case-insensitive) to bytes. Empty means no limit and yields 0.
func ParseSize(s string) (int64, error) {
	in := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	multiplier := float64(1)
	for _, unit := range []struct {
		suffix string
		factor float64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(s, unit.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			multiplier = unit.factor
			break
		}
	}

	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, fmt.Errorf("size %q is not a number with an optional B, KB, MB or GB suffix", in)
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("size %q is not a number with an optional B, KB, MB or GB suffix", in)
	}
	return int64(value * multiplier), nil
}
