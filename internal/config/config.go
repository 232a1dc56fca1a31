package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vango-dev/race/internal/errors"
)

const (
	// TOMLFileName is the preferred configuration file.
	TOMLFileName = "race.toml"

	// JSONFileName is read when no race.toml exists.
	JSONFileName = "race.json"

	// DefaultPort is the default live server port.
	DefaultPort = 8080

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultSnapshotDir is where snapshots go when no S3 bucket is set.
	DefaultSnapshotDir = "snapshots"
)

// FileNames lists the configuration files in lookup order.
var FileNames = []string{TOMLFileName, JSONFileName}

// Config represents the complete race configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" toml:"name,omitempty"`

	// Live contains live server configuration.
	Live LiveConfig `json:"live" toml:"live"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" toml:"metrics"`

	// Snapshot contains snapshot storage configuration.
	Snapshot SnapshotConfig `json:"snapshot" toml:"snapshot"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" toml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LiveConfig configures the live server.
type LiveConfig struct {
	Host            string `json:"host,omitempty" toml:"host,omitempty"`
	Port            int    `json:"port,omitempty" toml:"port,omitempty"`
	Title           string `json:"title,omitempty" toml:"title,omitempty"`
	ReadBufferSize  int    `json:"readBufferSize,omitempty" toml:"read_buffer_size,omitempty"`
	WriteBufferSize int    `json:"writeBufferSize,omitempty" toml:"write_buffer_size,omitempty"`
	MaxMessageSize  int64  `json:"maxMessageSize,omitempty" toml:"max_message_size,omitempty"`

	// WriteTimeout is a Go duration string such as "10s".
	WriteTimeout string `json:"writeTimeout,omitempty" toml:"write_timeout,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" toml:"enabled"`
	Path      string `json:"path,omitempty" toml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" toml:"namespace,omitempty"`
}

// SnapshotConfig configures where snapshots are stored. A non-empty
// S3.Bucket selects S3; otherwise Dir is used.
type SnapshotConfig struct {
	Dir string   `json:"dir,omitempty" toml:"dir,omitempty"`
	S3  S3Config `json:"s3" toml:"s3"`
}

// S3Config names an S3 location.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" toml:"bucket,omitempty"`
	Region   string `json:"region,omitempty" toml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint,omitempty"`
	Prefix   string `json:"prefix,omitempty" toml:"prefix,omitempty"`
}

// LogConfig configures slog output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" toml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" toml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Live: LiveConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Title:           "race",
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			MaxMessageSize:  64 * 1024,
			WriteTimeout:    "10s",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "race",
		},
		Snapshot: SnapshotConfig{
			Dir: DefaultSnapshotDir,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory, trying race.toml
// and then race.json.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No race.toml or race.json found in " + dir)
}

// LoadFile reads configuration from path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).WithDetail(path)
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}

	cfg := New()
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.New(errors.CodeConfigParse).
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New(errors.CodeConfigParse).
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
		}
	default:
		return nil, errors.New(errors.CodeConfigParse).
			WithDetailf("unsupported config extension %q", ext)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path in the format its extension names.
func (c *Config) SaveTo(path string) error {
	var data []byte
	switch filepath.Ext(path) {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return errors.New(errors.CodeConfigParse).Wrap(err)
		}
		data = buf.Bytes()
	default:
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.New(errors.CodeConfigParse).Wrap(err)
		}
		data = append(out, '\n')
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for fields a file left empty.
func (c *Config) applyDefaults() {
	d := New()
	if c.Live.Host == "" {
		c.Live.Host = d.Live.Host
	}
	if c.Live.Title == "" {
		c.Live.Title = d.Live.Title
	}
	if c.Live.WriteTimeout == "" {
		c.Live.WriteTimeout = d.Live.WriteTimeout
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = d.Snapshot.Dir
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.CodeConfigInvalid).WithDetailf(format, args...)
	}

	if c.Live.Port < 0 || c.Live.Port > 65535 {
		return invalid("live.port must be between 0 and 65535, got %d", c.Live.Port)
	}
	if c.Live.ReadBufferSize < 0 || c.Live.WriteBufferSize < 0 || c.Live.MaxMessageSize < 0 {
		return invalid("live buffer sizes must not be negative")
	}
	if _, err := c.WriteTimeout(); err != nil {
		return invalid("live.write_timeout: %v", err)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	if c.Snapshot.S3.Bucket != "" && c.Snapshot.S3.Region == "" {
		return invalid("snapshot.s3.region is required when a bucket is set")
	}
	if _, err := c.SlogLevel(); err != nil {
		return invalid("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Address returns the host:port the live server listens on.
func (c *Config) Address() string {
	return c.Live.Host + ":" + strconv.Itoa(c.Live.Port)
}

// WriteTimeout parses Live.WriteTimeout. Empty means zero.
func (c *Config) WriteTimeout() (time.Duration, error) {
	if c.Live.WriteTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Live.WriteTimeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// UseS3 reports whether snapshots go to S3.
func (c *Config) UseS3() bool {
	return c.Snapshot.S3.Bucket != ""
}

// SnapshotDir returns the snapshot directory, relative to the config file.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No race.toml or race.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest parent with a config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
