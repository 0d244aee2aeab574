package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/source"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Cache  CacheConfig       `yaml:"cache"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CacheConfig selects the document source and its parameters.
//
// Source is either "local" (read Path directly) or "remote" (fetch from
// the upstream API and cache the response under Remote.CacheDir).
type CacheConfig struct {
	Source string       `yaml:"source"`
	Path   string       `yaml:"path"`
	Watch  bool         `yaml:"watch"`
	Remote RemoteConfig `yaml:"remote"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if c.Source == "" {
		c.Source = source.KindLocal
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.In(source.KindLocal, source.KindRemote)),
	); err != nil {
		return err
	}
	if c.Source == source.KindLocal && c.Path == "" {
		return fmt.Errorf("cache: source is %q but path is empty", source.KindLocal)
	}
	if c.Source == source.KindRemote && c.Remote.Token == "" {
		return fmt.Errorf("cache: source is %q but remote token is empty", source.KindRemote)
	}
	return nil
}

// SourceConfig converts the cache configuration into the source
// factory's input.
func (c *CacheConfig) SourceConfig() source.Config {
	return source.Config{
		Kind:       c.Source,
		CachePath:  c.Path,
		APIBase:    c.Remote.APIBase,
		APIToken:   c.Remote.Token,
		CacheDir:   c.Remote.CacheDir,
		TTLSeconds: c.Remote.TTLSeconds,
	}
}

// RemoteConfig holds upstream API parameters for the remote source.
type RemoteConfig struct {
	APIBase    string `yaml:"api_base"`
	Token      string `yaml:"token"`
	CacheDir   string `yaml:"cache_dir"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// SQLiteConfig holds the optional search index database path. An empty
// path disables the index; queries then use linear scans.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether the search index is configured.
func (c *SQLiteConfig) Enabled() bool {
	return c.Path != ""
}

// AuthConfig holds authentication configuration for the HTTP surface.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Cache: CacheConfig{
			Source: source.KindLocal,
			Path:   "./cache-v3.json",
			Watch:  true,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
