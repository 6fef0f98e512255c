package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/sim"
	"github.com/starford/raido/internal/svg"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Site   SiteConfig        `yaml:"site"`
	Layout LayoutConfig      `yaml:"layout"`
	Graph  GraphConfig       `yaml:"graph"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Graph.Validate(); err != nil {
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

// SiteConfig points at the generated site: the directory of HTML pages
// and the manifest the generator writes alongside them.
type SiteConfig struct {
	Dir      string `yaml:"dir"`
	Manifest string `yaml:"manifest"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Manifest, validation.Required),
	)
}

// LayoutConfig holds the layout persistence database configuration.
// An empty path disables persistence.
type LayoutConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether positions are persisted between runs.
func (c *LayoutConfig) Enabled() bool {
	return c.Path != ""
}

// GraphConfig holds the graph panel tuning.
type GraphConfig struct {
	Sim           sim.Config    `yaml:"sim"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	FrameThrottle time.Duration `yaml:"frame_throttle"`
	MaxLabel      int           `yaml:"max_label"`
}

// Validate validates the graph configuration.
func (c *GraphConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxLabel, validation.Min(2)),
		validation.Field(&c.FrameInterval, validation.Min(time.Millisecond)),
		validation.Field(&c.FrameThrottle, validation.Min(time.Millisecond)),
	)
}

// AuthConfig holds authentication configuration.
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
		Site: SiteConfig{
			Dir:      "./site",
			Manifest: "./site/site.json",
		},
		Layout: LayoutConfig{
			Path: "./raido.db",
		},
		Graph: GraphConfig{
			Sim:           sim.DefaultConfig(),
			FrameInterval: 33 * time.Millisecond,
			FrameThrottle: 100 * time.Millisecond,
			MaxLabel:      svg.DefaultMaxLabel,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
