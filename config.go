package filterbox

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/filterbox/editor"
)

// Config holds all configuration for a filterbox server.
type Config struct {
	Name string // Site name shown in the page title (default "Image Filters")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite export log path (default "data/filterbox.db")

	SessionSecret string // Required: session cookie secret
	CookieSecure  bool   // Set true for HTTPS

	MaxUploadSize    int64         // Largest accepted file in bytes (default 20MB)
	MaxPixels        int           // Largest decoded export in pixels (default 24 megapixels)
	WorkspaceTTL     time.Duration // Idle time before a loaded image is released (default 30min)
	ExportsPerMinute int           // Per-IP export and upload budget (default 30)

	LogLevel  string // zerolog level name (default "info")
	LogFormat string // "console" or "json" (default "console")
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Image Filters"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/filterbox.db"
	}
	if c.MaxUploadSize <= 0 {
		c.MaxUploadSize = 20 << 20
	}
	if c.MaxPixels <= 0 {
		c.MaxPixels = editor.DefaultMaxPixels
	}
	if c.WorkspaceTTL <= 0 {
		c.WorkspaceTTL = 30 * time.Minute
	}
	if c.ExportsPerMinute <= 0 {
		c.ExportsPerMinute = 30
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithViews replaces some or all of the default page components.
// Nil fields keep the default.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		if v.Intake != nil {
			a.Views.Intake = v.Intake
		}
		if v.Editor != nil {
			a.Views.Editor = v.Editor
		}
		if v.NotFound != nil {
			a.Views.NotFound = v.NotFound
		}
		if v.ServerError != nil {
			a.Views.ServerError = v.ServerError
		}
	}
}

// WithLogger sets the logger instead of building one from LogLevel/LogFormat.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Log = l
		a.customLogger = true
	}
}
