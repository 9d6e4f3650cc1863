// Package filterbox serves a single-image filter editor built with Go, Echo,
// and templ. A visitor drops one image, tunes eight filter parameters with a
// live preview, and downloads the filtered result as a PNG.
//
// Page markup comes from the ViewFuncs struct, which defaults to the views
// package and can be replaced piecemeal with WithViews.
package filterbox

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/filterbox/editor"
	"github.com/eringen/filterbox/views"
)

// ViewFuncs holds the templ components the handlers render.
type ViewFuncs struct {
	Intake      func(d views.IntakeData) templ.Component
	Editor      func(d views.EditorData) templ.Component
	NotFound    func(site views.SiteConfig) templ.Component
	ServerError func(site views.SiteConfig) templ.Component
}

// DefaultViews returns the components shipped in the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Intake:      views.Intake,
		Editor:      views.Editor,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App is the central filterbox application. It wires together the
// workspace registry, export log, handlers, middleware and views.
type App struct {
	Config     Config
	Echo       *echo.Echo
	Store      *Store
	Workspaces *Workspaces
	Views      ViewFuncs
	Log        zerolog.Logger

	limiter      *RateLimiter
	customRoutes []func(*App)
	customLogger bool
}

// New creates a new App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  DefaultViews(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if !a.customLogger {
		a.Log = NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	}

	return a
}

// Init opens the export log, starts the workspace registry and installs
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("filterbox: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("filterbox: init store: %w", err)
	}
	a.Store = store

	a.Workspaces = NewWorkspaces(a.Config.WorkspaceTTL, editor.WithMaxPixels(a.Config.MaxPixels))
	a.limiter = NewRateLimiter(a.Config.ExportsPerMinute, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Str("db", a.Config.DatabasePath).Msg("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Widget assets (editor.js, editor.css, upload.svg) ship inside the binary.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/healthz", handleHealth)

	e.GET("/", a.handleHome)

	// Editor routes act on the visitor's own workspace.
	e.POST("/editor/upload/", a.handleUpload)
	e.GET("/editor/image/", a.handleImage)
	e.POST("/editor/params/", a.handleParams)
	e.POST("/editor/export/", a.handleExport)
	e.POST("/editor/reset/", a.handleReset)

	e.GET("/api/exports/", a.handleExportLog)
}

// Close releases every workspace and closes the export log. Call this when
// the app is shutting down.
func (a *App) Close() error {
	if a.Workspaces != nil {
		a.Workspaces.Close()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("filterbox: required environment variable %s is not set", key)
	}
	return v
}
