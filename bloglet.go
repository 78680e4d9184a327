// Package bloglet is an embeddable blog post-management engine built with
// Go, Echo, and templ. The core is a memory-only post store with a
// filter/search/paginate query engine, a pure render projector, a
// dual-mode (visual/markdown) editor session with draft persistence, and
// a JSON import/export codec. An Echo serving surface and default templ
// views sit on top; users provide their own templates via the ViewFuncs
// struct to swap the presentation layer.
package bloglet

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home           func(page Page, qv QueryView, cats map[string]Category, site SiteConfig) templ.Component
	PostsPartial   func(page Page, qv QueryView, cats map[string]Category) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(page Page, message, csrfToken string) templ.Component
	AdminEditor    func(ed EditorView, cats map[string]Category, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central bloglet application. It wires together the store,
// query state, view cache, editor session, draft store, handlers and
// user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Query  *QueryState
	Cache  *ViewCache
	Editor *EditorSession
	Drafts *DraftStore
	Views  ViewFuncs

	loginLimiter *GateLimiter
	customRoutes []func(*App)
	staticDir    string
	seed         *Snapshot
}

// New creates a new bloglet App with the given configuration and view
// functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start loads the initial data, initializes the draft store, middleware
// and routes, and starts the server.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// init wires the engine without binding a listener. Split out so tests
// can exercise a fully-wired App.
func (a *App) init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("bloglet: SessionSecret is required")
	}
	if a.Config.AdminPassword == "" && a.Config.Authorize == nil {
		return fmt.Errorf("bloglet: AdminPassword or Authorize is required")
	}

	// Populate the store: explicit seed, or the configured document with
	// fallback to the built-in sample. The fallback is silent towards
	// visitors; the reason is only logged.
	snap := Snapshot{}
	if a.seed != nil {
		snap = *a.seed
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		loaded, err := LoadInitial(ctx, a.Config.DataURL)
		cancel()
		if err != nil {
			a.Echo.Logger.Warnf("initial data load failed, using fallback: %v", err)
		}
		snap = loaded
	}
	store, err := NewStore(snap)
	if err != nil {
		return fmt.Errorf("bloglet: init store: %w", err)
	}
	a.Store = store

	a.Query = NewQueryState()
	a.Cache = NewViewCache(a.Store, a.Query)
	a.Store.Notify(a.Cache.Invalidate)
	a.Query.Notify(a.Cache.Invalidate)

	drafts, err := NewDraftStore(a.Config.DraftDatabasePath)
	if err != nil {
		return fmt.Errorf("bloglet: init draft store: %w", err)
	}
	a.Drafts = drafts
	a.Editor = NewEditorSession(drafts)

	a.loginLimiter = NewGateLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)

	// Admin routes (demo gate, see SiteConfig.AdminPassword)
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:id/", a.handleAdminPost)
	e.GET("/admin/new/", a.handleAdminNew)
	e.POST("/admin/editor/mode/", a.handleEditorMode)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:id/", a.handleAdminDelete)
	e.POST("/admin/draft/", a.handleDraftSave)
	e.GET("/admin/export/", a.handleExport)
	e.POST("/admin/import/", a.handleImport)
	e.POST("/admin/images/attach/", a.handleImageAttach)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Drafts != nil {
		return a.Drafts.Close()
	}
	return nil
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("bloglet: required environment variable %s is not set", key)
	}
	return v
}
