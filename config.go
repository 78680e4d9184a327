package bloglet

// SiteConfig holds all configuration for a bloglet site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Default author name for new posts

	Addr string // Listen address (default ":3000")

	// DataURL is where the initial posts document is fetched from.
	// Empty, unreachable or malformed all land on the built-in sample
	// data: the UI always has a valid store to render.
	DataURL string

	// DraftDatabasePath is the SQLite file for editor draft slots
	// (default "data/drafts.db"). Drafts are the only durable state.
	DraftDatabasePath string

	// AdminPassword drives the built-in demo gate. The gate only hides
	// the editing UI; it is not an access-control boundary. Deployments
	// that need real authentication should set Authorize instead.
	AdminPassword string
	// Authorize, when set, replaces the demo gate password compare.
	Authorize func(password string) bool

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DraftDatabasePath == "" {
		c.DraftDatabasePath = "data/drafts.db"
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

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithSnapshot seeds the store directly instead of fetching DataURL.
// Useful for tests and embedded deployments.
func WithSnapshot(snap Snapshot) Option {
	return func(a *App) {
		s := snap.Clone()
		a.seed = &s
	}
}
