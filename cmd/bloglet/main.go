// Command bloglet runs a bloglet site with the built-in views.
// All site branding comes from environment variables.
package main

import (
	"log"

	"bloglet"
	"bloglet/views"
)

func main() {
	cfg := bloglet.SiteConfig{
		Name:              bloglet.EnvOr("SITE_NAME", "Blog"),
		URL:               bloglet.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:       bloglet.EnvOr("SITE_DESCRIPTION", ""),
		Author:            bloglet.EnvOr("SITE_AUTHOR", ""),
		Addr:              bloglet.EnvOr("LISTEN_ADDR", ":3000"),
		DataURL:           bloglet.EnvOr("DATA_URL", ""),
		DraftDatabasePath: bloglet.EnvOr("DRAFT_DB_PATH", "data/drafts.db"),
		AdminPassword:     bloglet.EnvOr("ADMIN_PASSWORD", ""),
		SessionSecret:     bloglet.MustEnv("SESSION_SECRET"),
		CookieSecure:      bloglet.EnvOr("COOKIE_SECURE", "") == "true",
	}

	app := bloglet.New(cfg, views.Default())
	defer app.Close()

	log.Fatal(app.Start())
}
