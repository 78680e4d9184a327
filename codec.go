package bloglet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ExportAll serializes the snapshot as the pretty-printed external JSON
// document, posts and categories verbatim.
func ExportAll(snap Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// ImportAll parses text as an external document, atomically replaces the
// store contents and resets the query state to its initial position.
// Invalid JSON fails with ParseError; a document without a posts sequence
// or categories map fails with ValidationError. Import is destructive;
// confirming that with the user is the caller's precondition.
func ImportAll(store *Store, qs *QueryState, text []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(text, &snap); err != nil {
		return &ParseError{Err: err}
	}
	if err := store.ReplaceAll(snap); err != nil {
		return err
	}
	if qs != nil {
		qs.Reset()
	}
	return nil
}

var fetchClient = &http.Client{Timeout: 15 * time.Second}

// FetchSnapshot GETs and validates an external document.
func FetchSnapshot(ctx context.Context, url string) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := fetchClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Snapshot{}, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return Snapshot{}, &ParseError{Err: err}
	}
	if err := validateSnapshot(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// LoadInitial fetches the document at url; on any failure it falls back
// to the built-in sample snapshot. The error reports why the fallback was
// taken; callers may log it, but the returned snapshot is always valid
// and non-empty, so a first-time visitor never sees a load error.
func LoadInitial(ctx context.Context, url string) (Snapshot, error) {
	if url == "" {
		return FallbackSnapshot(), nil
	}
	snap, err := FetchSnapshot(ctx, url)
	if err != nil {
		return FallbackSnapshot(), err
	}
	return snap, nil
}

// FallbackSnapshot is the built-in sample store used when the initial
// fetch fails. It passes the same validation as any import.
func FallbackSnapshot() Snapshot {
	return Snapshot{
		Posts: []Post{
			{
				ID:       2,
				Date:     "2025-06-16",
				Title:    "Updating posts through the editor",
				Content:  "Posts can now be written in either mode:\n\n• Visual editing with inline images\n• Markdown with live preview\n\n**Note:** export your data before closing the page.",
				Author:   "admin",
				Category: "update",
				Featured: false,
			},
			{
				ID:       1,
				Date:     "2025-06-16",
				Title:    "Welcome to the blog",
				Content:  "The site is live!\n\n**Highlights:**\n• Fast static hosting\n• Category filters and search\n• Import and export of all posts\n\nEnjoy!",
				Author:   "admin",
				Category: "announcement",
				Featured: true,
			},
		},
		Categories: map[string]Category{
			"announcement": {Name: "Announcement", Color: "#5865f2", Icon: "📢"},
			"important":    {Name: "Important", Color: "#e94560", Icon: "⚠️"},
			"update":       {Name: "Update", Color: "#27ae60", Icon: "🔄"},
			"maintenance":  {Name: "Maintenance", Color: "#f39c12", Icon: "🔧"},
		},
	}
}
