// Package views provides the default templ components for bloglet. They
// are plain ComponentFuncs over the projector's renderable records, so a
// site can start with them and swap in its own templates through
// bloglet.ViewFuncs without touching the engine.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"bloglet"
)

// Default returns the built-in view set.
func Default() bloglet.ViewFuncs {
	return bloglet.ViewFuncs{
		Home:           Home,
		PostsPartial:   PostsPartial,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminEditor:    AdminEditor,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

func comp(fn func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fn(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Home renders the full page: header, filter bar, search box, post list
// and pagination.
func Home(page bloglet.Page, qv bloglet.QueryView, cats map[string]bloglet.Category, site bloglet.SiteConfig) templ.Component {
	return comp(func(b *strings.Builder) {
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/>")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
		b.WriteString("<title>" + html.EscapeString(site.Name) + "</title>")
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/style.css\"/>")
		b.WriteString("</head><body>")
		b.WriteString("<header class=\"header\"><h1>" + html.EscapeString(site.Name) + "</h1>")
		if site.Description != "" {
			b.WriteString("<p>" + html.EscapeString(site.Description) + "</p>")
		}
		b.WriteString("</header>")
		writeFilterBar(b, qv, cats)
		writeSearchBox(b, qv)
		b.WriteString("<main id=\"blog\">")
		writePosts(b, page)
		writePagination(b, page.Pagination, qv)
		b.WriteString("</main></body></html>")
	})
}

// PostsPartial renders only the post list and pagination, for partial
// page refreshes.
func PostsPartial(page bloglet.Page, qv bloglet.QueryView, cats map[string]bloglet.Category) templ.Component {
	return comp(func(b *strings.Builder) {
		writePosts(b, page)
		writePagination(b, page.Pagination, qv)
	})
}

func writeFilterBar(b *strings.Builder, qv bloglet.QueryView, cats map[string]bloglet.Category) {
	keys := make([]string, 0, len(cats))
	for k := range cats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("<nav class=\"filter-bar\">")
	writeFilterLink(b, bloglet.FilterAll, "All", qv.Filter == bloglet.FilterAll || qv.Filter == "")
	for _, k := range keys {
		writeFilterLink(b, k, cats[k].Icon+" "+cats[k].Name, qv.Filter == k)
	}
	b.WriteString("</nav>")
}

func writeFilterLink(b *strings.Builder, key, label string, active bool) {
	class := "filter-btn"
	if active {
		class += " active"
	}
	q := url.Values{"category": {key}}
	fmt.Fprintf(b, `<a class="%s" href="/?%s">%s</a>`, class, q.Encode(), html.EscapeString(label))
}

func writeSearchBox(b *strings.Builder, qv bloglet.QueryView) {
	b.WriteString(`<form class="search" method="get" action="/">`)
	fmt.Fprintf(b, `<input type="search" name="q" value="%s" placeholder="Search posts…"`, html.EscapeString(qv.Search))
	// Partial refresh after the typing pause; plain form submit works
	// without script.
	b.WriteString(` hx-get="/?partial=posts" hx-trigger="input changed delay:300ms" hx-target="#blog"/>`)
	b.WriteString(`</form>`)
}

func writePosts(b *strings.Builder, page bloglet.Page) {
	b.WriteString(`<section id="blog-posts">`)
	defer b.WriteString("</section>")

	if !page.Available {
		b.WriteString(`<div class="no-posts"><h3>Data unavailable</h3><p>The blog data could not be loaded.</p></div>`)
		return
	}
	if len(page.Posts) == 0 {
		b.WriteString(`<div class="no-posts"><h3>No posts found</h3><p>Try changing the search or filter.</p></div>`)
		return
	}
	for _, p := range page.Posts {
		writePost(b, p)
	}
}

// writePost emits one article. Title, author and content arrive from the
// projector already escaped/transformed.
func writePost(b *strings.Builder, p bloglet.PostView) {
	class := "blog-post"
	if p.Featured {
		class += " featured"
	}
	fmt.Fprintf(b, `<article class="%s" id="post-%d">`, class, p.ID)
	if p.Featured {
		b.WriteString(`<div class="featured-badge">⭐ Featured</div>`)
	}
	b.WriteString(`<div class="post-header">`)
	fmt.Fprintf(b, `<span class="post-category" style="color: %s">%s %s</span>`,
		html.EscapeString(p.CategoryColor), html.EscapeString(p.CategoryIcon), html.EscapeString(p.CategoryName))
	fmt.Fprintf(b, `<span class="post-date">%s</span>`, html.EscapeString(p.DateDisplay))
	b.WriteString(`</div>`)
	fmt.Fprintf(b, `<h3 class="post-title">%s</h3>`, p.Title)
	fmt.Fprintf(b, `<div class="post-content">%s</div>`, p.ContentHTML)
	fmt.Fprintf(b, `<div class="post-footer"><span class="post-author">👤 %s</span>`, p.Author)
	if p.CanEdit {
		fmt.Fprintf(b, `<a class="post-edit" href="/admin/post/%d/">Edit</a>`, p.ID)
	}
	if p.CanDelete {
		fmt.Fprintf(b, `<button class="post-delete" hx-delete="/admin/post/%d/" hx-confirm="Delete this post?">Delete</button>`, p.ID)
	}
	b.WriteString(`</div></article>`)
}

func writePagination(b *strings.Builder, pg bloglet.Pagination, qv bloglet.QueryView) {
	b.WriteString(`<nav id="pagination">`)
	defer b.WriteString("</nav>")
	if pg.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(b, `<div class="pagination-info">Showing %d–%d of %d</div>`, pg.RangeStart, pg.RangeEnd, pg.TotalItems)
	b.WriteString(`<div class="pagination-controls">`)
	if pg.CurrentPage > 1 {
		writePageLink(b, pg.CurrentPage-1, "« Prev", false, qv)
	}
	for _, link := range pg.Links {
		if link.Gap {
			b.WriteString(`<span class="pagination-ellipsis">…</span>`)
			continue
		}
		writePageLink(b, link.Number, fmt.Sprintf("%d", link.Number), link.Active, qv)
	}
	if pg.CurrentPage < pg.TotalPages {
		writePageLink(b, pg.CurrentPage+1, "Next »", false, qv)
	}
	b.WriteString(`</div>`)
}

// writePageLink keeps the active filter and search in the href so a page
// jump does not reset them.
func writePageLink(b *strings.Builder, page int, label string, active bool, qv bloglet.QueryView) {
	class := "pagination-btn"
	if active {
		class += " active"
	}
	q := url.Values{"page": {strconv.Itoa(page)}}
	if qv.Filter != "" && qv.Filter != bloglet.FilterAll {
		q.Set("category", qv.Filter)
	}
	if qv.Search != "" {
		q.Set("q", qv.Search)
	}
	fmt.Fprintf(b, `<a class="%s" href="/?%s">%s</a>`, class, q.Encode(), html.EscapeString(label))
}

// AdminLogin renders the demo-gate password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return comp(func(b *strings.Builder) {
		b.WriteString(`<!DOCTYPE html><html><head><title>Admin</title></head><body>`)
		b.WriteString(`<form class="admin-login" method="post" action="/admin/login/">`)
		fmt.Fprintf(b, `<input type="hidden" name="_csrf" value="%s"/>`, html.EscapeString(csrfToken))
		if showError {
			b.WriteString(`<p class="error">Wrong password.</p>`)
		}
		b.WriteString(`<input type="password" name="password" placeholder="Password"/>`)
		b.WriteString(`<button type="submit">Log in</button>`)
		b.WriteString(`</form></body></html>`)
	})
}

// AdminDashboard lists every post with edit/delete actions plus the
// export and import forms.
func AdminDashboard(page bloglet.Page, message, csrfToken string) templ.Component {
	return comp(func(b *strings.Builder) {
		b.WriteString(`<!DOCTYPE html><html><head><title>Dashboard</title></head><body>`)
		b.WriteString(`<header class="admin-header"><h1>Dashboard</h1>`)
		b.WriteString(`<a href="/admin/new/">New post</a> <a href="/admin/export/">Export</a>`)
		b.WriteString(`<form method="post" action="/admin/logout/">`)
		fmt.Fprintf(b, `<input type="hidden" name="_csrf" value="%s"/>`, html.EscapeString(csrfToken))
		b.WriteString(`<button type="submit">Log out</button></form></header>`)
		if message != "" {
			fmt.Fprintf(b, `<p class="message">%s</p>`, html.EscapeString(message))
		}
		b.WriteString(`<table class="admin-posts"><tr><th>Date</th><th>Title</th><th>Category</th><th></th></tr>`)
		for _, p := range page.Posts {
			b.WriteString("<tr>")
			fmt.Fprintf(b, `<td>%s</td><td>%s</td><td>%s</td>`, html.EscapeString(p.DateDisplay), p.Title, html.EscapeString(p.CategoryName))
			fmt.Fprintf(b, `<td><a href="/admin/post/%d/">Edit</a> <button hx-delete="/admin/post/%d/" hx-confirm="Delete this post?">Delete</button></td>`, p.ID, p.ID)
			b.WriteString("</tr>")
		}
		b.WriteString(`</table>`)
		b.WriteString(`<form class="admin-import" method="post" action="/admin/import/" enctype="multipart/form-data" onsubmit="return confirm('Importing replaces all posts. Continue?')">`)
		fmt.Fprintf(b, `<input type="hidden" name="_csrf" value="%s"/>`, html.EscapeString(csrfToken))
		b.WriteString(`<input type="file" name="file" accept="application/json"/>`)
		b.WriteString(`<button type="submit">Import</button></form>`)
		b.WriteString(`</body></html>`)
	})
}

// AdminEditor renders the dual-mode editor form.
func AdminEditor(ed bloglet.EditorView, cats map[string]bloglet.Category, csrfToken string) templ.Component {
	return comp(func(b *strings.Builder) {
		b.WriteString(`<!DOCTYPE html><html><head><title>Editor</title></head><body>`)
		b.WriteString(`<form class="editor" method="post" action="/admin/save/">`)
		fmt.Fprintf(b, `<input type="hidden" name="_csrf" value="%s"/>`, html.EscapeString(csrfToken))
		fmt.Fprintf(b, `<input type="text" name="title" value="%s" placeholder="Title"/>`, html.EscapeString(ed.Title))
		fmt.Fprintf(b, `<input type="text" name="author" value="%s" placeholder="Author"/>`, html.EscapeString(ed.Author))

		keys := make([]string, 0, len(cats))
		for k := range cats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(`<select name="category">`)
		for _, k := range keys {
			sel := ""
			if k == ed.Category {
				sel = " selected"
			}
			fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, html.EscapeString(k), sel, html.EscapeString(cats[k].Name))
		}
		b.WriteString(`</select>`)
		checked := ""
		if ed.Featured {
			checked = " checked"
		}
		fmt.Fprintf(b, `<label><input type="checkbox" name="featured"%s/> Featured</label>`, checked)

		b.WriteString(`<div class="editor-tabs">`)
		for _, m := range []bloglet.EditorMode{bloglet.ModeVisual, bloglet.ModeMarkdown, bloglet.ModePreview} {
			class := "tab"
			if m == ed.Mode {
				class += " active"
			}
			fmt.Fprintf(b, `<button class="%s" hx-post="/admin/editor/mode/" hx-vals='{"mode":"%s"}' hx-include="closest form" hx-target="body">%s</button>`, class, m, modeLabel(m))
		}
		b.WriteString(`</div>`)

		if ed.Mode == bloglet.ModePreview {
			fmt.Fprintf(b, `<div class="editor-preview">%s</div>`, ed.Preview)
		} else {
			fmt.Fprintf(b, `<textarea name="content">%s</textarea>`, html.EscapeString(ed.Content))
		}

		b.WriteString(`<div class="editor-images">`)
		for _, img := range ed.Images {
			fmt.Fprintf(b, `<figure><img src="%s" alt="%s"/><figcaption>%s</figcaption></figure>`,
				img.Data, html.EscapeString(img.Name), html.EscapeString(img.Name))
		}
		b.WriteString(`</div>`)

		b.WriteString(`<button type="submit">Save</button>`)
		b.WriteString(`<button hx-post="/admin/draft/" hx-include="closest form">Save draft</button>`)
		b.WriteString(`</form>`)
		b.WriteString(`<form class="editor-attach" method="post" action="/admin/images/attach/" enctype="multipart/form-data">`)
		fmt.Fprintf(b, `<input type="hidden" name="_csrf" value="%s"/>`, html.EscapeString(csrfToken))
		b.WriteString(`<input type="file" name="image" accept="image/*"/>`)
		b.WriteString(`<button type="submit">Attach image</button></form>`)
		b.WriteString(`</body></html>`)
	})
}

func modeLabel(m bloglet.EditorMode) string {
	switch m {
	case bloglet.ModeVisual:
		return "Visual"
	case bloglet.ModeMarkdown:
		return "Markdown"
	case bloglet.ModePreview:
		return "Preview"
	}
	return string(m)
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return comp(func(b *strings.Builder) {
		b.WriteString(`<!DOCTYPE html><html><body><h1>404</h1><p>Page not found.</p><a href="/">Home</a></body></html>`)
	})
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return comp(func(b *strings.Builder) {
		b.WriteString(`<!DOCTYPE html><html><body><h1>500</h1><p>Something went wrong.</p><a href="/">Home</a></body></html>`)
	})
}
