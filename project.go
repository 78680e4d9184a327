package bloglet

import (
	"html"
	"time"

	"bloglet/markdown"
)

// Display fallbacks for posts whose category key does not resolve.
const (
	fallbackColor = "#5865f2"
	fallbackIcon  = "📄"
)

// PostView is one renderable post record. Title and author arrive as
// untrusted free text, so they are HTML-escaped here; content has been
// through the markdown transform, which escapes before formatting.
type PostView struct {
	ID            int
	Title         string
	Author        string
	DateDisplay   string
	CategoryKey   string
	CategoryName  string
	CategoryColor string
	CategoryIcon  string
	Featured      bool
	ContentHTML   string

	// Admin affordances. The projector only marks that the actions are
	// available; executing them is the caller's business.
	CanEdit   bool
	CanDelete bool
}

// PageLink is one pagination control: either a numbered page or a gap
// marker standing in for pages not enumerated.
type PageLink struct {
	Number int
	Gap    bool
	Active bool
}

// Pagination describes the position of the current page within the full
// result set.
type Pagination struct {
	TotalItems  int
	RangeStart  int
	RangeEnd    int
	CurrentPage int
	TotalPages  int
	Links       []PageLink
}

// Page is the projector output consumed by the presentation layer.
// Available is false when the store could not be projected at all, so the
// caller can render an explicit error state instead of an empty list.
type Page struct {
	Available  bool
	Posts      []PostView
	Pagination Pagination
}

// Project maps an engine result to renderable records. It is a pure
// function of its inputs: no store access, no side effects.
func Project(res Result, admin bool, categories map[string]Category) Page {
	if categories == nil {
		return Page{}
	}

	views := make([]PostView, 0, len(res.Posts))
	for _, p := range res.Posts {
		views = append(views, projectPost(p, admin, categories))
	}

	return Page{
		Available:  true,
		Posts:      views,
		Pagination: paginate(res),
	}
}

func projectPost(p Post, admin bool, categories map[string]Category) PostView {
	cat, ok := categories[p.Category]
	if !ok {
		name := p.Category
		if name == "" {
			name = "Unknown"
		}
		cat = Category{Name: name, Color: fallbackColor, Icon: fallbackIcon}
	}
	return PostView{
		ID:            p.ID,
		Title:         html.EscapeString(p.Title),
		Author:        html.EscapeString(p.Author),
		DateDisplay:   formatDate(p.Date),
		CategoryKey:   p.Category,
		CategoryName:  cat.Name,
		CategoryColor: cat.Color,
		CategoryIcon:  cat.Icon,
		Featured:      p.Featured,
		ContentHTML:   markdown.FormatContent(p.Content),
		CanEdit:       admin,
		CanDelete:     admin,
	}
}

func paginate(res Result) Pagination {
	pg := Pagination{
		TotalItems:  res.TotalItems,
		CurrentPage: res.Page,
		TotalPages:  res.TotalPages,
	}
	if len(res.Posts) > 0 {
		pg.RangeStart = (res.Page-1)*res.PageSize + 1
		pg.RangeEnd = pg.RangeStart + len(res.Posts) - 1
	}
	pg.Links = pageLinks(res.Page, res.TotalPages)
	return pg
}

// pageLinks enumerates page 1, the last page, and a window of ±2 around
// the current page, with gap markers where the window does not reach the
// ends.
func pageLinks(current, total int) []PageLink {
	if total < 1 {
		return nil
	}
	if current > total {
		current = total
	}
	if current < 1 {
		current = 1
	}
	start := current - 2
	if start < 1 {
		start = 1
	}
	end := current + 2
	if end > total {
		end = total
	}

	var links []PageLink
	if start > 1 {
		links = append(links, PageLink{Number: 1})
		if start > 2 {
			links = append(links, PageLink{Gap: true})
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, PageLink{Number: i, Active: i == current})
	}
	if end < total {
		if end < total-1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, PageLink{Number: total})
	}
	return links
}

// formatDate turns an ISO date into its long display form. Dates that do
// not parse are shown as stored.
func formatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}
