package bloglet

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// handleHome maps URL parameters onto query-state commands, then renders
// the projected page. Filter and search changes reset the page to 1
// inside the state; an explicit page parameter is applied last so direct
// pagination links win.
func (a *App) handleHome(c echo.Context) error {
	params := c.QueryParams()
	if params.Has("category") {
		a.Query.SetFilter(c.QueryParam("category"))
	}
	if params.Has("q") {
		a.Query.SetSearch(c.QueryParam("q"))
	}
	if params.Has("page") {
		if n, err := strconv.Atoi(c.QueryParam("page")); err == nil {
			a.Query.SetPage(n)
		}
	}

	qv := a.Query.View()
	page := Project(a.Cache.Result(), IsAdmin(c), a.Store.Categories())

	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "posts" {
		return Render(c, a.Views.PostsPartial(page, qv, a.Store.Categories()))
	}
	return Render(c, a.Views.Home(page, qv, a.Store.Categories(), a.Config))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
