package bloglet

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// authorize runs the pluggable check, or the built-in demo gate compare.
// The demo gate only hides the editing UI from casual visitors; it is not
// an access-control boundary and is documented as such on SiteConfig.
func (a *App) authorize(password string) bool {
	if a.Config.Authorize != nil {
		return a.Config.Authorize(password)
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.Config.AdminPassword)) == 1
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	if a.authorize(c.FormValue("password")) {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminNew opens the editor on an empty session, recovering the
// uncommitted "new post" draft when one was left behind.
func (a *App) handleAdminNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.Editor.Reset()
	if _, err := a.Editor.RestoreDraft(); err != nil {
		c.Logger().Warnf("draft restore: %v", err)
	}
	return a.renderEditor(c)
}

// handleAdminPost opens the editor on an existing post, preferring a
// pending draft for it over the committed content.
func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	post, err := a.Store.Find(id)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	a.Editor.Load(post)
	if _, err := a.Editor.RestoreDraft(); err != nil {
		c.Logger().Warnf("draft restore: %v", err)
	}
	return a.renderEditor(c)
}

// handleEditorMode switches the editing surface. The active buffer is
// synced from the form first, so switching never loses the edit in
// flight.
func (a *App) handleEditorMode(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.syncEditorForm(c)
	if err := a.Editor.SetMode(EditorMode(c.FormValue("mode"))); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	return a.renderEditor(c)
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.syncEditorForm(c)

	payload := a.Editor.Payload()
	var err error
	if payload.ID == 0 {
		_, err = a.Store.Add(payload)
	} else {
		_, err = a.Store.Update(payload.ID, PostPatch{
			Title:    &payload.Title,
			Content:  &payload.Content,
			Author:   &payload.Author,
			Category: &payload.Category,
			Featured: &payload.Featured,
			Images:   payload.Images,
		})
	}
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return a.renderAdminDashboard(c, ve.Error())
		}
		return err
	}

	if err := a.Editor.ClearDraft(); err != nil {
		c.Logger().Warnf("draft clear: %v", err)
	}
	a.Editor.Reset()
	return a.renderAdminDashboard(c, "saved")
}

// handleAdminDelete removes a post. The confirmation dialog lives in the
// UI; by the time this handler runs the destructive intent is settled.
func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	a.Store.Remove(id)
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) handleDraftSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.syncEditorForm(c)
	if err := a.Editor.SaveDraft(); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleExport(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	data, err := ExportAll(a.Store.Snapshot())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="blog-data.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// handleImport replaces the whole store from an uploaded document and
// resets the query state. Destructive; the UI confirms before posting.
func (a *App) handleImport(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	var text []byte
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		if text, err = io.ReadAll(src); err != nil {
			return err
		}
	} else {
		text = []byte(c.FormValue("data"))
	}

	if err := ImportAll(a.Store, a.Query, text); err != nil {
		var pe *ParseError
		var ve *ValidationError
		if errors.As(err, &pe) || errors.As(err, &ve) {
			return a.renderAdminDashboard(c, err.Error())
		}
		return err
	}
	return a.renderAdminDashboard(c, "imported")
}

func (a *App) handleImageAttach(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := a.Editor.AttachImage(file.Filename, src, file.Size)
	if err != nil {
		var tl *TooLargeError
		if errors.As(err, &tl) {
			return c.String(http.StatusRequestEntityTooLarge, tl.Error())
		}
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":       img.ID,
		"name":     img.Name,
		"size":     img.Size,
		"markdown": img.MarkdownRef(),
		"html":     img.InlineHTML(),
	})
}

// syncEditorForm pushes the posted form fields into the editor session.
func (a *App) syncEditorForm(c echo.Context) {
	if c.FormValue("title") != "" || c.FormValue("content") != "" || c.FormValue("author") != "" {
		a.Editor.SetMeta(
			strings.TrimSpace(c.FormValue("title")),
			strings.TrimSpace(c.FormValue("author")),
			c.FormValue("category"),
			c.FormValue("featured") != "",
		)
		a.Editor.SetContent(c.FormValue("content"))
	}
}

func (a *App) renderEditor(c echo.Context) error {
	return Render(c, a.Views.AdminEditor(a.Editor.View(), a.Store.Categories(), CsrfToken(c)))
}

// renderAdminDashboard projects the full store, newest first, with admin
// affordances enabled.
func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	snap := a.Store.Snapshot()
	size := len(snap.Posts)
	if size < 1 {
		size = 1
	}
	res := RunQuery(snap, QueryView{Filter: FilterAll, Page: 1, PageSize: size})
	page := Project(res, true, snap.Categories)
	return Render(c, a.Views.AdminDashboard(page, msg, CsrfToken(c)))
}
