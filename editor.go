package bloglet

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"bloglet/markdown"
)

// EditorMode is the active editing surface of a session.
type EditorMode string

const (
	ModeVisual   EditorMode = "visual"
	ModeMarkdown EditorMode = "markdown"
	ModePreview  EditorMode = "preview"
)

func validMode(m EditorMode) bool {
	return m == ModeVisual || m == ModeMarkdown || m == ModePreview
}

// EditorSession manages one post being authored: the visual and markdown
// buffers, the active mode, attached images and the draft scratch slot.
//
// Mode-switch policy: switching between visual and markdown carries the
// active buffer's content into the target buffer, so no edit is ever
// silently discarded and the buffer read at save time is always current.
// Entering preview derives the preview once from whichever authoring
// surface was last active and leaves both buffers untouched.
type EditorSession struct {
	mu sync.Mutex

	postID    int        // 0 while authoring a new post
	mode      EditorMode // visual, markdown or preview
	authoring EditorMode // last active non-preview mode

	visualBuf   string
	markdownBuf string
	previewHTML string

	title    string
	author   string
	category string
	featured bool
	images   []Image

	drafts *DraftStore // nil disables draft persistence
}

// NewEditorSession creates an empty session in visual mode. A nil draft
// store turns SaveDraft/RestoreDraft into no-ops.
func NewEditorSession(drafts *DraftStore) *EditorSession {
	return &EditorSession{
		mode:      ModeVisual,
		authoring: ModeVisual,
		drafts:    drafts,
	}
}

// Load populates the session from an existing post. Both buffers receive
// the raw content so switching modes before any edit loses nothing.
func (e *EditorSession) Load(p Post) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.postID = p.ID
	e.mode = ModeVisual
	e.authoring = ModeVisual
	e.visualBuf = p.Content
	e.markdownBuf = p.Content
	e.previewHTML = ""
	e.title = p.Title
	e.author = p.Author
	e.category = p.Category
	e.featured = p.Featured
	e.images = append([]Image(nil), p.Images...)
}

// Reset clears all buffers and images and returns to visual mode. Used
// after both save and cancel.
func (e *EditorSession) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.postID = 0
	e.mode = ModeVisual
	e.authoring = ModeVisual
	e.visualBuf = ""
	e.markdownBuf = ""
	e.previewHTML = ""
	e.title = ""
	e.author = ""
	e.category = ""
	e.featured = false
	e.images = nil
}

// Mode returns the active mode.
func (e *EditorSession) Mode() EditorMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode switches the editing surface. Any mode may follow any other;
// the only derived work is the one-shot preview rendering on entry to
// preview.
func (e *EditorSession) SetMode(m EditorMode) error {
	if !validMode(m) {
		return fmt.Errorf("unknown editor mode %q", m)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if m == e.mode {
		return nil
	}
	switch m {
	case ModePreview:
		if e.authoring == ModeMarkdown {
			e.previewHTML = markdown.FormatPreview(e.markdownBuf)
		} else {
			e.previewHTML = e.visualBuf
		}
	case ModeVisual:
		if e.authoring == ModeMarkdown {
			e.visualBuf = e.markdownBuf
		}
		e.authoring = ModeVisual
	case ModeMarkdown:
		if e.authoring == ModeVisual {
			e.markdownBuf = e.visualBuf
		}
		e.authoring = ModeMarkdown
	}
	e.mode = m
	return nil
}

// SetContent replaces the active authoring buffer. While previewing, the
// edit lands in the buffer preview was derived from.
func (e *EditorSession) SetContent(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.authoring == ModeMarkdown {
		e.markdownBuf = s
	} else {
		e.visualBuf = s
	}
}

// Content returns the active authoring buffer.
func (e *EditorSession) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.authoring == ModeMarkdown {
		return e.markdownBuf
	}
	return e.visualBuf
}

// Preview returns the HTML derived on the last entry to preview mode.
func (e *EditorSession) Preview() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.previewHTML
}

// SetMeta updates the non-content post fields held by the session.
func (e *EditorSession) SetMeta(title, author, category string, featured bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title = title
	e.author = author
	e.category = category
	e.featured = featured
}

// AttachImage validates, decodes and appends an attachment. A file over
// the intake cap fails with TooLargeError and leaves the image list
// untouched.
func (e *EditorSession) AttachImage(name string, src io.Reader, size int64) (Image, error) {
	img, err := decodeAttachment(name, src, size)
	if err != nil {
		return Image{}, err
	}
	e.mu.Lock()
	e.images = append(e.images, img)
	e.mu.Unlock()
	return img, nil
}

// Images returns a copy of the attached images in attachment order.
func (e *EditorSession) Images() []Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Image(nil), e.images...)
}

// Payload assembles the canonical post from the session: content comes
// from the buffer of the mode active at save time.
func (e *EditorSession) Payload() Post {
	e.mu.Lock()
	defer e.mu.Unlock()
	content := e.visualBuf
	if e.authoring == ModeMarkdown {
		content = e.markdownBuf
	}
	return Post{
		ID:       e.postID,
		Title:    e.title,
		Author:   e.author,
		Category: e.category,
		Featured: e.featured,
		Content:  content,
		Images:   append([]Image(nil), e.images...),
	}
}

// EditorView is a read-only snapshot of the session for templates.
type EditorView struct {
	PostID   int
	Mode     EditorMode
	Content  string
	Preview  string
	Title    string
	Author   string
	Category string
	Featured bool
	Images   []Image
}

// View snapshots the session state for rendering.
func (e *EditorSession) View() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()
	content := e.visualBuf
	if e.authoring == ModeMarkdown {
		content = e.markdownBuf
	}
	return EditorView{
		PostID:   e.postID,
		Mode:     e.mode,
		Content:  content,
		Preview:  e.previewHTML,
		Title:    e.title,
		Author:   e.author,
		Category: e.category,
		Featured: e.featured,
		Images:   append([]Image(nil), e.images...),
	}
}

// DraftKey is the scratch slot for this session: draft:<id> for edits,
// draft:new for a post not yet committed.
func (e *EditorSession) DraftKey() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return draftKey(e.postID)
}

func draftKey(postID int) string {
	if postID == 0 {
		return "draft:new"
	}
	return "draft:" + strconv.Itoa(postID)
}

// SaveDraft writes the current payload to the scratch slot.
func (e *EditorSession) SaveDraft() error {
	if e.drafts == nil {
		return nil
	}
	p := e.Payload()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return e.drafts.Save(draftKey(p.ID), string(data))
}

// RestoreDraft reloads the session from its scratch slot, if one exists.
func (e *EditorSession) RestoreDraft() (bool, error) {
	if e.drafts == nil {
		return false, nil
	}
	payload, ok, err := e.drafts.Load(e.DraftKey())
	if err != nil || !ok {
		return false, err
	}
	var p Post
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return false, fmt.Errorf("decode draft: %w", err)
	}
	e.Load(p)
	return true, nil
}

// ClearDraft removes the scratch slot. Called on successful commit.
func (e *EditorSession) ClearDraft() error {
	if e.drafts == nil {
		return nil
	}
	return e.drafts.Delete(e.DraftKey())
}
