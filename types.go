package bloglet

import "encoding/json"

// Post is the core content type held by the Store and rendered by views.
// Date is fixed at creation time and never changed by edits.
type Post struct {
	ID       int     `json:"id"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Author   string  `json:"author"`
	Category string  `json:"category"`
	Featured bool    `json:"featured"`
	Images   []Image `json:"images,omitempty"`

	// Extra holds JSON fields this version does not model, so external
	// documents survive a load→edit→export round-trip without losing them.
	Extra map[string]json.RawMessage `json:"-"`
}

// Category is a classification bucket for posts, keyed by a stable string
// in the snapshot's categories map.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Image is an inline attachment carried by a post: the bytes live in Data
// as a data URI, no file ever touches a server.
type Image struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Data string `json:"data"`
	Size int64  `json:"size"`
}

// Snapshot is the full store contents, matching the external JSON document
// shape used by import and export.
type Snapshot struct {
	Posts      []Post              `json:"posts"`
	Categories map[string]Category `json:"categories"`
}

// PostPatch carries the fields an update may change. Nil fields are left
// untouched; ID and Date are never patchable.
type PostPatch struct {
	Title    *string
	Content  *string
	Author   *string
	Category *string
	Featured *bool
	Images   []Image
}

// knownPostFields are the JSON keys modeled by Post; anything else ends up
// in Extra.
var knownPostFields = []string{"id", "date", "title", "content", "author", "category", "featured", "images"}

func (p *Post) UnmarshalJSON(data []byte) error {
	type alias Post
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range knownPostFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	*p = Post(a)
	return nil
}

func (p Post) MarshalJSON() ([]byte, error) {
	type alias Post
	base, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return base, nil
	}
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Clone returns a deep copy of the snapshot, so callers can hand it out
// without aliasing store internals.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{}
	if s.Posts != nil {
		out.Posts = make([]Post, len(s.Posts))
		for i, p := range s.Posts {
			out.Posts[i] = p.clone()
		}
	}
	if s.Categories != nil {
		out.Categories = make(map[string]Category, len(s.Categories))
		for k, v := range s.Categories {
			out.Categories[k] = v
		}
	}
	return out
}

func (p Post) clone() Post {
	c := p
	if p.Images != nil {
		c.Images = make([]Image, len(p.Images))
		copy(c.Images, p.Images)
	}
	if p.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return c
}
