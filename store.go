package bloglet

import (
	"strings"
	"sync"
	"time"
)

// DefaultCategory is assigned to posts saved without a category key.
const DefaultCategory = "announcement"

// Store owns the canonical posts and categories. It is memory-only: the
// contents revert to the initial snapshot on restart unless the user
// exports and re-imports them. An RWMutex serializes mutations so the
// store can sit behind an HTTP surface.
type Store struct {
	mu       sync.RWMutex
	snap     Snapshot
	onChange func()
}

// NewStore creates a Store from an initial snapshot. The snapshot must
// carry a posts sequence and a categories map.
func NewStore(snap Snapshot) (*Store, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	return &Store{snap: snap.Clone()}, nil
}

// Notify registers fn to run after every successful mutation. Used to
// invalidate derived views; fn runs outside the store lock.
func (s *Store) Notify(fn func()) {
	s.onChange = fn
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Add assigns the next id and today's date to p and inserts it at the
// front of the posts sequence. Title, content and author are required.
func (s *Store) Add(p Post) (Post, error) {
	if err := validatePost(p); err != nil {
		return Post{}, err
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultCategory
	}

	s.mu.Lock()
	p.ID = s.nextID()
	p.Date = time.Now().Format("2006-01-02")
	s.snap.Posts = append([]Post{p.clone()}, s.snap.Posts...)
	s.mu.Unlock()

	s.changed()
	return p, nil
}

// nextID is max existing id + 1; an empty store starts at 1.
// Caller must hold the lock.
func (s *Store) nextID() int {
	max := 0
	for _, p := range s.snap.Posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// Update merges patch into the post with the given id. ID and Date are
// preserved; absent ids yield a NotFoundError.
func (s *Store) Update(id int, patch PostPatch) (Post, error) {
	s.mu.Lock()
	idx := -1
	for i, p := range s.snap.Posts {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return Post{}, &NotFoundError{ID: id}
	}
	p := &s.snap.Posts[idx]
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Images != nil {
		p.Images = append([]Image(nil), patch.Images...)
	}
	out := p.clone()
	s.mu.Unlock()

	s.changed()
	return out, nil
}

// Remove deletes the post with the given id. Removing an absent id is a
// no-op: destructive confirmation is the caller's concern, not the
// store's.
func (s *Store) Remove(id int) {
	s.mu.Lock()
	removed := false
	kept := s.snap.Posts[:0]
	for _, p := range s.snap.Posts {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.snap.Posts = kept
	s.mu.Unlock()

	if removed {
		s.changed()
	}
}

// ReplaceAll atomically swaps the entire store contents. Used by import.
func (s *Store) ReplaceAll(snap Snapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap.Clone()
	s.mu.Unlock()

	s.changed()
	return nil
}

// Find returns the post with the given id.
func (s *Store) Find(id int) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.snap.Posts {
		if p.ID == id {
			return p.clone(), nil
		}
	}
	return Post{}, &NotFoundError{ID: id}
}

// Snapshot returns a deep copy of the current store contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Categories returns a copy of the category map.
func (s *Store) Categories() map[string]Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Category, len(s.snap.Categories))
	for k, v := range s.snap.Categories {
		out[k] = v
	}
	return out
}

func validatePost(p Post) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return &ValidationError{Field: "title", Reason: "required"}
	case strings.TrimSpace(p.Content) == "":
		return &ValidationError{Field: "content", Reason: "required"}
	case strings.TrimSpace(p.Author) == "":
		return &ValidationError{Field: "author", Reason: "required"}
	}
	return nil
}

func validateSnapshot(s Snapshot) error {
	if s.Posts == nil {
		return &ValidationError{Field: "posts", Reason: "missing posts sequence"}
	}
	if s.Categories == nil {
		return &ValidationError{Field: "categories", Reason: "missing categories map"}
	}
	return nil
}
