package bloglet

import (
	"errors"
	"testing"
	"time"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Posts: []Post{
			{ID: 5, Date: "2025-03-01", Title: "Five", Content: "c", Author: "a", Category: "news"},
			{ID: 2, Date: "2025-02-01", Title: "Two", Content: "c", Author: "a", Category: "update"},
		},
		Categories: map[string]Category{
			"news":   {Name: "News", Color: "#ff0000", Icon: "📰"},
			"update": {Name: "Update", Color: "#00ff00", Icon: "🔄"},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewStoreRejectsMissingPosts(t *testing.T) {
	_, err := NewStore(Snapshot{Categories: map[string]Category{}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestNewStoreRejectsMissingCategories(t *testing.T) {
	_, err := NewStore(Snapshot{Posts: []Post{}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestAddAssignsNextIDAndInsertsFirst(t *testing.T) {
	s := newTestStore(t)

	added, err := s.Add(Post{Title: "New", Content: "body", Author: "me"})
	if err != nil {
		t.Fatal(err)
	}
	if added.ID != 6 {
		t.Errorf("ID = %d, want 6 (max existing id + 1)", added.ID)
	}
	if want := time.Now().Format("2006-01-02"); added.Date != want {
		t.Errorf("Date = %q, want today %q", added.Date, want)
	}

	posts := s.Snapshot().Posts
	if len(posts) != 3 || posts[0].ID != 6 {
		t.Errorf("new post not at front: %+v", posts)
	}
}

func TestAddEmptyStoreStartsAtOne(t *testing.T) {
	s, err := NewStore(Snapshot{Posts: []Post{}, Categories: map[string]Category{}})
	if err != nil {
		t.Fatal(err)
	}
	added, err := s.Add(Post{Title: "First", Content: "c", Author: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if added.ID != 1 {
		t.Errorf("ID = %d, want 1", added.ID)
	}
}

func TestAddDefaultsCategory(t *testing.T) {
	s := newTestStore(t)
	added, err := s.Add(Post{Title: "t", Content: "c", Author: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if added.Category != DefaultCategory {
		t.Errorf("Category = %q, want %q", added.Category, DefaultCategory)
	}
}

func TestAddValidatesRequiredFields(t *testing.T) {
	s := newTestStore(t)
	tests := []struct {
		name string
		post Post
	}{
		{"missing title", Post{Content: "c", Author: "a"}},
		{"missing content", Post{Title: "t", Author: "a"}},
		{"missing author", Post{Title: "t", Content: "c"}},
		{"whitespace title", Post{Title: "   ", Content: "c", Author: "a"}},
	}
	for _, tt := range tests {
		_, err := s.Add(tt.post)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: want ValidationError, got %v", tt.name, err)
		}
	}
}

func TestUpdatePreservesIDAndDate(t *testing.T) {
	s := newTestStore(t)
	title := "Renamed"
	updated, err := s.Update(5, PostPatch{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != 5 || updated.Date != "2025-03-01" {
		t.Errorf("ID/Date changed: %+v", updated)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", updated.Title)
	}
	if updated.Content != "c" {
		t.Errorf("unpatched field changed: Content = %q", updated.Content)
	}
}

func TestUpdateMissingPost(t *testing.T) {
	s := newTestStore(t)
	title := "x"
	_, err := s.Update(99, PostPatch{Title: &title})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if nf.ID != 99 {
		t.Errorf("NotFoundError.ID = %d, want 99", nf.ID)
	}
}

func TestRemoveThenFind(t *testing.T) {
	s := newTestStore(t)
	s.Remove(5)
	_, err := s.Find(5)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError after remove, got %v", err)
	}
	if got := len(s.Snapshot().Posts); got != 1 {
		t.Errorf("posts remaining = %d, want 1", got)
	}
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	notified := false
	s.Notify(func() { notified = true })

	s.Remove(99)
	if got := len(s.Snapshot().Posts); got != 2 {
		t.Errorf("posts = %d, want 2", got)
	}
	if notified {
		t.Error("change notification fired for a no-op remove")
	}
}

func TestReplaceAllSwapsContents(t *testing.T) {
	s := newTestStore(t)
	next := Snapshot{
		Posts:      []Post{{ID: 1, Date: "2025-01-01", Title: "Only", Content: "c", Author: "a"}},
		Categories: map[string]Category{"misc": {Name: "Misc"}},
	}
	if err := s.ReplaceAll(next); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if len(snap.Posts) != 1 || snap.Posts[0].Title != "Only" {
		t.Errorf("posts not replaced: %+v", snap.Posts)
	}
	if _, ok := snap.Categories["misc"]; !ok {
		t.Errorf("categories not replaced: %+v", snap.Categories)
	}
}

func TestReplaceAllRejectsInvalidSnapshot(t *testing.T) {
	s := newTestStore(t)
	err := s.ReplaceAll(Snapshot{Posts: []Post{{ID: 1}}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if got := len(s.Snapshot().Posts); got != 2 {
		t.Errorf("store mutated by rejected import: %d posts", got)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestStore(t)
	snap := s.Snapshot()
	snap.Posts[0].Title = "mutated"
	snap.Categories["news"] = Category{Name: "mutated"}

	fresh := s.Snapshot()
	if fresh.Posts[0].Title == "mutated" {
		t.Error("caller mutation leaked into store posts")
	}
	if fresh.Categories["news"].Name == "mutated" {
		t.Error("caller mutation leaked into store categories")
	}
}

func TestNotifyFiresOnMutation(t *testing.T) {
	s := newTestStore(t)
	count := 0
	s.Notify(func() { count++ })

	if _, err := s.Add(Post{Title: "t", Content: "c", Author: "a"}); err != nil {
		t.Fatal(err)
	}
	s.Remove(2)
	if count != 2 {
		t.Errorf("notifications = %d, want 2", count)
	}
}
