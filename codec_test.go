package bloglet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	store := newTestStore(t)
	before := store.Snapshot()

	data, err := ExportAll(before)
	if err != nil {
		t.Fatal(err)
	}

	target, err := NewStore(Snapshot{Posts: []Post{}, Categories: map[string]Category{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := ImportAll(target, nil, data); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(target.Snapshot(), before) {
		t.Errorf("round-trip changed the snapshot:\nexported %+v\nimported %+v", before, target.Snapshot())
	}
}

func TestExportIsPrettyPrinted(t *testing.T) {
	data, err := ExportAll(FallbackSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("export is not indented")
	}
}

func TestImportInvalidJSON(t *testing.T) {
	store := newTestStore(t)
	err := ImportAll(store, nil, []byte("{not json"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("want ParseError, got %v", err)
	}
	if got := len(store.Snapshot().Posts); got != 2 {
		t.Errorf("failed import mutated the store: %d posts", got)
	}
}

func TestImportMissingSections(t *testing.T) {
	store := newTestStore(t)
	tests := []struct {
		name string
		doc  string
	}{
		{"no posts", `{"categories":{}}`},
		{"no categories", `{"posts":[]}`},
	}
	for _, tt := range tests {
		err := ImportAll(store, nil, []byte(tt.doc))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: want ValidationError, got %v", tt.name, err)
		}
	}
}

func TestImportResetsQueryState(t *testing.T) {
	store := newTestStore(t)
	qs := NewQueryState()
	qs.SetFilter("news")
	qs.SetPage(3)

	doc, err := ExportAll(FallbackSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if err := ImportAll(store, qs, doc); err != nil {
		t.Fatal(err)
	}
	if v := qs.View(); v.Filter != FilterAll || v.Page != 1 {
		t.Errorf("query state after import = %+v, want initial position", v)
	}
}

func TestPostPreservesUnknownJSONFields(t *testing.T) {
	doc := `{"id":1,"date":"2025-01-01","title":"t","content":"c","author":"a","category":"news","featured":false,"pinned":true,"views":42}`
	var p Post
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		t.Fatal(err)
	}
	if len(p.Extra) != 2 {
		t.Fatalf("Extra = %v, want pinned and views preserved", p.Extra)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var round map[string]json.RawMessage
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatal(err)
	}
	if string(round["pinned"]) != "true" || string(round["views"]) != "42" {
		t.Errorf("unknown fields lost on re-export: %s", out)
	}
}

func TestFetchSnapshot(t *testing.T) {
	doc, err := ExportAll(FallbackSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(doc)
	}))
	defer srv.Close()

	snap, err := FetchSnapshot(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Posts) != 2 {
		t.Errorf("fetched %d posts, want 2", len(snap.Posts))
	}
}

func TestFetchSnapshotBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := FetchSnapshot(context.Background(), srv.URL); err == nil {
		t.Error("non-2xx response accepted")
	}
}

func TestFetchSnapshotMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := FetchSnapshot(context.Background(), srv.URL)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("want ParseError, got %v", err)
	}
}

func TestLoadInitialFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	snap, err := LoadInitial(context.Background(), srv.URL)
	if err == nil {
		t.Error("fallback taken without reporting why")
	}
	if len(snap.Posts) == 0 || snap.Categories == nil {
		t.Errorf("fallback snapshot unusable: %+v", snap)
	}
	if err := validateSnapshot(snap); err != nil {
		t.Errorf("fallback snapshot fails validation: %v", err)
	}
}

func TestLoadInitialEmptyURL(t *testing.T) {
	snap, err := LoadInitial(context.Background(), "")
	if err != nil {
		t.Errorf("empty url should use the sample data silently, got %v", err)
	}
	if len(snap.Posts) != 2 {
		t.Errorf("sample snapshot has %d posts, want 2", len(snap.Posts))
	}
}
