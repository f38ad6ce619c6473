package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// FakeItem is a media item served by [FakePlex].
type FakeItem struct {
	Key         string
	Title       string
	Type        string
	SectionID   int
	Collections []string
}

// FakePlaylist is a video playlist served by [FakePlex]. Its key is /playlists/{ID}/items.
type FakePlaylist struct {
	ID       int
	Title    string
	AddedAt  int64
	ItemKeys []string
}

// Key returns the locator used to fetch the playlist's items.
func (p FakePlaylist) Key() string {
	return fmt.Sprintf("/playlists/%d/items", p.ID)
}

// FakeSection is a library section served by [FakePlex].
type FakeSection struct {
	Key   int
	Title string
}

// Request is a request recorded by [FakePlex].
type Request struct {
	Method   string
	Path     string
	RawQuery string
}

// FakePlex is an in-process media server that serves the endpoints used by the copy flow, applies
// collection updates to its items and records every request it receives.
type FakePlex struct {
	Token      string
	RootStatus int // status for GET /, 200 when zero
	PutStatus  int // status for PUT collection updates, 200 when zero

	OptionsStatus int // status for OPTIONS pre-flights, 200 when zero

	mu        sync.Mutex
	playlists []FakePlaylist
	sections  []FakeSection
	items     map[string]*FakeItem
	requests  []Request
	server    *httptest.Server
}

// NewFakePlex starts a fake server accepting token. It is closed when the test ends.
func NewFakePlex(t *testing.T, token string) *FakePlex {
	t.Helper()

	f := &FakePlex{Token: token, items: map[string]*FakeItem{}}

	r := mux.NewRouter()
	r.Use(f.record, f.authenticate)
	r.HandleFunc("/", f.root).Methods(http.MethodGet)
	r.HandleFunc("/playlists", f.listPlaylists).Methods(http.MethodGet)
	r.HandleFunc("/playlists/{id:[0-9]+}/items", f.playlistItems).Methods(http.MethodGet)
	r.HandleFunc("/library/sections", f.listSections).Methods(http.MethodGet)
	r.HandleFunc("/library/sections/{id:[0-9]+}/collections", f.listCollections).Methods(http.MethodGet)
	r.HandleFunc("/library/sections/{id:[0-9]+}/all", f.preflight).Methods(http.MethodOptions)
	r.HandleFunc("/library/sections/{id:[0-9]+}/all", f.updateItem).Methods(http.MethodPut)
	r.HandleFunc("/library/metadata/{id:[0-9]+}", f.metadata).Methods(http.MethodGet)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the server.
func (f *FakePlex) URL() string {
	return f.server.URL
}

// AddSection registers a library section.
func (f *FakePlex) AddSection(key int, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sections = append(f.sections, FakeSection{Key: key, Title: title})
}

// AddItem registers a media item.
func (f *FakePlex) AddItem(item FakeItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := item
	it.Collections = append([]string(nil), item.Collections...)
	f.items[item.Key] = &it
}

// AddPlaylist registers a playlist and returns it.
func (f *FakePlex) AddPlaylist(title string, addedAt int64, itemKeys ...string) FakePlaylist {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := FakePlaylist{ID: len(f.playlists) + 1, Title: title, AddedAt: addedAt, ItemKeys: itemKeys}
	f.playlists = append(f.playlists, p)
	return p
}

// Item returns a copy of the item stored under key.
func (f *FakePlex) Item(key string) (FakeItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[key]
	if !ok {
		return FakeItem{}, false
	}
	cp := *it
	cp.Collections = append([]string(nil), it.Collections...)
	return cp, true
}

// Requests returns every request received so far.
func (f *FakePlex) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Count returns how many requests used method.
func (f *FakePlex) Count(method string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (f *FakePlex) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, Request{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakePlex) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("X-Plex-Token") != f.Token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeContainer(w http.ResponseWriter, mc map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"MediaContainer": mc})
}

func (f *FakePlex) root(w http.ResponseWriter, r *http.Request) {
	if f.RootStatus != 0 && f.RootStatus != http.StatusOK {
		http.Error(w, http.StatusText(f.RootStatus), f.RootStatus)
		return
	}
	writeContainer(w, map[string]any{"size": 0, "friendlyName": "fake"})
}

func (f *FakePlex) listPlaylists(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Query().Get("playlistType") != "video" {
		writeContainer(w, map[string]any{"size": 0})
		return
	}
	if len(f.playlists) == 0 {
		writeContainer(w, map[string]any{"size": 0})
		return
	}

	metadata := make([]map[string]any, 0, len(f.playlists))
	for _, p := range f.playlists {
		metadata = append(metadata, map[string]any{
			"key":          p.Key(),
			"title":        p.Title,
			"playlistType": "video",
			"leafCount":    len(p.ItemKeys),
			"addedAt":      p.AddedAt,
		})
	}
	writeContainer(w, map[string]any{"size": len(metadata), "Metadata": metadata})
}

func (f *FakePlex) playlistItems(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	for _, p := range f.playlists {
		if p.ID != id {
			continue
		}
		if len(p.ItemKeys) == 0 {
			writeContainer(w, map[string]any{"size": 0})
			return
		}
		metadata := make([]map[string]any, 0, len(p.ItemKeys))
		for _, key := range p.ItemKeys {
			if it, ok := f.items[key]; ok {
				metadata = append(metadata, itemJSON(it, false))
			}
		}
		writeContainer(w, map[string]any{"size": len(metadata), "Metadata": metadata})
		return
	}
	http.NotFound(w, r)
}

func (f *FakePlex) listSections(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dirs := make([]map[string]any, 0, len(f.sections))
	for _, s := range f.sections {
		dirs = append(dirs, map[string]any{"key": strconv.Itoa(s.Key), "title": s.Title, "type": "movie"})
	}
	writeContainer(w, map[string]any{"size": len(dirs), "Directory": dirs})
}

func (f *FakePlex) listCollections(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	seen := map[string]bool{}
	for _, it := range f.items {
		if it.SectionID != id {
			continue
		}
		for _, c := range it.Collections {
			seen[c] = true
		}
	}

	titles := make([]string, 0, len(seen))
	for title := range seen {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	if len(titles) == 0 {
		writeContainer(w, map[string]any{"size": 0})
		return
	}
	metadata := make([]map[string]any, 0, len(titles))
	for _, title := range titles {
		metadata = append(metadata, map[string]any{"title": title, "type": "collection"})
	}
	writeContainer(w, map[string]any{"size": len(metadata), "Metadata": metadata})
}

func (f *FakePlex) metadata(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	it, ok := f.items[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeContainer(w, map[string]any{"size": 1, "Metadata": []map[string]any{itemJSON(it, true)}})
}

func (f *FakePlex) preflight(w http.ResponseWriter, r *http.Request) {
	if f.OptionsStatus != 0 && f.OptionsStatus != http.StatusOK {
		http.Error(w, http.StatusText(f.OptionsStatus), f.OptionsStatus)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (f *FakePlex) updateItem(w http.ResponseWriter, r *http.Request) {
	if f.PutStatus != 0 && f.PutStatus != http.StatusOK {
		http.Error(w, http.StatusText(f.PutStatus), f.PutStatus)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	it, ok := f.items["/library/metadata/"+q.Get("id")]
	if !ok {
		http.NotFound(w, r)
		return
	}

	var tags []string
	for i := 0; ; i++ {
		key := fmt.Sprintf("collection[%d].tag.tag", i)
		if _, present := q[key]; !present {
			break
		}
		tags = append(tags, q.Get(key))
	}
	it.Collections = tags
	w.WriteHeader(http.StatusOK)
}

func itemJSON(it *FakeItem, withCollections bool) map[string]any {
	m := map[string]any{
		"key":              it.Key,
		"title":            it.Title,
		"type":             it.Type,
		"librarySectionID": it.SectionID,
	}
	if withCollections && len(it.Collections) > 0 {
		tags := make([]map[string]string, 0, len(it.Collections))
		for _, c := range it.Collections {
			tags = append(tags, map[string]string{"tag": c})
		}
		m["Collection"] = tags
	}
	return m
}
