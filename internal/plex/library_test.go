package plex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/p2c/internal/shared"
	tu "github.com/desertthunder/p2c/internal/testing"
)

func newFakeLibrary(t *testing.T) (*tu.FakePlex, *Client) {
	t.Helper()

	fake := tu.NewFakePlex(t, "secret")
	fake.AddSection(1, "Movies")
	fake.AddSection(2, "TV Shows")
	fake.AddItem(tu.FakeItem{Key: "/library/metadata/10", Title: "Alien", Type: "movie", SectionID: 1})
	fake.AddItem(tu.FakeItem{Key: "/library/metadata/11", Title: "Heat", Type: "movie", SectionID: 1, Collections: []string{"Favorites"}})
	fake.AddItem(tu.FakeItem{Key: "/library/metadata/20", Title: "Pilot", Type: "episode", SectionID: 2})
	fake.AddPlaylist("Favorites", 1700000000, "/library/metadata/10", "/library/metadata/11", "/library/metadata/20")

	return fake, NewClient(ClientOpts{Host: fake.URL(), Token: "secret"})
}

func jsonServer(t *testing.T, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return NewClient(ClientOpts{Host: server.URL})
}

func TestPlaylists(t *testing.T) {
	ctx := context.Background()

	t.Run("Lists Video Playlists", func(t *testing.T) {
		fake, c := newFakeLibrary(t)

		playlists, err := c.Playlists(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 1 {
			t.Fatalf("expected 1 playlist, got %d", len(playlists))
		}

		p := playlists[0]
		if p.Title != "Favorites" || p.LeafCount != 3 || p.Key != "/playlists/1/items" {
			t.Errorf("unexpected playlist %+v", p)
		}
		if p.AddedAt.Unix() != 1700000000 {
			t.Errorf("unexpected addedAt %v", p.AddedAt)
		}

		reqs := fake.Requests()
		if reqs[0].RawQuery != "playlistType=video&X-Plex-Token=secret" {
			t.Errorf("unexpected query %q", reqs[0].RawQuery)
		}
	})

	t.Run("Empty Listing", func(t *testing.T) {
		fake := tu.NewFakePlex(t, "secret")
		c := NewClient(ClientOpts{Host: fake.URL(), Token: "secret"})

		if _, err := c.Playlists(ctx); !errors.Is(err, shared.ErrNoPlaylists) {
			t.Errorf("expected ErrNoPlaylists, got %v", err)
		}
	})

	t.Run("Size Without Metadata", func(t *testing.T) {
		c := jsonServer(t, `{"MediaContainer":{"size":2}}`)
		if _, err := c.Playlists(ctx); !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestPlaylistItems(t *testing.T) {
	ctx := context.Background()

	t.Run("Items In Order", func(t *testing.T) {
		_, c := newFakeLibrary(t)

		items, err := c.PlaylistItems(ctx, "/playlists/1/items")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var titles []string
		for _, it := range items {
			titles = append(titles, it.Title)
		}
		if !reflect.DeepEqual(titles, []string{"Alien", "Heat", "Pilot"}) {
			t.Errorf("unexpected titles %v", titles)
		}
		if items[2].LibrarySectionID != 2 || items[2].Type != "episode" {
			t.Errorf("unexpected item %+v", items[2])
		}
	})

	t.Run("String Section ID", func(t *testing.T) {
		c := jsonServer(t, `{"MediaContainer":{"size":1,"Metadata":[{"key":"/library/metadata/5","title":"X","type":"movie","librarySectionID":"3"}]}}`)

		items, err := c.PlaylistItems(ctx, "/playlists/9/items")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if items[0].LibrarySectionID != 3 {
			t.Errorf("expected section 3, got %d", items[0].LibrarySectionID)
		}
	})

	t.Run("No Metadata", func(t *testing.T) {
		c := jsonServer(t, `{"MediaContainer":{"size":0}}`)
		if _, err := c.PlaylistItems(ctx, "/playlists/9/items"); !errors.Is(err, shared.ErrNoMetadata) {
			t.Errorf("expected ErrNoMetadata, got %v", err)
		}
	})
}

func TestSections(t *testing.T) {
	ctx := context.Background()

	t.Run("String Keys", func(t *testing.T) {
		_, c := newFakeLibrary(t)

		sections, err := c.Sections(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []Section{{Key: 1, Title: "Movies", Type: "movie"}, {Key: 2, Title: "TV Shows", Type: "movie"}}
		if !reflect.DeepEqual(sections, want) {
			t.Errorf("expected %+v, got %+v", want, sections)
		}
	})

	t.Run("Missing Directory", func(t *testing.T) {
		c := jsonServer(t, `{"MediaContainer":{"size":0}}`)
		if _, err := c.Sections(ctx); !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestCollections(t *testing.T) {
	ctx := context.Background()

	t.Run("Section With Collections", func(t *testing.T) {
		_, c := newFakeLibrary(t)

		collections, err := c.Collections(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(collections, []Collection{{Title: "Favorites"}}) {
			t.Errorf("unexpected collections %+v", collections)
		}
	})

	t.Run("Empty Section", func(t *testing.T) {
		_, c := newFakeLibrary(t)

		collections, err := c.Collections(ctx, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if collections == nil || len(collections) != 0 {
			t.Errorf("expected empty slice, got %#v", collections)
		}
	})
}

func TestItemCollections(t *testing.T) {
	ctx := context.Background()
	_, c := newFakeLibrary(t)

	t.Run("Tagged Item", func(t *testing.T) {
		tags, err := c.ItemCollections(ctx, "/library/metadata/11")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(tags, []string{"Favorites"}) {
			t.Errorf("unexpected tags %v", tags)
		}
	})

	t.Run("Untagged Item", func(t *testing.T) {
		tags, err := c.ItemCollections(ctx, "/library/metadata/10")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tags) != 0 {
			t.Errorf("expected no tags, got %v", tags)
		}
	})

	t.Run("Unknown Item", func(t *testing.T) {
		if _, err := c.ItemCollections(ctx, "/library/metadata/999"); !errors.Is(err, shared.ErrBadResponse) {
			t.Errorf("expected ErrBadResponse, got %v", err)
		}
	})
}

func TestSetCollections(t *testing.T) {
	ctx := context.Background()

	t.Run("Replaces Tags", func(t *testing.T) {
		fake, c := newFakeLibrary(t)
		item := MediaItem{Key: "/library/metadata/11", Title: "Heat", Type: "movie", LibrarySectionID: 1}

		if err := c.SetCollections(ctx, 1, item, []string{"Favorites", "Date Night"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, _ := fake.Item("/library/metadata/11")
		if !reflect.DeepEqual(got.Collections, []string{"Favorites", "Date Night"}) {
			t.Errorf("unexpected collections %v", got.Collections)
		}

		if fake.Count(http.MethodOptions) != 1 || fake.Count(http.MethodPut) != 1 {
			t.Errorf("expected one OPTIONS and one PUT, got %d and %d",
				fake.Count(http.MethodOptions), fake.Count(http.MethodPut))
		}

		for _, r := range fake.Requests() {
			if r.Method != http.MethodPut {
				continue
			}
			want := "type=1&id=11&collection%5B0%5D.tag.tag=Favorites&collection%5B1%5D.tag.tag=Date%20Night&X-Plex-Token=secret"
			if r.RawQuery != want {
				t.Errorf("expected query %q, got %q", want, r.RawQuery)
			}
			if r.Path != "/library/sections/1/all" {
				t.Errorf("unexpected path %q", r.Path)
			}
		}
	})

	t.Run("Failed Pre-flight", func(t *testing.T) {
		fake, c := newFakeLibrary(t)
		fake.OptionsStatus = http.StatusInternalServerError
		item := MediaItem{Key: "/library/metadata/10", Title: "Alien", Type: "movie", LibrarySectionID: 1}

		if err := c.SetCollections(ctx, 1, item, []string{"A&B", "Ünï"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var methods []string
		for _, r := range fake.Requests() {
			methods = append(methods, r.Method)
		}
		if !reflect.DeepEqual(methods, []string{http.MethodOptions, http.MethodPut}) {
			t.Errorf("expected [OPTIONS PUT], got %v", methods)
		}

		got, _ := fake.Item("/library/metadata/10")
		if !reflect.DeepEqual(got.Collections, []string{"A&B", "Ünï"}) {
			t.Errorf("unexpected collections %v", got.Collections)
		}

		want := "type=1&id=10&collection%5B0%5D.tag.tag=A%26B&collection%5B1%5D.tag.tag=%C3%9Cn%C3%AF&X-Plex-Token=secret"
		for _, r := range fake.Requests() {
			if r.RawQuery != want {
				t.Errorf("%s: expected query %q, got %q", r.Method, want, r.RawQuery)
			}
		}
	})

	t.Run("Ineligible Type", func(t *testing.T) {
		fake, c := newFakeLibrary(t)
		item := MediaItem{Key: "/library/metadata/30", Title: "Song", Type: "track", LibrarySectionID: 1}

		err := c.SetCollections(ctx, 1, item, []string{"Favorites"})
		if !errors.Is(err, shared.ErrIneligibleType) {
			t.Fatalf("expected ErrIneligibleType, got %v", err)
		}
		if len(fake.Requests()) != 0 {
			t.Errorf("expected no requests, got %d", len(fake.Requests()))
		}
	})

	t.Run("Non Numeric Key", func(t *testing.T) {
		_, c := newFakeLibrary(t)
		item := MediaItem{Key: "/library/metadata/abc", Type: "movie"}

		if err := c.SetCollections(ctx, 1, item, nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("PUT Rejected", func(t *testing.T) {
		fake, c := newFakeLibrary(t)
		fake.PutStatus = http.StatusBadRequest
		item := MediaItem{Key: "/library/metadata/10", Title: "Alien", Type: "movie", LibrarySectionID: 1}

		err := c.SetCollections(ctx, 1, item, []string{"Favorites"})
		if !errors.Is(err, shared.ErrBadResponse) {
			t.Fatalf("expected ErrBadResponse, got %v", err)
		}
		if !strings.Contains(err.Error(), "400") {
			t.Errorf("expected status in error, got %v", err)
		}
	})
}
