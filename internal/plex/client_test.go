package plex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/p2c/internal/shared"
	tu "github.com/desertthunder/p2c/internal/testing"
)

func TestNewClient(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c := NewClient(ClientOpts{Token: "abc"})

		if c.Host() != shared.DefaultHost {
			t.Errorf("expected host %q, got %q", shared.DefaultHost, c.Host())
		}
		if c.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient to be used")
		}
		if c.limiter != nil {
			t.Error("expected no limiter without a rate limit")
		}
	})

	t.Run("Trailing Slash Trimmed", func(t *testing.T) {
		c := NewClient(ClientOpts{Host: "http://plex.local:32400/"})
		if c.Host() != "http://plex.local:32400" {
			t.Errorf("unexpected host %q", c.Host())
		}
	})

	t.Run("Rate Limit", func(t *testing.T) {
		c := NewClient(ClientOpts{RateLimit: 5})
		if c.limiter == nil {
			t.Error("expected limiter to be set")
		}
	})
}

func TestClientURL(t *testing.T) {
	c := NewClient(ClientOpts{Host: "http://h:32400", Token: "tok en"})

	t.Run("Token Only", func(t *testing.T) {
		if got := c.URL("/"); got != "http://h:32400/?X-Plex-Token=tok%20en" {
			t.Errorf("unexpected url %q", got)
		}
	})

	t.Run("Token Last", func(t *testing.T) {
		got := c.URL("/playlists", Param{Key: "playlistType", Value: "video"})
		if got != "http://h:32400/playlists?playlistType=video&X-Plex-Token=tok%20en" {
			t.Errorf("unexpected url %q", got)
		}
	})
}

func TestCheckConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		fake := tu.NewFakePlex(t, "secret")
		c := NewClient(ClientOpts{Host: fake.URL(), Token: "secret"})

		if err := c.CheckConnection(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fake.Count(http.MethodGet) != 1 {
			t.Errorf("expected 1 request, got %d", fake.Count(http.MethodGet))
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		fake := tu.NewFakePlex(t, "secret")
		c := NewClient(ClientOpts{Host: fake.URL(), Token: "wrong"})

		err := c.CheckConnection(ctx)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if err.Error() != "Could not connect to Plex with the provided token" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Bad Status", func(t *testing.T) {
		fake := tu.NewFakePlex(t, "secret")
		fake.RootStatus = http.StatusInternalServerError
		c := NewClient(ClientOpts{Host: fake.URL(), Token: "secret"})

		err := c.CheckConnection(ctx)
		if !errors.Is(err, shared.ErrBadResponse) {
			t.Fatalf("expected ErrBadResponse, got %v", err)
		}
		if err.Error() != "Bad response from Plex (500)" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		c := NewClient(ClientOpts{Host: "http://nowhere:32400", HTTPClient: client})

		err := c.CheckConnection(ctx)
		if !errors.Is(err, shared.ErrConnection) {
			t.Fatalf("expected ErrConnection, got %v", err)
		}

		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			t.Fatalf("expected *ConnectionError, got %T", err)
		}
		if !strings.HasPrefix(err.Error(), "Unable to connect to http://nowhere:32400 (") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestGetContainer(t *testing.T) {
	ctx := context.Background()

	t.Run("Accept Header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("expected Accept: application/json, got %q", r.Header.Get("Accept"))
			}
			w.Write([]byte(`{"MediaContainer":{"size":0}}`))
		}))
		defer server.Close()

		c := NewClient(ClientOpts{Host: server.URL})
		if _, err := c.getContainer(ctx, "/"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<MediaContainer size="0"/>`))
		}))
		defer server.Close()

		c := NewClient(ClientOpts{Host: server.URL})
		_, err := c.getContainer(ctx, "/")
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("Missing Envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"size":1}`))
		}))
		defer server.Close()

		c := NewClient(ClientOpts{Host: server.URL})
		_, err := c.getContainer(ctx, "/")
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("Non 200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(ClientOpts{Host: server.URL})
		_, err := c.getContainer(ctx, "/missing")
		if !errors.Is(err, shared.ErrBadResponse) {
			t.Errorf("expected ErrBadResponse, got %v", err)
		}
	})

	t.Run("Custom Transport", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       tu.NopBody(`{"MediaContainer":{"size":1,"Metadata":[{"title":"Favorites"}]}}`),
			Header:     http.Header{},
		}
		rt := tu.NewMockRoundTripper(resp, nil)
		c := NewClient(ClientOpts{Host: "http://h", Token: "secret", HTTPClient: &http.Client{Transport: rt}})

		mc, err := c.getContainer(ctx, "/playlists")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(mc.Metadata) != 1 || mc.Metadata[0].Title != "Favorites" {
			t.Errorf("unexpected container %+v", mc)
		}
		if len(rt.Requests) != 1 || rt.Requests[0].URL.String() != "http://h/playlists?X-Plex-Token=secret" {
			t.Errorf("unexpected requests %v", rt.Requests)
		}
	})

	t.Run("Read Failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		c := NewClient(ClientOpts{Host: "http://h", HTTPClient: client})

		_, err := c.getContainer(ctx, "/")
		if err == nil || !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("expected read failure, got %v", err)
		}
	})
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in      string
		want    FlexInt
		wantErr bool
	}{
		{in: `3`, want: 3},
		{in: `"3"`, want: 3},
		{in: `""`, want: 0},
		{in: `null`, want: 0},
		{in: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f FlexInt
			err := f.UnmarshalJSON([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if f != tt.want {
				t.Errorf("expected %d, got %d", tt.want, f)
			}
		})
	}
}
