package shared

import (
	"strings"
	"testing"
)

func TestResolveSettings(t *testing.T) {
	t.Run("defaults with nothing set", func(t *testing.T) {
		settings, warnings := ResolveSettings(nil, nil)

		if settings.Host != DefaultHost {
			t.Errorf("expected default host, got %s", settings.Host)
		}
		if settings.Token != "" || settings.Playlist != "" || settings.Section != "" || settings.Collection != "" {
			t.Errorf("expected empty values, got %+v", settings)
		}
		if len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
	})

	t.Run("config values are used", func(t *testing.T) {
		cfg := &Config{Host: "http://plex:32400/", Token: "tok", Playlist: "Favorites", Section: "1", Collection: "Mine"}
		settings, warnings := ResolveSettings(cfg, map[string]string{})

		if settings.Host != "http://plex:32400" {
			t.Errorf("expected trailing slash trimmed, got %s", settings.Host)
		}
		if settings.Token != "tok" || settings.Playlist != "Favorites" || settings.Section != "1" || settings.Collection != "Mine" {
			t.Errorf("unexpected settings %+v", settings)
		}
		if len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
	})

	t.Run("args fill gaps without warnings", func(t *testing.T) {
		cfg := &Config{Token: "tok"}
		settings, warnings := ResolveSettings(cfg, map[string]string{KeyPlaylist: "Road Trip"})

		if settings.Playlist != "Road Trip" {
			t.Errorf("expected playlist from args, got %s", settings.Playlist)
		}
		if settings.Token != "tok" {
			t.Errorf("expected token from config, got %s", settings.Token)
		}
		if len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
	})

	t.Run("args override config with a warning", func(t *testing.T) {
		cfg := &Config{Playlist: "Favorites", Collection: "Mine"}
		args := map[string]string{KeyPlaylist: "Road Trip", KeyCollection: "Mine"}
		settings, warnings := ResolveSettings(cfg, args)

		if settings.Playlist != "Road Trip" {
			t.Errorf("expected command-line playlist, got %s", settings.Playlist)
		}
		if len(warnings) != 2 {
			t.Fatalf("expected 2 warnings, got %v", warnings)
		}
		if !strings.Contains(warnings[0], `Duplicate argument "playlist"`) || !strings.Contains(warnings[0], `("Road Trip")`) {
			t.Errorf("unexpected warning %q", warnings[0])
		}
		if !strings.Contains(warnings[1], `"collection"`) {
			t.Errorf("unexpected warning %q", warnings[1])
		}
	})

	t.Run("empty arg still counts as set", func(t *testing.T) {
		cfg := &Config{Section: "3"}
		settings, warnings := ResolveSettings(cfg, map[string]string{KeySection: ""})

		if settings.Section != "" {
			t.Errorf("expected command-line value to win, got %q", settings.Section)
		}
		if len(warnings) != 1 {
			t.Errorf("expected 1 warning, got %v", warnings)
		}
	})
}

func TestSettingsSectionNumber(t *testing.T) {
	tc := []struct {
		section string
		want    int
		ok      bool
	}{
		{section: "1", want: 1, ok: true},
		{section: " 12 ", want: 12, ok: true},
		{section: "", ok: false},
		{section: "-1", ok: false},
		{section: "Movies", ok: false},
		{section: "1a", ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.section, func(t *testing.T) {
			got, ok := Settings{Section: tt.section}.SectionNumber()
			if ok != tt.ok || got != tt.want {
				t.Errorf("SectionNumber(%q) = (%d, %v), want (%d, %v)", tt.section, got, ok, tt.want, tt.ok)
			}
		})
	}
}
