package shared

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSameTitle(t *testing.T) {
	tc := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "identical", a: "Favorites", b: "Favorites", want: true},
		{name: "mixed case", a: "FaVoRiTeS", b: "favorites", want: true},
		{name: "unicode folding", a: "ΟΔΥΣΣΕΥΣ", b: "οδυσσευς", want: true},
		{name: "full folding of sharp s", a: "Straße", b: "STRASSE", want: true},
		{name: "different titles", a: "Favorites", b: "Favourites", want: false},
		{name: "whitespace matters", a: "Favorites ", b: "Favorites", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameTitle(tt.a, tt.b); got != tt.want {
				t.Errorf("SameTitle(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{in: "", want: log.WarnLevel},
		{in: "debug", want: log.DebugLevel},
		{in: " INFO ", want: log.InfoLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "loud", want: log.WarnLevel, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIDs(t *testing.T) {
	t.Run("GenerateID is unique", func(t *testing.T) {
		if GenerateID() == GenerateID() {
			t.Error("expected two generated IDs to differ")
		}
	})

	t.Run("ShortID is the first block", func(t *testing.T) {
		id := ShortID()
		if len(id) != 8 || strings.Contains(id, "-") {
			t.Errorf("expected 8 character id without dashes, got %q", id)
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(compact) != `{"key":"value"}` {
		t.Errorf("unexpected compact output %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(string(pretty), `"key": "value"`) {
		t.Errorf("unexpected pretty output %s", pretty)
	}
}
