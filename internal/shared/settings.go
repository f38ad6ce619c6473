package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting keys shared by the config file and the command line.
const (
	KeyHost       = "host"
	KeyToken      = "token"
	KeyPlaylist   = "playlist"
	KeySection    = "section"
	KeyCollection = "collection"
)

// SettingKeys lists every key [ResolveSettings] merges, in resolution order.
var SettingKeys = []string{KeyHost, KeyToken, KeyPlaylist, KeySection, KeyCollection}

// Settings is the resolved set of values a copy run starts from.
type Settings struct {
	Host       string
	Token      string
	Playlist   string
	Section    string
	Collection string
}

// SectionNumber returns the section as an integer when it is purely numeric.
func (s Settings) SectionNumber() (int, bool) {
	return SectionNumber(s.Section)
}

// SectionNumber parses a library section id made only of decimal digits.
func SectionNumber(id string) (int, bool) {
	v := strings.TrimSpace(id)
	if v == "" {
		return 0, false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Config) lookup(key string) string {
	if c == nil {
		return ""
	}
	switch key {
	case KeyHost:
		return c.Host
	case KeyToken:
		return c.Token
	case KeyPlaylist:
		return c.Playlist
	case KeySection:
		return string(c.Section)
	case KeyCollection:
		return c.Collection
	}
	return ""
}

// ResolveSettings merges config file values with command-line values.
//
// args holds only the flags that were explicitly given. A command-line value always wins; when
// the config file also carries a value for the same key a warning is returned for it. host falls back
// to [DefaultHost], every other key to the empty string.
func ResolveSettings(cfg *Config, args map[string]string) (Settings, []string) {
	var warnings []string
	values := make(map[string]string, len(SettingKeys))

	for _, key := range SettingKeys {
		fromFile := cfg.lookup(key)
		fromArgs, isSet := args[key]

		switch {
		case fromFile != "" && isSet:
			warnings = append(warnings, fmt.Sprintf(
				"Duplicate argument %q found in both command-line arguments and config file. Using command-line value (%q)",
				key, fromArgs,
			))
			values[key] = fromArgs
		case fromFile != "":
			values[key] = fromFile
		case isSet:
			values[key] = fromArgs
		}
	}

	if values[KeyHost] == "" {
		values[KeyHost] = DefaultHost
	}

	return Settings{
		Host:       strings.TrimRight(values[KeyHost], "/"),
		Token:      values[KeyToken],
		Playlist:   values[KeyPlaylist],
		Section:    values[KeySection],
		Collection: values[KeyCollection],
	}, warnings
}
