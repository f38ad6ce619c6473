package plex

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Item types that can be attached to a collection, mapped to the server's numeric type codes.
var typeCodes = map[string]int{
	"movie":   1,
	"show":    2,
	"season":  3,
	"episode": 4,
}

// TypeCode returns the numeric type code for an item type.
func TypeCode(itemType string) (int, bool) {
	code, ok := typeCodes[itemType]
	return code, ok
}

// FlexInt decodes integers the server sends either as JSON numbers or as numeric strings.
type FlexInt int

// UnmarshalJSON implements [json.Unmarshaler].
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", data, err)
	}
	*f = FlexInt(n)
	return nil
}

// envelope is the top-level wrapper of every JSON response.
type envelope struct {
	MediaContainer *MediaContainer `json:"MediaContainer"`
}

// MediaContainer holds the fields of the envelope used by this client.
type MediaContainer struct {
	Size      *int        `json:"size"`
	Metadata  []Metadata  `json:"Metadata"`
	Directory []Directory `json:"Directory"`
}

// Metadata is a single playlist, media item or collection entry.
type Metadata struct {
	Key              string  `json:"key"`
	Title            string  `json:"title"`
	Type             string  `json:"type"`
	LibrarySectionID FlexInt `json:"librarySectionID"`
	LeafCount        int     `json:"leafCount"`
	AddedAt          int64   `json:"addedAt"`
	Collection       []Tag   `json:"Collection"`
}

// Directory is a library section entry.
type Directory struct {
	Key   FlexInt `json:"key"`
	Title string  `json:"title"`
	Type  string  `json:"type"`
}

// Tag is a collection association on a media item.
type Tag struct {
	Tag string `json:"tag"`
}

// Playlist is a video playlist on the server.
type Playlist struct {
	Title     string    `json:"title"`
	Key       string    `json:"key"`
	LeafCount int       `json:"leafCount"`
	AddedAt   time.Time `json:"addedAt"`
}

// Created returns the playlist creation date in local time, formatted as YYYY-MM-DD.
func (p Playlist) Created() string {
	return p.AddedAt.Local().Format("2006-01-02")
}

// Section is a library partition identified by a small integer key.
type Section struct {
	Key   int    `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
}

// MediaItem is a movie, show, season or episode.
type MediaItem struct {
	Key              string `json:"key"`
	Title            string `json:"title"`
	Type             string `json:"type"`
	LibrarySectionID int    `json:"librarySectionID"`
}

// MetadataID returns the numeric id encoded as the final path segment of the item key.
func (m MediaItem) MetadataID() (int, error) {
	segment := m.Key[strings.LastIndex(m.Key, "/")+1:]
	id, err := strconv.Atoi(segment)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("item key %q does not end in a numeric id", m.Key)
	}
	return id, nil
}

// Collection is a named grouping of items within one section.
type Collection struct {
	Title string `json:"title"`
}

func toPlaylist(m Metadata) Playlist {
	return Playlist{
		Title:     m.Title,
		Key:       m.Key,
		LeafCount: m.LeafCount,
		AddedAt:   time.Unix(m.AddedAt, 0),
	}
}

func toMediaItem(m Metadata) MediaItem {
	return MediaItem{
		Key:              m.Key,
		Title:            m.Title,
		Type:             m.Type,
		LibrarySectionID: int(m.LibrarySectionID),
	}
}

func toSection(d Directory) Section {
	return Section{Key: int(d.Key), Title: d.Title, Type: d.Type}
}
