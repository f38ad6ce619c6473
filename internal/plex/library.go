package plex

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/p2c/internal/shared"
)

// Playlists retrieves all video playlists.
//
// Calls GET /playlists?playlistType=video. Returns [shared.ErrNoPlaylists] when the listing is empty
// and [shared.ErrMalformedResponse] when the envelope has a size but no Metadata.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	mc, err := c.getContainer(ctx, "/playlists", Param{Key: "playlistType", Value: "video"})
	if err != nil {
		return nil, err
	}

	if mc.Size == nil || *mc.Size == 0 {
		return nil, shared.ErrNoPlaylists
	}
	if mc.Metadata == nil {
		return nil, fmt.Errorf("%w: playlist listing has no Metadata", shared.ErrMalformedResponse)
	}

	playlists := make([]Playlist, len(mc.Metadata))
	for i, m := range mc.Metadata {
		playlists[i] = toPlaylist(m)
	}
	return playlists, nil
}

// PlaylistItems retrieves the items of a playlist by its key.
//
// Returns [shared.ErrNoMetadata] when the response carries no Metadata list.
func (c *Client) PlaylistItems(ctx context.Context, playlistKey string) ([]MediaItem, error) {
	mc, err := c.getContainer(ctx, playlistKey)
	if err != nil {
		return nil, err
	}

	if mc.Metadata == nil {
		return nil, shared.ErrNoMetadata
	}

	items := make([]MediaItem, len(mc.Metadata))
	for i, m := range mc.Metadata {
		items[i] = toMediaItem(m)
	}
	return items, nil
}

// Sections retrieves the library section directory.
//
// Calls GET /library/sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	mc, err := c.getContainer(ctx, "/library/sections")
	if err != nil {
		return nil, err
	}

	if mc.Directory == nil {
		return nil, fmt.Errorf("%w: section listing has no Directory", shared.ErrMalformedResponse)
	}

	sections := make([]Section, len(mc.Directory))
	for i, d := range mc.Directory {
		sections[i] = toSection(d)
	}
	return sections, nil
}

// Collections retrieves the collections of a section.
//
// Calls GET /library/sections/{id}/collections. An empty section yields an empty slice.
func (c *Client) Collections(ctx context.Context, sectionKey int) ([]Collection, error) {
	mc, err := c.getContainer(ctx, fmt.Sprintf("/library/sections/%d/collections", sectionKey))
	if err != nil {
		return nil, err
	}

	if mc.Size == nil || *mc.Size == 0 {
		return []Collection{}, nil
	}

	collections := make([]Collection, 0, len(mc.Metadata))
	for _, m := range mc.Metadata {
		collections = append(collections, Collection{Title: m.Title})
	}
	return collections, nil
}

// ItemCollections returns the collection tags an item currently belongs to.
//
// Requests the item's own metadata; an envelope without Metadata yields an empty set.
func (c *Client) ItemCollections(ctx context.Context, itemKey string) ([]string, error) {
	mc, err := c.getContainer(ctx, itemKey)
	if err != nil {
		return nil, err
	}

	tags := []string{}
	for _, m := range mc.Metadata {
		for _, t := range m.Collection {
			tags = append(tags, t.Tag)
		}
	}
	return tags, nil
}

// SetCollections replaces the collection tags of item with tags.
//
// tags must be the complete set the item should belong to. Items whose type has no type code fail with
// [shared.ErrIneligibleType] and no request is made. An OPTIONS pre-flight is sent to the same URL first;
// its outcome is only logged. A non-2xx PUT status is returned as [shared.ErrBadResponse].
func (c *Client) SetCollections(ctx context.Context, sectionKey int, item MediaItem, tags []string) error {
	typeCode, ok := TypeCode(item.Type)
	if !ok {
		return fmt.Errorf("%w: %q", shared.ErrIneligibleType, item.Type)
	}

	metadataID, err := item.MetadataID()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	path := fmt.Sprintf("/library/sections/%d/all", sectionKey)
	params := CollectionParams(typeCode, metadataID, tags)

	if resp, err := c.do(ctx, http.MethodOptions, path, params); err != nil {
		c.logger.Debug("pre-flight failed", "path", path, "error", err)
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	resp, err := c.do(ctx, http.MethodPut, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: PUT %s returned status %d", shared.ErrBadResponse, path, resp.StatusCode)
	}
	return nil
}
