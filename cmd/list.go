package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/p2c/internal/plex"
	"github.com/desertthunder/p2c/internal/shared"
	"github.com/urfave/cli/v3"
)

// Check verifies connectivity and authentication.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	s, client, err := r.connect(ctx, cmd)
	if err != nil {
		return err
	}
	s.logger.Info("connection ok", "host", client.Host())
	return r.writePlain("Connected to %s\n", client.Host())
}

// Playlists lists the server's video playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	_, client, err := r.connect(ctx, cmd)
	if err != nil {
		return err
	}

	playlists, err := client.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	for i, p := range playlists {
		r.writePlain("[%d] %s (%d items, created %s)\n", i+1, p.Title, p.LeafCount, p.Created())
	}
	return nil
}

// Items lists the items of the playlist named by --playlist.
func (r *Runner) Items(ctx context.Context, cmd *cli.Command) error {
	s, client, err := r.connect(ctx, cmd)
	if err != nil {
		return err
	}

	name := s.settings.Playlist
	if name == "" {
		return fmt.Errorf("%w: --playlist", shared.ErrMissingArgument)
	}

	playlists, err := client.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	var found *plex.Playlist
	for i := range playlists {
		if shared.SameTitle(playlists[i].Title, name) {
			found = &playlists[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: no playlist named \"%s\"", shared.ErrInvalidArgument, name)
	}

	items, err := client.PlaylistItems(ctx, found.Key)
	if err != nil {
		return fmt.Errorf("failed to list items of \"%s\": %w", found.Title, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	r.writePlain("Items in \"%s\":\n", found.Title)
	for _, item := range items {
		r.writePlain("\t%s (%s, section %d)\n", item.Title, item.Type, item.LibrarySectionID)
	}
	return nil
}

// Sections lists the library sections.
func (r *Runner) Sections(ctx context.Context, cmd *cli.Command) error {
	_, client, err := r.connect(ctx, cmd)
	if err != nil {
		return err
	}

	sections, err := client.Sections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sections: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(sections, true)
	}

	for _, section := range sections {
		r.writePlain("[%d] %s\n", section.Key, section.Title)
	}
	return nil
}

// Collections lists the collections of the section named by --section.
func (r *Runner) Collections(ctx context.Context, cmd *cli.Command) error {
	s, client, err := r.connect(ctx, cmd)
	if err != nil {
		return err
	}

	if s.settings.Section == "" {
		return fmt.Errorf("%w: --section", shared.ErrMissingArgument)
	}
	key, ok := s.settings.SectionNumber()
	if !ok {
		return fmt.Errorf("%w: section must be a number, got \"%s\"", shared.ErrInvalidArgument, s.settings.Section)
	}

	collections, err := client.Collections(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(collections, true)
	}

	if len(collections) == 0 {
		return r.writePlain("No collections in section %d\n", key)
	}
	for _, c := range collections {
		r.writePlain("%s\n", c.Title)
	}
	return nil
}
