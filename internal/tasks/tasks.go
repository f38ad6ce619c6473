// package tasks implements the copy run: resolving the playlist, library section and collection, then merging
// the playlist's items into the collection.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/p2c/internal/plex"
	"github.com/desertthunder/p2c/internal/prompt"
	"github.com/desertthunder/p2c/internal/shared"
)

const (
	playlistPrompt = "\nSelect a playlist (-1 to cancel, prepend 'L' to list the items in the playlist): "
	playlistRetry  = "Invalid number, please try again (-1 to cancel): "
	sectionTitle   = "\nChoose a library to add the collection to.\n" +
		"NOTE: Only playlist items part of the chosen library will be added to the collection.\n\n" +
		"Available Libraries:\n"
	sectionPrompt    = "\nEnter the library number (-1 to cancel): "
	sectionRetry     = "Invalid section, please try again (-1 to cancel): "
	collectionPrompt = "Enter the collection name: "
)

// Library is the subset of the media server API used by a copy run.
//
// Implemented by [plex.Client]; tests substitute an in-memory fake.
type Library interface {
	Playlists(ctx context.Context) ([]plex.Playlist, error)
	PlaylistItems(ctx context.Context, playlistKey string) ([]plex.MediaItem, error)
	Sections(ctx context.Context) ([]plex.Section, error)
	Collections(ctx context.Context, sectionKey int) ([]plex.Collection, error)
	ItemCollections(ctx context.Context, itemKey string) ([]string, error)
	SetCollections(ctx context.Context, sectionKey int, item plex.MediaItem, tags []string) error
}

// ItemStatus is the outcome of merging a single playlist item.
type ItemStatus int

const (
	StatusAdded ItemStatus = iota
	StatusAlreadyMember
	StatusOtherSection
	StatusLookupFailed
	StatusAddFailed
)

func (s ItemStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusAlreadyMember:
		return "already_member"
	case StatusOtherSection:
		return "other_section"
	case StatusLookupFailed:
		return "lookup_failed"
	case StatusAddFailed:
		return "add_failed"
	default:
		return ""
	}
}

// ItemResult records what happened to one playlist item.
type ItemResult struct {
	Item   plex.MediaItem
	Status ItemStatus
	Err    error // set for StatusLookupFailed and StatusAddFailed
}

// MergeResult contains all data from a merge.
type MergeResult struct {
	Playlist   plex.Playlist
	Section    plex.Section
	Collection string
	Items      []ItemResult // in playlist order
}

// Count returns the number of items that ended with status s.
func (r *MergeResult) Count(s ItemStatus) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == s {
			n++
		}
	}
	return n
}

// CollectionChoice is the resolved destination collection.
type CollectionChoice struct {
	Name     string // stored title when Existing
	Existing bool
}

// CopyRequest holds the user-supplied identifiers; any of them may be empty.
type CopyRequest struct {
	Playlist   string
	Section    string
	Collection string
}

// Engine runs the resolvers and the merge against a [Library], prompting through a [prompt.Selector] and
// printing progress to an output writer.
type Engine struct {
	library  Library
	selector prompt.Selector
	out      io.Writer
	logger   *log.Logger
}

// NewEngine creates a new Engine. A nil out discards console messages and a nil logger discards logs.
func NewEngine(library Library, selector prompt.Selector, out io.Writer, logger *log.Logger) *Engine {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Engine{library: library, selector: selector, out: out, logger: logger}
}

func (e *Engine) report(update ProgressUpdate) {
	e.logger.Debug("progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
	fmt.Fprintln(e.out, update.Message)
}

// Run performs a full copy run: playlist, section and collection resolution followed by the merge.
//
// Resolver failures print the matching abort message and stop the run early; the returned error says why.
// A failed item listing still ends the run with "Done!". The result is nil unless the merge ran.
func (e *Engine) Run(ctx context.Context, req CopyRequest) (*MergeResult, error) {
	playlist, err := e.ResolvePlaylist(ctx, req.Playlist)
	if err != nil {
		e.report(abortUpdate(FindPlaylist))
		return nil, err
	}

	section, err := e.ResolveSection(ctx, req.Section)
	if err != nil {
		e.report(abortUpdate(FindSection))
		return nil, err
	}

	choice, err := e.ResolveCollection(ctx, section, req.Collection)
	if err != nil {
		e.report(abortUpdate(FindCollection))
		return nil, err
	}

	result, err := e.Merge(ctx, section, playlist, choice.Name)
	if err != nil {
		e.report(abortUpdate(MergeItems))
	} else {
		e.report(summaryUpdate(result))
	}
	e.report(doneUpdate())
	return result, err
}

// ResolvePlaylist finds the video playlist titled name, ignoring case, or asks the user to pick one.
//
// A single match is returned without prompting. With several matches the user picks among them; with none
// the user picks among all playlists, after confirming when a name was given.
func (e *Engine) ResolvePlaylist(ctx context.Context, name string) (plex.Playlist, error) {
	playlists, err := e.library.Playlists(ctx)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNoPlaylists):
			e.report(noPlaylistsUpdate())
		case errors.Is(err, shared.ErrMalformedResponse):
			e.report(unreadablePlaylistsUpdate())
		default:
			e.report(playlistsUnavailableUpdate())
		}
		return plex.Playlist{}, err
	}

	var matches []plex.Playlist
	if name != "" {
		for _, p := range playlists {
			if shared.SameTitle(p.Title, name) {
				matches = append(matches, p)
			}
		}
	}

	e.logger.Debug("playlist lookup", "name", name, "matches", len(matches), "available", len(playlists))

	var (
		candidates = playlists
		title      string
		label      = func(p plex.Playlist) string { return p.Title }
	)

	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) > 1:
		candidates = matches
		title = "Multiple matching playlists found:\n"
		label = func(p plex.Playlist) string {
			return fmt.Sprintf("%s (%d items, created %s)", p.Title, p.LeafCount, p.Created())
		}
	case name == "":
		title = "Available Playlists:\n"
	default:
		question := fmt.Sprintf("Sorry, we could not find a playlist by the name of \"%s\". List playlists", name)
		ok, err := e.selector.Confirm(ctx, question)
		if err != nil {
			return plex.Playlist{}, err
		}
		if !ok {
			return plex.Playlist{}, shared.ErrCancelled
		}
	}

	menu := prompt.Menu{
		Title:   title,
		Prompt:  playlistPrompt,
		Retry:   playlistRetry,
		Options: make([]prompt.Option, len(candidates)),
		Inspect: func(ctx context.Context, key int) prompt.Detail {
			return e.playlistDetail(ctx, candidates[key-1])
		},
	}
	for i, p := range candidates {
		menu.Options[i] = prompt.Option{Key: i + 1, Label: label(p)}
	}

	key, err := e.selector.Select(ctx, menu)
	if err != nil {
		return plex.Playlist{}, err
	}

	selected := candidates[key-1]
	e.report(selectedPlaylistUpdate(selected.Title))
	return selected, nil
}

func (e *Engine) playlistDetail(ctx context.Context, p plex.Playlist) prompt.Detail {
	d := prompt.Detail{Heading: fmt.Sprintf("Items in \"%s\":", p.Title)}

	items, err := e.library.PlaylistItems(ctx, p.Key)
	switch {
	case errors.Is(err, shared.ErrNoMetadata):
		d.Lines = []string{"No items found in playlist"}
	case err != nil:
		e.logger.Warn("could not list playlist items", "playlist", p.Title, "error", err)
		d.Lines = []string{"Something went wrong. Could not list playlist items"}
	default:
		for _, it := range items {
			d.Lines = append(d.Lines, it.Title)
		}
	}
	return d
}

// ResolveSection returns the section whose key is id, or asks the user to pick one.
//
// id must be a plain decimal number to be looked up; an unknown number prints a warning first.
func (e *Engine) ResolveSection(ctx context.Context, id string) (plex.Section, error) {
	sections, err := e.library.Sections(ctx)
	if err != nil {
		return plex.Section{}, err
	}

	if want, ok := shared.SectionNumber(id); ok {
		for _, s := range sections {
			if s.Key == want {
				e.report(foundSectionUpdate(s))
				return s, nil
			}
		}
		e.report(missingSectionUpdate(want))
	} else if strings.TrimSpace(id) != "" {
		e.logger.Warn("ignoring non-numeric library section", "section", id)
	}

	menu := prompt.Menu{
		Title:   sectionTitle,
		Prompt:  sectionPrompt,
		Retry:   sectionRetry,
		Options: make([]prompt.Option, len(sections)),
	}
	for i, s := range sections {
		menu.Options[i] = prompt.Option{Key: s.Key, Label: s.Title}
	}

	key, err := e.selector.Select(ctx, menu)
	if err != nil {
		return plex.Section{}, err
	}

	for _, s := range sections {
		if s.Key == key {
			e.report(selectedSectionUpdate(s))
			return s, nil
		}
	}
	return plex.Section{}, fmt.Errorf("%w: %d", shared.ErrSectionNotFound, key)
}

// ResolveCollection determines the destination collection in section and confirms it with the user.
//
// A blank name is prompted for. A case-insensitive match against the section's collections adopts the stored
// title. Declining the confirmation returns [shared.ErrCancelled].
func (e *Engine) ResolveCollection(ctx context.Context, section plex.Section, name string) (CollectionChoice, error) {
	for strings.TrimSpace(name) == "" {
		var err error
		if name, err = e.selector.Input(ctx, collectionPrompt); err != nil {
			return CollectionChoice{}, err
		}
	}

	collections, err := e.library.Collections(ctx, section.Key)
	if err != nil {
		return CollectionChoice{}, err
	}

	choice := CollectionChoice{Name: name}
	for _, c := range collections {
		if shared.SameTitle(c.Title, name) {
			choice = CollectionChoice{Name: c.Title, Existing: true}
			break
		}
	}

	var question string
	if choice.Existing {
		question = fmt.Sprintf("\"%s\" already exists. Add applicable items from your playlist to it", choice.Name)
	} else {
		question = fmt.Sprintf("Create a new collection \"%s\" and add all applicable items from your playlist to it", choice.Name)
	}

	fmt.Fprintln(e.out)
	ok, err := e.selector.Confirm(ctx, question)
	if err != nil {
		return CollectionChoice{}, err
	}
	if !ok {
		return CollectionChoice{}, shared.ErrCancelled
	}
	return choice, nil
}

// Merge adds every item of playlist that belongs to section to collection, keeping each item's existing
// collections.
//
// Items in another section are skipped, as are items already tagged with collection (exact match). Per-item
// failures are recorded in the result and do not stop the merge; only a failed item listing is returned as an
// error.
func (e *Engine) Merge(ctx context.Context, section plex.Section, playlist plex.Playlist, collection string) (*MergeResult, error) {
	e.report(addingItemsUpdate(playlist.LeafCount, collection))

	items, err := e.library.PlaylistItems(ctx, playlist.Key)
	if err != nil {
		e.logger.Error("could not list playlist items", "playlist", playlist.Title, "error", err)
		return nil, err
	}

	result := &MergeResult{Playlist: playlist, Section: section, Collection: collection}
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		r := e.mergeItem(ctx, section, item, collection)
		result.Items = append(result.Items, r)
		e.report(itemUpdate(i+1, len(items), r, section, collection))
	}
	return result, nil
}

func (e *Engine) mergeItem(ctx context.Context, section plex.Section, item plex.MediaItem, collection string) ItemResult {
	logger := shared.WithLogger(e.logger, "item", item.Key)

	if item.LibrarySectionID != section.Key {
		return ItemResult{Item: item, Status: StatusOtherSection}
	}

	current, err := e.library.ItemCollections(ctx, item.Key)
	if err != nil {
		logger.Warn("could not read item collections", "error", err)
		return ItemResult{Item: item, Status: StatusLookupFailed, Err: err}
	}

	if slices.Contains(current, collection) {
		return ItemResult{Item: item, Status: StatusAlreadyMember}
	}

	tags := append(slices.Clone(current), collection)
	if err := e.library.SetCollections(ctx, section.Key, item, tags); err != nil {
		logger.Warn("could not update item collections", "error", err)
		return ItemResult{Item: item, Status: StatusAddFailed, Err: err}
	}

	logger.Debug("added to collection", "collection", collection, "tags", len(tags))
	return ItemResult{Item: item, Status: StatusAdded}
}
