package tasks

import (
	"fmt"

	"github.com/desertthunder/p2c/internal/plex"
)

// ProgressUpdate represents a user-facing event during a copy run.
//
// Every console message printed by the [Engine] is built here so the wording stays in one place.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FindPlaylist Phase = iota
	FindSection
	FindCollection
	MergeItems
	Finish
)

func (p Phase) String() string {
	switch p {
	case FindPlaylist:
		return "find_playlist"
	case FindSection:
		return "find_section"
	case FindCollection:
		return "find_collection"
	case MergeItems:
		return "merge_items"
	case Finish:
		return "finish"
	default:
		return ""
	}
}

func messageUpdate(phase Phase, format string, args ...any) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Message: fmt.Sprintf(format, args...)}
}

func playlistsUnavailableUpdate() ProgressUpdate {
	return messageUpdate(FindPlaylist, "Could not get playlists from server.")
}

func noPlaylistsUpdate() ProgressUpdate {
	return messageUpdate(FindPlaylist, "No playlists found.")
}

func unreadablePlaylistsUpdate() ProgressUpdate {
	return messageUpdate(FindPlaylist, "Error reading playlists from server.")
}

func selectedPlaylistUpdate(title string) ProgressUpdate {
	return messageUpdate(FindPlaylist, "\nSelected %s\n", title)
}

func foundSectionUpdate(s plex.Section) ProgressUpdate {
	return messageUpdate(FindSection, "Found section %d: \"%s\"", s.Key, s.Title)
}

func missingSectionUpdate(id int) ProgressUpdate {
	return messageUpdate(FindSection, "Provided library section %d could not be found...\n", id)
}

func selectedSectionUpdate(s plex.Section) ProgressUpdate {
	return messageUpdate(FindSection, "\nSelected \"%s\"\n", s.Title)
}

func addingItemsUpdate(total int, collection string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergeItems,
		Total:   total,
		Message: fmt.Sprintf("\nAdding %d items to collection \"%s\"\n", total, collection),
	}
}

func itemUpdate(step, total int, r ItemResult, section plex.Section, collection string) ProgressUpdate {
	title := r.Item.Title

	var msg string
	switch r.Status {
	case StatusOtherSection:
		msg = fmt.Sprintf("Not adding %s to collection, as it is not in the library \"%s\" (%d vs %d)",
			title, section.Title, r.Item.LibrarySectionID, section.Key)
	case StatusLookupFailed:
		msg = fmt.Sprintf("Error getting existing collections for \"%s\", moving on...", title)
	case StatusAlreadyMember:
		msg = fmt.Sprintf("%s already exists in \"%s\"", title, collection)
	case StatusAddFailed:
		msg = fmt.Sprintf("Unable to add \"%s\" to \"%s\", moving on...", title, collection)
	default:
		msg = fmt.Sprintf("Added \"%s\" to \"%s\"", title, collection)
	}

	return ProgressUpdate{Phase: MergeItems, Step: step, Total: total, Message: msg}
}

func summaryUpdate(r *MergeResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Finish,
		Total: len(r.Items),
		Message: fmt.Sprintf("\n%d added, %d already present, %d skipped, %d failed",
			r.Count(StatusAdded), r.Count(StatusAlreadyMember), r.Count(StatusOtherSection),
			r.Count(StatusLookupFailed)+r.Count(StatusAddFailed)),
	}
}

func abortUpdate(phase Phase) ProgressUpdate {
	switch phase {
	case FindPlaylist:
		return messageUpdate(phase, "Unable to find the right playlist, exiting...")
	case FindSection:
		return messageUpdate(phase, "Unable to find the right library section, exiting...")
	case FindCollection:
		return messageUpdate(phase, "Unable to get the right collection, exiting...")
	default:
		return messageUpdate(phase, "Unable to add items to collection, exiting...")
	}
}

func doneUpdate() ProgressUpdate {
	return messageUpdate(Finish, "\nDone!")
}
