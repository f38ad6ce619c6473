// Package tasks orchestrates copying a media-server playlist into a library collection.
//
// # Core Operations
//
// The [Engine] runs four steps in order; [Engine.Run] chains them and stops at the first failure:
//
//  1. [Engine.ResolvePlaylist] : Find the source playlist
//     - Exact case-insensitive title match returns immediately
//     - Several matches open a picker restricted to them, with item count and creation date
//     - No match opens a picker over every playlist (after a yes/no question when a name was given)
//     - "L<n>" in the picker lists a playlist's items without choosing it
//
//  2. [Engine.ResolveSection] : Find the destination library section by numeric key, or pick one
//
//  3. [Engine.ResolveCollection] : Name the destination collection
//     - Adopts the stored title of an existing collection that matches ignoring case
//     - Confirms "create new" or "add to existing" with the user
//
//  4. [Engine.Merge] : Tag each playlist item in the section with the collection
//     - Items already tagged are skipped, so a second run adds nothing
//     - Existing tags are sent back unchanged with the new one appended
//     - Per-item failures are reported and the merge moves on
//
// # Progress Reporting
//
// Console messages are built as [ProgressUpdate] values and written synchronously in run order, between
// prompts. The [MergeResult] holds one [ItemResult] per playlist item for reports.
//
// # Cancellation
//
// Every prompt can be cancelled ("-1", declining a confirmation, or end of input). Cancellation surfaces as
// shared.ErrCancelled from the resolver that was prompting.
package tasks
