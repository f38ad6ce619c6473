// Package plex wraps the subset of the media server's HTTP/JSON API used to copy playlist items into a collection.
//
// # Requests
//
// Every request is built by [Client] from the configured host and a path, with parameters encoded by
// [EncodeQuery]. The access token is always appended as the final X-Plex-Token pair.
// GET requests ask for JSON and every payload is read from the MediaContainer envelope field.
// A non-200 status or a body without that envelope is reported as [shared.ErrBadResponse] or
// [shared.ErrMalformedResponse].
//
// # Connectivity
//
// [Client.CheckConnection] probes the server root. Failures are returned as [*ConnectionError], which
// unwraps to [shared.ErrConnection], [shared.ErrAuthFailed] or [shared.ErrBadResponse].
//
// # Collections
//
// [Client.SetCollections] replaces the collection tags of a single item. Callers must pass the complete
// tag set (existing tags plus the new one); the server drops any tag that is not listed.
// The PUT is preceded by an OPTIONS request to the same URL whose outcome is only logged.
//
// # Pacing
//
// An optional [rate.Limiter] spaces requests out; there are no retries.
package plex
