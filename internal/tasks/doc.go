// Package tasks coordinates catalog work for the presentation layer.
//
// # Page Loaders
//
// [Browser] issues the catalog calls each view needs in parallel and joins them:
//
//   - [Browser.Home] : popular tracks, chill and electronic picks, popular artists and albums
//   - [Browser.Artist] : artist profile, top tracks and discography
//   - [Browser.Album] : album details and track listing
//   - [Browser.Playlist] : playlist track listing
//   - [Browser.Genre] : popular tracks for a tag
//   - [Browser.Search] : tracks matching a query
//   - [Browser.Playlists] : community playlists
//
// The first failing call cancels its siblings and its error is returned.
//
// # Stale Responses
//
// [Generation] issues request tokens. Each navigation takes a new token; a response whose token
// is no longer current belongs to a page the user has left and must be dropped.
//
// # Debouncing
//
// [Debouncer] delays a task until input settles. Every trigger cancels the pending task,
// so only the last trigger in a burst runs.
//
// # Library Export
//
// [Browser.ExportLibrary] writes liked songs and the track listings of saved albums to disk.
// Album listings are fetched by a rate limited worker pool and progress is reported
// on a non-blocking channel.
package tasks
