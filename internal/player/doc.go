// Package player holds the playback state machine and keeps an audio engine in step with it.
//
// # State Machine
//
// [Store] states are implicit in its fields: no track, track loaded and paused, track loaded and playing.
// Store operations never perform I/O. Listeners registered with [Store.Subscribe] receive the previous and
// next [State] after every change.
//
// # Synchronization
//
// [Sync] observes store transitions and drives an [Engine]:
//   - a new current track is loaded and its duration fed back with [Store.SetDuration]
//   - playing starts the engine; if it cannot start, the store is paused to match
//   - paused stops the engine
//   - volume changes are applied to the output
//   - the engine's end-of-track notification advances the queue
//
// [Sync.Tick] samples the engine position into [Store.SetProgress].
package player
