// Package session binds the simulation kernels to a scheduler and the shared
// config store.
//
// Kernels are only mutated on the session's own frame callback or under the
// session lock; other goroutines (the TUI, websocket clients) talk to a
// session through its command methods and read published snapshots.
package session
